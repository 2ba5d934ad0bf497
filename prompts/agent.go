package prompts

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// ActionSchema documents the JSON reply the planner must produce. It is
// passed in as a template variable so the braces survive f-string rendering.
const ActionSchema = `{"action": "navigate", "url": "https://example.com"}
{"action": "search", "query": "jane doe acme email"}
{"action": "open", "index": 3}
{"action": "done", "result": "Email: jane@acme.com\nFull Name: Jane Doe"}`

// AgentStep is the per-step template for the browsing agent. Variables:
// task, action_schema, history, observation.
func AgentStep() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(`# Your Role
You are an autonomous research agent controlling a real web browser.

# How You Work
Each turn you see the task, what you have done so far, and the page the browser is showing.
Reply with exactly ONE next action as a single JSON object, one of:
{action_schema}

# Rules
1. **Search first**: start with a web search unless the task names a site.
2. **Follow evidence**: prefer official company pages, personal sites, GitHub, LinkedIn and conference bios.
3. **Links**: use "open" with the index of a link listed in the current page.
4. **Finish**: use "done" once you have the requested information or have exhausted reasonable leads.
   The "result" must list every requested field by name with its value, or "not found".
5. **Format**: return ONLY the JSON object. No markdown, no commentary.`),

		schema.UserMessage(`**Task**:
{task}

**Steps so far**:
{history}

**Current page**:
{observation}

Reply with the next action as JSON only.`),
	)
}
