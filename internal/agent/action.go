package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ActionKind string

const (
	ActionNavigate ActionKind = "navigate"
	ActionSearch   ActionKind = "search"
	ActionOpen     ActionKind = "open"
	ActionDone     ActionKind = "done"
)

// Action is one planner decision.
type Action struct {
	Kind   ActionKind `json:"action"`
	URL    string     `json:"url,omitempty"`
	Query  string     `json:"query,omitempty"`
	Index  int        `json:"index,omitempty"`
	Result string     `json:"result,omitempty"`
}

func (a Action) String() string {
	switch a.Kind {
	case ActionNavigate:
		return fmt.Sprintf("navigate %s", a.URL)
	case ActionSearch:
		return fmt.Sprintf("search %q", a.Query)
	case ActionOpen:
		return fmt.Sprintf("open link [%d]", a.Index)
	default:
		return string(a.Kind)
	}
}

// ParseAction decodes a planner reply. Models often wrap JSON in a markdown
// fence or add a sentence around it, so the first {...} object is used.
func ParseAction(reply string) (Action, error) {
	content := strings.TrimSpace(reply)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return Action{}, fmt.Errorf("no JSON object in reply")
	}

	var act Action
	if err := json.Unmarshal([]byte(content[start:end+1]), &act); err != nil {
		return Action{}, fmt.Errorf("invalid JSON response: %w", err)
	}
	act.Kind = ActionKind(strings.ToLower(strings.TrimSpace(string(act.Kind))))

	switch act.Kind {
	case ActionNavigate:
		if act.URL == "" {
			return Action{}, fmt.Errorf("navigate needs a url")
		}
	case ActionSearch:
		if strings.TrimSpace(act.Query) == "" {
			return Action{}, fmt.Errorf("search needs a query")
		}
	case ActionOpen:
	case ActionDone:
		if strings.TrimSpace(act.Result) == "" {
			return Action{}, fmt.Errorf("done needs a result")
		}
	default:
		return Action{}, fmt.Errorf("unknown action %q", act.Kind)
	}
	return act, nil
}
