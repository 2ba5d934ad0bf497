package search

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	taskPreamble = "Find this contact info by any means necessary, take as long as you need and don't give up."
	taskFields   = "\nFind the following information:"
	taskClosing  = "\nReturn the results in a structured format with the field names exactly as requested."
)

// Word characters include any Unicode letter or digit, so addresses such as
// jürgen@müller.de match in full.
var emailPattern = regexp.MustCompile(`[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+`)

// BuildTask renders the natural-language instruction handed to the agent.
// Parts are joined with single spaces; the leading newlines on some parts
// start a new paragraph in the agent's view.
func BuildTask(req SearchRequest) string {
	parts := []string{taskPreamble, "\nSearch keywords: " + req.Keywords}

	if v := deref(req.Organization); v != "" {
		parts = append(parts, "Organization: "+v)
	}
	if v := deref(req.Location); v != "" {
		parts = append(parts, "Location: "+v)
	}
	if v := deref(req.Role); v != "" {
		parts = append(parts, "Role/Job Title: "+v)
	}

	parts = append(parts, taskFields)
	for _, field := range req.FieldsToFind {
		parts = append(parts, "- "+HumanizeField(field))
	}
	parts = append(parts, taskClosing)

	return strings.Join(parts, " ")
}

// HumanizeField turns a programmatic field name such as "linkedin_profile_url"
// into a label such as "Linkedin Profile Url".
func HumanizeField(name string) string {
	spaced := strings.ReplaceAll(name, "_", " ")

	var b strings.Builder
	b.Grow(len(spaced))
	prevLetter := false
	for _, r := range spaced {
		switch {
		case unicode.IsLetter(r) && prevLetter:
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

// ParseContact extracts what it can from the agent's raw answer. Only the
// first email address is recognised; every other field stays unset.
func ParseContact(raw string) *ContactResult {
	result := &ContactResult{}
	if email := emailPattern.FindString(raw); email != "" {
		result.Email = &email
	}
	return result
}
