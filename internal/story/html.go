package story

import (
	"html"
	"strings"
)

// EmailSubject is the fixed subject line for delivered stories.
const EmailSubject = "Your Life Story"

// HTMLBody renders generated prose as a single HTML paragraph with line
// breaks preserved, the shape email clients render most consistently.
func HTMLBody(storyText string) string {
	escaped := html.EscapeString(strings.TrimSpace(storyText))
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}
