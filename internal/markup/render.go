// Package markup turns a model's free-form reply into HTML that is safe to
// embed in the chat surface.
//
// The transform is line-local: each line is classified on its own and the
// only state carried across lines is whether an unordered list is open.
// Nested lists, tables and code fences are not recognised.
package markup

import (
	"html"
	"regexp"
	"strings"
)

// Structural markers. These are the only tags Render ever emits; all text
// operands are escaped before they reach the output.
const (
	listOpen  = "<ul>"
	listClose = "</ul>"
	itemOpen  = "<li>"
	itemClose = "</li>"
	rule      = "<hr>"
	lineBreak = "<br>"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
)

// Render converts raw reply text to markup in a single left-to-right pass.
// It is total and deterministic; an empty input yields an empty output.
func Render(raw string) string {
	r := &renderer{}
	for _, line := range strings.Split(raw, "\n") {
		r.line(line)
	}
	return r.finish()
}

type renderer struct {
	out        strings.Builder
	insideList bool
}

func (r *renderer) line(line string) {
	trimmed := strings.TrimSpace(line)

	if isListItem(trimmed) {
		if !r.insideList {
			r.out.WriteString(listOpen)
			r.insideList = true
		}
		r.out.WriteString(itemOpen)
		r.out.WriteString(inline(trimmed[2:]))
		r.out.WriteString(itemClose)
		return
	}

	r.closeList()

	if trimmed == "---" {
		r.out.WriteString(rule)
		return
	}
	r.out.WriteString(inline(line))
	r.out.WriteString(lineBreak)
}

func (r *renderer) closeList() {
	if r.insideList {
		r.out.WriteString(listClose)
		r.insideList = false
	}
}

func (r *renderer) finish() string {
	r.closeList()
	return strings.TrimSuffix(r.out.String(), lineBreak)
}

// isListItem requires the space after the marker; a lone "*" is plain text.
func isListItem(trimmed string) bool {
	return strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "- ")
}

// inline escapes s and then applies the bold and italic substitutions in
// that order. The passes are sequential, so stars consumed by a bold span
// are never seen by the italic pass.
func inline(s string) string {
	s = html.EscapeString(s)
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
	return italicPattern.ReplaceAllString(s, "<em>$1</em>")
}
