package shared

import (
	"strings"
	"time"
)

// Truncate shortens s to at most width runes, adding an ellipsis.
func Truncate(s string, width int) string {
	if width <= 3 {
		width = 3
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// PrettyTime reformats an API timestamp for display. Timestamps are treated
// as opaque strings by the domain model, so anything unparsable is shown
// as-is.
func PrettyTime(s string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Local().Format("2006-01-02 15:04")
		}
	}
	return s
}

// StripHTML reduces an HTML article body to readable text: tags removed,
// breaks and paragraphs mapped to newlines, common entities decoded.
func StripHTML(s string) string {
	replacer := strings.NewReplacer(
		"<br>", "\n", "<br/>", "\n", "<br />", "\n",
		"</p>", "\n", "</div>", "\n",
	)
	s = replacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	entities := strings.NewReplacer(
		"&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'",
	)
	return strings.TrimSpace(entities.Replace(b.String()))
}
