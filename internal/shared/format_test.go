package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		width int
		want  string
	}{
		{"shorter than width", "hello", 10, "hello"},
		{"exact width", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"tiny width clamped", "hello", 1, "hel"},
		{"multibyte runes", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.s, tt.width))
		})
	}
}

func TestPrettyTimeFallback(t *testing.T) {
	assert.Equal(t, "not a time", PrettyTime("not a time"))
	assert.Equal(t, "", PrettyTime(""))
}

func TestPrettyTimeParses(t *testing.T) {
	got := PrettyTime("2024-03-01T09:30:00Z")
	// rendered in local time, so only assert the shape
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`, got)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello", "hello"},
		{"tags removed", "<b>bold</b> text", "bold text"},
		{"breaks to newlines", "line one<br>line two", "line one\nline two"},
		{"paragraphs to newlines", "<p>one</p><p>two</p>", "one\ntwo"},
		{"entities decoded", "a &amp; b &lt;c&gt; &quot;d&quot;", `a & b <c> "d"`},
		{"nbsp to space", "a&nbsp;b", "a b"},
		{"surrounding space trimmed", "  <div>text</div>  ", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}
