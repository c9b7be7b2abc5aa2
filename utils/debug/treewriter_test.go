package debug

import (
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", depth: 0, format: "main", want: "main\n"},
		{name: "depth 2", depth: 2, format: "tbody", want: "    tbody\n"},
		{name: "with formatting", depth: 1, format: "rows: %d", args: []any{3}, want: "  rows: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{name: "empty value", label: "text", value: "", want: "text: \n"},
		{name: "indented", depth: 1, label: "text", value: "Jane Doe", want: "  text: \"Jane Doe\"\n"},
		{name: "markup with quotes", label: "raw", value: `<a href="x">`, want: "raw: \"<a href=\\\"x\\\">\"\n"},
		{name: "newline", label: "text", value: "a\nb", want: "text: \"a\\nb\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Element(t *testing.T) {
	tw := NewTreeWriter()
	tw.Element(0, "td", [][2]string{{"class", "content-cell"}, {"rowspan", "3"}})
	tw.Element(1, "br", nil)

	want := "<td class=\"content-cell\" rowspan=\"3\">\n  <br>\n"
	if got := tw.String(); got != want {
		t.Errorf("Element() = %q, want %q", got, want)
	}
}

func TestTreeWriter_Mixed(t *testing.T) {
	tw := NewTreeWriter()
	tw.Element(0, "section", [][2]string{{"id", "edu"}})
	tw.Element(1, "h2", nil)
	tw.TextBlock(2, "text", "Education")
	tw.Line(1, "#fragment")

	want := "<section id=\"edu\">\n  <h2>\n    text: \"Education\"\n  #fragment\n"
	if got := tw.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
