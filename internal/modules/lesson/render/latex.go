package render

import (
	"html/template"
	"regexp"
	"strings"
)

// Segment is a run of plain text or a single math span.
type Segment struct {
	Text    string `json:"text"`
	Math    bool   `json:"math"`
	Display bool   `json:"display"`
}

var latexSpan = regexp.MustCompile(`\$\$.*?\$\$|\$.*?\$`)

// SplitLatex cuts text into plain and math segments. $$...$$ is display
// math, $...$ is inline math; spans do not cross line breaks. Empty pieces
// are dropped.
func SplitLatex(text string) []Segment {
	var out []Segment
	last := 0
	for _, loc := range latexSpan.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, Segment{Text: text[last:loc[0]]})
		}
		out = append(out, mathSegment(text[loc[0]:loc[1]]))
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

func mathSegment(span string) Segment {
	if len(span) >= 4 && strings.HasPrefix(span, "$$") && strings.HasSuffix(span, "$$") {
		return Segment{Text: span[2 : len(span)-2], Math: true, Display: true}
	}
	return Segment{Text: span[1 : len(span)-1], Math: true}
}

// mathHTML emits a span a client-side math renderer can pick up.
func mathHTML(seg Segment) string {
	body := template.HTMLEscapeString(seg.Text)
	if seg.Display {
		return `<span class="math display">\[` + body + `\]</span>`
	}
	return `<span class="math inline">\(` + body + `\)</span>`
}

// inlineHTML renders text with math spans and line breaks, no markdown.
func inlineHTML(text string) template.HTML {
	var b strings.Builder
	for _, seg := range SplitLatex(text) {
		if seg.Math {
			b.WriteString(mathHTML(seg))
			continue
		}
		b.WriteString(escapeLines(seg.Text))
	}
	return template.HTML(b.String())
}

func escapeLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = template.HTMLEscapeString(line)
	}
	return strings.Join(lines, "<br>")
}
