package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// markdownHTML renders markdown with math spans kept out of the markdown
// parser: each span is swapped for an alphanumeric token first and put back
// after conversion.
func markdownHTML(text string) (template.HTML, error) {
	var (
		src    strings.Builder
		tokens []string
		spans  []string
	)
	for _, seg := range SplitLatex(text) {
		if !seg.Math {
			src.WriteString(seg.Text)
			continue
		}
		tok := fmt.Sprintf("MSMATHTOKEN%dX", len(tokens))
		tokens = append(tokens, tok)
		spans = append(spans, mathHTML(seg))
		src.WriteString(tok)
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(src.String()), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	out := buf.String()
	for i := len(tokens) - 1; i >= 0; i-- {
		out = strings.ReplaceAll(out, tokens[i], spans[i])
	}
	return template.HTML(out), nil
}
