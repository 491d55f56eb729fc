package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Authored content is trusted and mixes Markdown with inline HTML, so raw
// HTML is passed through.
var md = goldmark.New(
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// Markdown renders authored Markdown to HTML. Blank input renders nothing.
func Markdown(src string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(strings.TrimSpace(buf.String())), nil
}
