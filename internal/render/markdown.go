package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// MarkdownRenderer turns post bodies into HTML. Generated bodies are
// model output, so raw HTML inside them is dropped.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &MarkdownRenderer{md: md}
}

type MarkdownResult struct {
	HTML     []byte
	Headings []Heading
}

func (r *MarkdownRenderer) Render(src []byte) (MarkdownResult, error) {
	ctx := parser.NewContext()
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))

	var heads []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		heads = append(heads, Heading{
			Level: h.Level,
			ID:    headingID(h),
			Text:  headingText(h, src),
		})
		return ast.WalkSkipChildren, nil
	})

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return MarkdownResult{}, err
	}
	return MarkdownResult{HTML: buf.Bytes(), Headings: heads}, nil
}

// RenderString is Render for callers holding the body as a string.
func (r *MarkdownRenderer) RenderString(src string) (MarkdownResult, error) {
	return r.Render([]byte(src))
}

func headingID(h *ast.Heading) string {
	id, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch v := id.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// headingText collects the text of every descendant, so emphasis or
// links inside a heading still show up in the outline.
func headingText(h *ast.Heading, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
