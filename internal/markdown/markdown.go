package markdown

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Renderer compiles markdown bodies (frontmatter already removed) into HTML.
//
// A Renderer is safe for concurrent use; heading ids are tracked per call so
// anchors are unique within a document, not across documents.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a renderer with GFM enabled, raw HTML passed through
// and every heading anchored and self-linked.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(headingLinker{}, 500)),
		),
		goldmark.WithRendererOptions(
			// Content authors are trusted: embedded HTML is emitted verbatim.
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md}
}

// Render converts body to HTML.
func (r *Renderer) Render(ctx context.Context, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	pc := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
