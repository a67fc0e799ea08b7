package document

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// HTMLOptions customises preview rendering behaviour.
type HTMLOptions struct {
	HardWraps bool
	// Unsafe allows raw HTML embedded in block content to pass through.
	Unsafe bool
}

// HTMLRenderer converts a block sequence's markdown surface into HTML
// for read-only article views. The renderer is stateless so callers can
// reuse a single instance across requests without additional locking.
type HTMLRenderer struct {
	engine goldmark.Markdown
}

// NewHTMLRenderer constructs a preview renderer with GFM extensions and
// auto heading IDs enabled.
func NewHTMLRenderer(opts HTMLOptions) *HTMLRenderer {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithExtensions(extension.GFM),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return &HTMLRenderer{engine: goldmark.New(engineOptions...)}
}

// Render converts blocks to HTML via their markdown rendering. Content
// authored in the tex dialect is normalized to markdown constructs
// first, so previews work for either source format.
func (r *HTMLRenderer) Render(blocks []Block) ([]byte, error) {
	source, _ := RenderMarkdown(blocks, nil)

	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("document: html preview: %w", err)
	}
	return buf.Bytes(), nil
}
