package document

import (
	"strings"

	"github.com/goliatone/go-manuscript/pkg/interfaces"
)

// Format re-exports the surface-syntax selector so callers working with
// blocks do not need to import pkg/interfaces directly.
type Format = interfaces.SourceFormat

const (
	FormatMarkdown = interfaces.FormatMarkdown
	FormatTex      = interfaces.FormatTex
)

// BlockKind classifies a block inside the canonical sequence.
type BlockKind string

const (
	// KindHeading marks a section heading plus the content that runs to
	// the next heading.
	KindHeading BlockKind = "heading"
	// KindParagraph marks free content with no owning heading, such as a
	// document preamble.
	KindParagraph BlockKind = "paragraph"
)

// Block is the canonical unit of document structure. Sequence order is
// the sole structural signal; there is no separate tree. Content may
// contain blank-line-separated paragraphs, math blocks, figure
// directives, and citation markers in either surface syntax.
type Block struct {
	Kind    BlockKind `json:"kind"`
	Level   int       `json:"level,omitempty"`
	Heading string    `json:"heading,omitempty"`
	Content string    `json:"content,omitempty"`
}

// Heading constructs a heading block at the given level.
func Heading(level int, heading, content string) Block {
	return Block{Kind: KindHeading, Level: level, Heading: heading, Content: content}
}

// Paragraph constructs a content-only block.
func Paragraph(content string) Block {
	return Block{Kind: KindParagraph, Content: content}
}

// ClampedLevel forces the heading level into [1,3]. A corrupt or
// externally-set level never produces invalid output on render.
func (b Block) ClampedLevel() int {
	switch {
	case b.Level < 1:
		return 1
	case b.Level > 3:
		return 3
	default:
		return b.Level
	}
}

// IsEmpty reports whether the block would render to nothing.
func (b Block) IsEmpty() bool {
	if b.Kind == KindHeading {
		return strings.TrimSpace(b.Heading) == "" && strings.TrimSpace(b.Content) == ""
	}
	return strings.TrimSpace(b.Content) == ""
}
