package document

import (
	"strings"
	"testing"

	"github.com/goliatone/go-manuscript/bibliography"
)

func TestRenderMarkdownBody(t *testing.T) {
	blocks := []Block{
		Heading(1, "Title", "Hello"),
		Heading(2, "Methods", "World"),
	}

	got, warnings := RenderMarkdown(blocks, nil)
	want := "# Title\n\nHello\n\n## Methods\n\nWorld\n"
	if got != want {
		t.Fatalf("RenderMarkdown mismatch:\ngot  %q\nwant %q", got, want)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestRenderMarkdownClampsHeadingLevels(t *testing.T) {
	got, _ := RenderMarkdown([]Block{
		Heading(7, "Deep", ""),
		Heading(0, "Shallow", ""),
		Heading(-2, "Negative", ""),
	}, nil)

	want := "### Deep\n\n# Shallow\n\n# Negative\n"
	if got != want {
		t.Fatalf("level clamping failed:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderMarkdownWithBibliography(t *testing.T) {
	blocks := []Block{Heading(1, "Title", "See [@smith2020].")}
	entries := []bibliography.Entry{{
		Key:    "smith2020",
		Type:   "article",
		Fields: map[string]string{"author": "Smith, Jane", "title": "A Title", "journal": "Journal", "year": "2020"},
		Raw:    "@article{smith2020, title = {A Title}}",
	}}

	got, _ := RenderMarkdown(blocks, entries)

	if !strings.HasPrefix(got, "---\nbibliography: references.bib\n---\n") {
		t.Fatalf("front matter missing:\n%s", got)
	}
	if !strings.Contains(got, "## References") {
		t.Fatalf("references section missing:\n%s", got)
	}
	if !strings.Contains(got, "[1] Smith, Jane. A Title. Journal, 2020.") {
		t.Fatalf("formatted reference missing:\n%s", got)
	}
}

func TestRenderMarkdownEmptyBlocks(t *testing.T) {
	if got, _ := RenderMarkdown(nil, nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}

	got, _ := RenderMarkdown([]Block{
		Paragraph("   "),
		Heading(1, "Kept", ""),
		Heading(2, "", "  "),
	}, nil)
	if got != "# Kept\n" {
		t.Fatalf("empty blocks should be skipped:\ngot %q", got)
	}
}

func TestRenderTexAssembly(t *testing.T) {
	blocks := []Block{Heading(1, "Title", "Hello")}

	got, _ := RenderTex(blocks, nil)

	if !strings.HasPrefix(got, "\\documentclass{article}\n") {
		t.Fatalf("preamble missing:\n%s", got)
	}
	for _, required := range []string{
		`\usepackage{graphicx}`,
		`\usepackage{amsmath}`,
		"\\begin{document}\n\n\\section{Title}\n\nHello\n",
		"\\end{document}\n",
	} {
		if !strings.Contains(got, required) {
			t.Fatalf("missing %q in:\n%s", required, got)
		}
	}
	if strings.Contains(got, `\bibliography{`) {
		t.Fatalf("bibliography pair should be absent without entries:\n%s", got)
	}
}

func TestRenderTexBibliographyPair(t *testing.T) {
	entries := []bibliography.Entry{{Key: "k", Raw: "@misc{k}"}}

	got, _ := RenderTex([]Block{Heading(1, "T", "")}, entries)

	if !strings.Contains(got, "\\bibliographystyle{plain}\n\\bibliography{references}\n") {
		t.Fatalf("bibliography directive pair missing:\n%s", got)
	}
}

func TestRenderTexHeadingLevels(t *testing.T) {
	got, _ := RenderTex([]Block{
		Heading(1, "A", ""),
		Heading(2, "B", ""),
		Heading(3, "C", ""),
		Heading(9, "D", ""),
	}, nil)

	for _, required := range []string{
		`\section{A}`,
		`\subsection{B}`,
		`\subsubsection{C}`,
		`\subsubsection{D}`,
	} {
		if !strings.Contains(got, required) {
			t.Fatalf("missing %q in:\n%s", required, got)
		}
	}
}
