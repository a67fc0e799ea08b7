package document

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-manuscript/bibliography"
)

// BibliographyFileName is the sibling bibliography file markdown exports
// reference from their front matter and tex exports from their
// \bibliography directive.
const BibliographyFileName = "references.bib"

const referencesHeading = "## References"

var texPreamble = []string{
	`\documentclass{article}`,
	`\usepackage[utf8]{inputenc}`,
	`\usepackage{graphicx}`,
	`\usepackage{amsmath}`,
}

// RenderMarkdown assembles a complete markdown-dialect document from a
// block sequence. When a bibliography is supplied the document gains a
// front-matter fence naming the sibling bibliography file and a trailing
// References section. The second return value lists conversion warnings.
func RenderMarkdown(blocks []Block, entries []bibliography.Entry) (string, []string) {
	var warnings []string
	parts := make([]string, 0, len(blocks)*2)

	for _, block := range blocks {
		if block.IsEmpty() {
			continue
		}
		content, warns := ConvertContent(block.Content, FormatMarkdown)
		warnings = append(warnings, warns...)
		content = strings.TrimSpace(content)

		if block.Kind == KindHeading {
			parts = append(parts, strings.Repeat("#", block.ClampedLevel())+" "+block.Heading)
		}
		if content != "" {
			parts = append(parts, content)
		}
	}
	body := strings.Join(parts, "\n\n")

	if len(entries) == 0 {
		if body == "" {
			return "", warnings
		}
		return body + "\n", warnings
	}

	var b strings.Builder
	b.WriteString(renderFrontMatter(BibliographyFileName))
	b.WriteString("\n")
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	b.WriteString(referencesHeading)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(bibliography.FormatReferences(entries), "\n\n"))
	b.WriteString("\n")
	return b.String(), warnings
}

// RenderTex assembles a complete tex-dialect document: fixed preamble,
// blocks joined by blank lines inside the document environment, and a
// bibliography directive pair when the entry set is non-empty.
func RenderTex(blocks []Block, entries []bibliography.Entry) (string, []string) {
	var warnings []string
	parts := make([]string, 0, len(blocks)*2)

	for _, block := range blocks {
		if block.IsEmpty() {
			continue
		}
		content, warns := ConvertContent(block.Content, FormatTex)
		warnings = append(warnings, warns...)
		content = strings.TrimSpace(content)

		if block.Kind == KindHeading {
			parts = append(parts, texHeadingCommand(block))
		}
		if content != "" {
			parts = append(parts, content)
		}
	}

	var b strings.Builder
	for _, line := range texPreamble {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\\begin{document}\n")
	if len(parts) > 0 {
		b.WriteByte('\n')
		b.WriteString(strings.Join(parts, "\n\n"))
		b.WriteByte('\n')
	}
	if len(entries) > 0 {
		b.WriteString("\n\\bibliographystyle{plain}\n\\bibliography{references}\n")
	}
	b.WriteString("\\end{document}\n")
	return b.String(), warnings
}

func texHeadingCommand(block Block) string {
	switch block.ClampedLevel() {
	case 1:
		return fmt.Sprintf(`\section{%s}`, block.Heading)
	case 2:
		return fmt.Sprintf(`\subsection{%s}`, block.Heading)
	default:
		return fmt.Sprintf(`\subsubsection{%s}`, block.Heading)
	}
}
