package document

import "strings"

// ParseMarkdown segments markdown-dialect text into the canonical block
// sequence. A leading YAML front-matter fence is stripped first. The
// function is total: malformed syntax degrades to paragraph content,
// never to an error.
func ParseMarkdown(text string) []Block {
	_, body := SplitFrontMatter(text)
	return scanBlocks(body, markdownHeadingLine)
}

// ParseTex segments tex-dialect text into the canonical block sequence.
// When a document environment is present only its body is scanned, and
// bibliography directive lines are dropped so rendered documents parse
// back to their original blocks.
func ParseTex(text string) []Block {
	return scanBlocks(texBody(text), texHeadingLine)
}

// headingMatcher inspects one line and reports whether it opens a
// heading block. trailing carries same-line text after the heading
// marker, which seeds the new block's content.
type headingMatcher func(line string) (level int, heading string, trailing string, ok bool)

func scanBlocks(text string, match headingMatcher) []Block {
	blocks := []Block{}
	openIdx := -1
	var buf []string

	flush := func() {
		content := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		if openIdx >= 0 {
			blocks[openIdx].Content = content
			return
		}
		if content != "" {
			blocks = append(blocks, Paragraph(content))
		}
	}

	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		level, heading, trailing, ok := match(line)
		if !ok {
			buf = append(buf, line)
			continue
		}
		flush()
		blocks = append(blocks, Heading(level, heading, ""))
		openIdx = len(blocks) - 1
		if trailing != "" {
			buf = append(buf, trailing)
		}
	}
	flush()
	return blocks
}

// markdownHeadingLine matches ATX headings of level 1-3: one to three
// '#' characters followed by a space.
func markdownHeadingLine(line string) (int, string, string, bool) {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i < 1 || i > 3 || i >= len(line) || line[i] != ' ' {
		return 0, "", "", false
	}
	return i, strings.TrimSpace(line[i+1:]), "", true
}

var texHeadingCommands = []struct {
	prefix string
	level  int
}{
	{`\subsubsection{`, 3},
	{`\subsection{`, 2},
	{`\section{`, 1},
}

// texHeadingLine matches \section, \subsection, and \subsubsection
// commands at the start of a line. Text after the closing brace on the
// same line is returned as trailing content.
func texHeadingLine(line string) (int, string, string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, cmd := range texHeadingCommands {
		if !strings.HasPrefix(trimmed, cmd.prefix) {
			continue
		}
		arg, rest, ok := bracedArgument(trimmed[len(cmd.prefix)-1:])
		if !ok {
			return 0, "", "", false
		}
		return cmd.level, strings.TrimSpace(arg), strings.TrimSpace(rest), true
	}
	return 0, "", "", false
}

// bracedArgument consumes a brace-balanced argument from s, which must
// start with '{'. It returns the argument body and the remainder.
func bracedArgument(s string) (string, string, bool) {
	if s == "" || s[0] != '{' {
		return "", "", false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// texBody extracts the body of a document environment when present and
// drops bibliography directives and \maketitle so exported documents
// round-trip through ParseTex.
func texBody(text string) string {
	if i := strings.Index(text, `\begin{document}`); i >= 0 {
		rest := text[i+len(`\begin{document}`):]
		if j := strings.Index(rest, `\end{document}`); j >= 0 {
			rest = rest[:j]
		}
		text = rest
	}

	lines := strings.Split(normalizeNewlines(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, `\bibliographystyle{`) ||
			strings.HasPrefix(trimmed, `\bibliography{`) ||
			trimmed == `\maketitle` {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
