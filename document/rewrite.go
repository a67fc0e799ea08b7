package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// defaultFigureWidth is used when a figure directive carries no width
// attribute or an invalid one.
const defaultFigureWidth = "0.8"

var (
	citationPattern = regexp.MustCompile(`\[@([A-Za-z0-9_:.+/-]+)\]`)
	texCitePattern  = regexp.MustCompile(`\\cite\{([A-Za-z0-9_:.+/-]+)\}`)

	// ![caption](src){attrs} on a line of its own.
	figurePattern = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)\s]+)\)(?:\{([^}]*)\})?$`)

	// $$ ... $$ on a single line.
	inlineMathPattern = regexp.MustCompile(`^\$\$(.+)\$\$$`)

	includegraphicsPattern = regexp.MustCompile(`\\includegraphics(?:\[width=([0-9.]+)\\linewidth\])?\{([^}]*)\}`)
	captionPattern         = regexp.MustCompile(`\\caption\{([^}]*)\}`)
	labelPattern           = regexp.MustCompile(`\\label\{([^}]*)\}`)
)

// ConvertContent rewrites block content into the target dialect's
// surface constructs: figure directives, display math, and citation
// markers. Rewriting is line-oriented and order-preserving; unmatched
// lines pass through untouched. Returned warnings describe values that
// were replaced with defaults.
func ConvertContent(content string, target Format) (string, []string) {
	switch target {
	case FormatTex:
		return contentToTex(content)
	case FormatMarkdown:
		return contentToMarkdown(content)
	default:
		return content, nil
	}
}

func contentToTex(content string) (string, []string) {
	var warnings []string
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	inMath := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "$$" {
			if inMath {
				out = append(out, `\end{equation}`)
			} else {
				out = append(out, `\begin{equation}`)
			}
			inMath = !inMath
			continue
		}
		if inMath {
			out = append(out, line)
			continue
		}
		if m := inlineMathPattern.FindStringSubmatch(trimmed); m != nil {
			out = append(out, `\begin{equation}`, strings.TrimSpace(m[1]), `\end{equation}`)
			continue
		}
		if m := figurePattern.FindStringSubmatch(trimmed); m != nil {
			figure, warns := figureToTex(m[1], m[2], m[3])
			out = append(out, figure...)
			warnings = append(warnings, warns...)
			continue
		}
		out = append(out, citationPattern.ReplaceAllString(line, `\cite{$1}`))
	}
	return strings.Join(out, "\n"), warnings
}

func figureToTex(caption, src, attrs string) ([]string, []string) {
	var warnings []string
	label := ""
	width := ""

	for _, attr := range strings.Fields(attrs) {
		switch {
		case strings.HasPrefix(attr, "#"):
			label = attr[1:]
		case strings.HasPrefix(attr, "width="):
			width = attr[len("width="):]
		}
	}

	if width != "" {
		value, err := strconv.ParseFloat(width, 64)
		if err != nil || value <= 0 || value > 1 {
			warnings = append(warnings, fmt.Sprintf("figure %q: width %q outside (0,1], using %s", src, width, defaultFigureWidth))
			width = defaultFigureWidth
		}
	} else {
		width = defaultFigureWidth
	}

	lines := []string{
		`\begin{figure}[h]`,
		`\centering`,
		fmt.Sprintf(`\includegraphics[width=%s\linewidth]{%s}`, width, src),
	}
	if caption != "" {
		lines = append(lines, fmt.Sprintf(`\caption{%s}`, caption))
	}
	if label != "" {
		lines = append(lines, fmt.Sprintf(`\label{%s}`, label))
	}
	lines = append(lines, `\end{figure}`)
	return lines, warnings
}

func contentToMarkdown(content string) (string, []string) {
	var warnings []string
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		if trimmed == `\begin{equation}` || trimmed == `\end{equation}` {
			out = append(out, "$$")
			continue
		}
		if trimmed == `\begin{figure}` || strings.HasPrefix(trimmed, `\begin{figure}[`) {
			if directive, consumed, ok := figureToMarkdown(lines[i:]); ok {
				out = append(out, directive)
				i += consumed - 1
				continue
			}
		}
		out = append(out, texCitePattern.ReplaceAllString(lines[i], `[@$1]`))
	}
	return strings.Join(out, "\n"), warnings
}

// figureToMarkdown collapses a figure environment back into the image
// directive form. Environments without \includegraphics, or without a
// closing \end{figure}, are left for the caller to pass through.
func figureToMarkdown(lines []string) (string, int, bool) {
	end := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == `\end{figure}` {
			end = i
			break
		}
	}
	if end < 0 {
		return "", 0, false
	}

	body := strings.Join(lines[:end+1], "\n")
	graphics := includegraphicsPattern.FindStringSubmatch(body)
	if graphics == nil {
		return "", 0, false
	}
	width, src := graphics[1], graphics[2]

	caption := ""
	if m := captionPattern.FindStringSubmatch(body); m != nil {
		caption = m[1]
	}
	label := ""
	if m := labelPattern.FindStringSubmatch(body); m != nil {
		label = m[1]
	}

	var attrs []string
	if label != "" {
		attrs = append(attrs, "#"+label)
	}
	if width != "" {
		attrs = append(attrs, "width="+width)
	}

	directive := fmt.Sprintf("![%s](%s)", caption, src)
	if len(attrs) > 0 {
		directive += "{" + strings.Join(attrs, " ") + "}"
	}
	return directive, end + 1, true
}
