package bibliography

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// bibFile is the participle grammar root for a BibTeX payload. The
// grammar covers the scholarly subset the engine emits and consumes:
// @type{key, name = value, ...} entries with braced, quoted, or bare
// values. @string/@preamble directives are out of scope.
type bibFile struct {
	Entries []*bibEntry `@@*`
}

type bibEntry struct {
	Pos    lexer.Position
	Type   string      `"@" @Word`
	Key    string      `"{" @Word ","`
	Fields []*bibField `( @@ ( "," @@ )* ","? )? "}"`
	EndPos lexer.Position
}

type bibField struct {
	Name  string    `@Word "="`
	Value *bibValue `@@`
}

// bibValue captures its source span so the verbatim text can be sliced
// back out of the input; token granularity is irrelevant to callers.
type bibValue struct {
	Pos    lexer.Position
	Parts  []*bibValuePart `@@+`
	EndPos lexer.Position
}

type bibValuePart struct {
	Group  *bibGroup `  @@`
	Quoted string    `| @Quoted`
	Word   string    `| @Word`
}

type bibGroup struct {
	Parts []*bibGroupPart `"{" @@* "}"`
}

type bibGroupPart struct {
	Group *bibGroup `  @@`
	Token string    `| @( Word | Quoted | "," | "=" )`
}

var bibLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "At", Pattern: `@`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Quoted", Pattern: `"[^"]*"`},
	{Name: "Word", Pattern: `[^\s{}=,"@]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var bibParser = participle.MustBuild[bibFile](
	participle.Lexer(bibLexer),
	participle.Elide("Whitespace"),
)

// ParseEntries reads a BibTeX payload into bibliography entries. Field
// names are lowercased; values are de-braced and whitespace-collapsed;
// Raw preserves each entry's verbatim source slice for companion-file
// emission.
func ParseEntries(source string) ([]Entry, error) {
	parsed, err := bibParser.ParseString("", source)
	if err != nil {
		return nil, fmt.Errorf("bibliography: parse bibtex: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Entries))
	for _, raw := range parsed.Entries {
		entry := Entry{
			Key:    raw.Key,
			Type:   strings.ToLower(raw.Type),
			Fields: make(map[string]string, len(raw.Fields)),
			Raw:    strings.TrimSpace(sliceSpan(source, raw.Pos, raw.EndPos)),
		}
		for _, field := range raw.Fields {
			if field == nil || field.Value == nil {
				continue
			}
			value := sliceSpan(source, field.Value.Pos, field.Value.EndPos)
			entry.Fields[strings.ToLower(field.Name)] = cleanValue(value)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func sliceSpan(source string, start, end lexer.Position) string {
	if start.Offset < 0 || end.Offset > len(source) || start.Offset > end.Offset {
		return ""
	}
	return source[start.Offset:end.Offset]
}

// cleanValue strips one layer of value delimiters, drops interior
// protective braces, and collapses whitespace.
func cleanValue(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		if (value[0] == '{' && value[len(value)-1] == '}') ||
			(value[0] == '"' && value[len(value)-1] == '"') {
			value = value[1 : len(value)-1]
		}
	}
	value = strings.ReplaceAll(value, "{", "")
	value = strings.ReplaceAll(value, "}", "")
	return strings.Join(strings.Fields(value), " ")
}
