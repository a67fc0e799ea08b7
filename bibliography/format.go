package bibliography

import (
	"fmt"
	"strings"
)

// FormatReferences renders entries into a numbered reference list,
// one string per entry, in input order. Callers control ordering;
// no re-sorting happens here.
func FormatReferences(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for i, entry := range entries {
		out = append(out, fmt.Sprintf("[%d] %s", i+1, formatEntry(entry)))
	}
	return out
}

// formatEntry concatenates authors, title, and venue/year into a fixed
// citation style, eliding whatever metadata the entry lacks.
func formatEntry(entry Entry) string {
	var sentences []string

	if authors := entry.Authors(); authors != "" {
		sentences = append(sentences, authors)
	}
	if title := entry.Title(); title != "" {
		sentences = append(sentences, title)
	}

	tail := []string{}
	if venue := entry.Venue(); venue != "" {
		tail = append(tail, venue)
	}
	if year := entry.Year(); year != "" {
		tail = append(tail, year)
	}
	if len(tail) > 0 {
		sentences = append(sentences, strings.Join(tail, ", "))
	}

	if len(sentences) == 0 {
		return entry.Key
	}
	return strings.Join(sentences, ". ") + "."
}

// RawFile concatenates the entries' verbatim serialized forms into a
// bibliography-file payload, blank-line separated, for consumers that
// persist a sibling file.
func RawFile(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		raw := strings.TrimSpace(entry.Raw)
		if raw == "" {
			continue
		}
		parts = append(parts, raw)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}
