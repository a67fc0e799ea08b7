package bibliography

import "strings"

// Entry is one bibliography record: its citation key, rendering
// metadata, and the verbatim serialized form needed for bibliography
// file emission. Entries are immutable once produced from source.
type Entry struct {
	Key    string            `json:"key"`
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields,omitempty"`
	Raw    string            `json:"raw"`
}

// Field returns a metadata field by case-insensitive name.
func (e Entry) Field(name string) string {
	return e.Fields[strings.ToLower(name)]
}

// Title returns the entry title, if any.
func (e Entry) Title() string { return e.Field("title") }

// Authors returns the author field as authored in the source.
func (e Entry) Authors() string { return e.Field("author") }

// Year returns the publication year, if any.
func (e Entry) Year() string { return e.Field("year") }

// Venue returns the first of journal, booktitle, or publisher.
func (e Entry) Venue() string {
	for _, name := range []string{"journal", "booktitle", "publisher"} {
		if value := e.Field(name); value != "" {
			return value
		}
	}
	return ""
}
