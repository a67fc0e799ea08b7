package bibliography

import (
	"strings"
	"testing"
)

const sampleBib = `@article{smith2020,
  author  = {Smith, Jane and Doe, John},
  title   = {A {Great} Result},
  journal = {Journal of Results},
  year    = {2020},
}

@inproceedings{doe2021,
  author    = "Doe, John",
  title     = "Conference Findings",
  booktitle = {Proc.\ of Findings},
  year      = 2021
}`

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries(sampleBib)
	if err != nil {
		t.Fatalf("ParseEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Key != "smith2020" {
		t.Fatalf("key = %q", first.Key)
	}
	if first.Type != "article" {
		t.Fatalf("type = %q", first.Type)
	}
	if got := first.Field("author"); got != "Smith, Jane and Doe, John" {
		t.Fatalf("author = %q", got)
	}
	if got := first.Field("title"); got != "A Great Result" {
		t.Fatalf("title = %q", got)
	}
	if got := first.Field("year"); got != "2020" {
		t.Fatalf("year = %q", got)
	}

	second := entries[1]
	if second.Type != "inproceedings" {
		t.Fatalf("type = %q", second.Type)
	}
	if got := second.Field("author"); got != "Doe, John" {
		t.Fatalf("quoted author = %q", got)
	}
	if got := second.Field("year"); got != "2021" {
		t.Fatalf("bare year = %q", got)
	}
}

func TestParseEntriesRawPreservesSource(t *testing.T) {
	entries, err := ParseEntries(sampleBib)
	if err != nil {
		t.Fatalf("ParseEntries: %v", err)
	}

	if !strings.HasPrefix(entries[0].Raw, "@article{smith2020,") {
		t.Fatalf("raw start = %q", entries[0].Raw)
	}
	if !strings.Contains(entries[0].Raw, "author  = {Smith, Jane and Doe, John},") {
		t.Fatalf("raw lost field formatting:\n%s", entries[0].Raw)
	}
}

func TestParseEntriesNestedBraces(t *testing.T) {
	entries, err := ParseEntries(`@book{k1, title = {The {TeX}book {rev {2}}} }`)
	if err != nil {
		t.Fatalf("ParseEntries: %v", err)
	}
	if got := entries[0].Field("title"); got != "The TeXbook rev 2" {
		t.Fatalf("nested brace title = %q", got)
	}
}

func TestParseEntriesFieldNamesLowercased(t *testing.T) {
	entries, err := ParseEntries(`@Misc{k1, TITLE = {T}, Author = {A} }`)
	if err != nil {
		t.Fatalf("ParseEntries: %v", err)
	}
	entry := entries[0]
	if entry.Type != "misc" {
		t.Fatalf("type = %q", entry.Type)
	}
	if entry.Field("title") != "T" || entry.Field("author") != "A" {
		t.Fatalf("fields = %v", entry.Fields)
	}
	if entry.Field("TITLE") != "T" {
		t.Fatalf("lookup should be case insensitive, got %q", entry.Field("TITLE"))
	}
}

func TestParseEntriesEmptyInput(t *testing.T) {
	entries, err := ParseEntries("")
	if err != nil {
		t.Fatalf("ParseEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestParseEntriesMalformed(t *testing.T) {
	if _, err := ParseEntries(`@article{broken`); err == nil {
		t.Fatal("expected parse error")
	}
}
