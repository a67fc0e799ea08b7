package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// FrontMatter models the metadata the engine reads from and writes to a
// markdown document's YAML fence. Custom keeps unknown keys so round
// trips through the engine do not discard host metadata.
type FrontMatter struct {
	Title        string         `yaml:"title"`
	Bibliography string         `yaml:"bibliography"`
	Custom       map[string]any `yaml:",inline"`
}

// SplitFrontMatter separates a leading YAML front-matter fence from the
// markdown body. Input without a fence, or with a malformed fence, is
// returned whole as the body: parsing is total over any input text.
func SplitFrontMatter(source string) (FrontMatter, string) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader([]byte(source)), &meta)
	if err != nil {
		return FrontMatter{}, source
	}
	return meta, string(body)
}

// renderFrontMatter emits the fence naming the sibling bibliography file
// that markdown exports reference.
func renderFrontMatter(bibliographyFile string) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "bibliography: %s\n", bibliographyFile)
	b.WriteString("---\n")
	return b.String()
}
