package exportcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	exportDocumentMessageType = "manuscript.export.document"
	resolveImportsMessageType = "manuscript.resolver.resolve"
)

// ExportDocumentCommand re-renders source text into the target format.
// Bibliography payloads travel as raw BibTeX so the message stays
// serializable across command transports.
type ExportDocumentCommand struct {
	// Source is the document text to export.
	Source string `json:"source"`
	// SourceFormat declares the dialect Source is authored in: markdown or tex.
	SourceFormat string `json:"source_format"`
	// TargetFormat selects the output dialect: markdown or tex.
	TargetFormat string `json:"target_format"`
	// Bibliography optionally carries the cited entries as a BibTeX payload.
	Bibliography string `json:"bibliography,omitempty"`
	// ProjectBibliography optionally carries the full project BibTeX payload
	// used to emit the companion bibliography file.
	ProjectBibliography string `json:"project_bibliography,omitempty"`
}

// Type implements command.Message.
func (ExportDocumentCommand) Type() string { return exportDocumentMessageType }

// Validate ensures both formats name a supported dialect before handlers execute.
func (cmd ExportDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.SourceFormat, validation.Required, validation.By(validFormatString)),
		validation.Field(&cmd.TargetFormat, validation.Required, validation.By(validFormatString)),
	)
}

// ResolveImportsCommand expands transclusion directives in Text against
// the files stored under Scope.
type ResolveImportsCommand struct {
	// Scope identifies the owning file scope the resolver looks files up in.
	Scope uuid.UUID `json:"scope"`
	// Text is the document text containing transclusion directives.
	Text string `json:"text"`
	// Format declares the dialect Text is authored in: markdown or tex.
	Format string `json:"format"`
}

// Type implements command.Message.
func (ResolveImportsCommand) Type() string { return resolveImportsMessageType }

// Validate ensures the scope and format are usable before handlers execute.
func (cmd ResolveImportsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Scope, validation.By(func(value any) error {
			if id, ok := value.(uuid.UUID); !ok || id == uuid.Nil {
				return validation.NewError("manuscript.resolver.scope_required", "scope is required")
			}
			return nil
		})),
		validation.Field(&cmd.Format, validation.Required, validation.By(validFormatString)),
	)
}

func validFormatString(value any) error {
	name, _ := value.(string)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "tex":
		return nil
	}
	return validation.NewError("manuscript.format_invalid", "format must be markdown or tex")
}
