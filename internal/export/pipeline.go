package export

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-manuscript/bibliography"
	"github.com/goliatone/go-manuscript/document"
	"github.com/goliatone/go-manuscript/internal/logging"
	"github.com/goliatone/go-manuscript/pkg/interfaces"
)

// Request describes one cross-format export: source text plus its
// declared format, the target format, the entries cited by the document,
// and optionally the full project bibliography for companion-file
// emission.
type Request struct {
	Source              string                  `json:"source"`
	SourceFormat        interfaces.SourceFormat `json:"source_format"`
	TargetFormat        interfaces.SourceFormat `json:"target_format"`
	Bibliography        []bibliography.Entry    `json:"bibliography,omitempty"`
	ProjectBibliography []bibliography.Entry    `json:"project_bibliography,omitempty"`
}

// Validate checks the request before the pipeline runs.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SourceFormat, validation.Required, validation.By(validFormat)),
		validation.Field(&r.TargetFormat, validation.Required, validation.By(validFormat)),
	)
}

func validFormat(value any) error {
	format, ok := value.(interfaces.SourceFormat)
	if !ok || !format.Valid() {
		return validation.NewError("manuscript.export.format_invalid", "format must be markdown or tex")
	}
	return nil
}

// Result carries the rendered document, conversion warnings, and, when
// a project bibliography was supplied, the companion bibliography-file
// payload for consumers that persist a sibling file.
type Result struct {
	Content          string   `json:"content"`
	Warnings         []string `json:"warnings"`
	BibliographyFile string   `json:"bibliography_file,omitempty"`
}

// Option configures the export service.
type Option func(*Service)

// WithLogger injects the pipeline logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service orchestrates block parsing, rendering, and bibliography
// formatting to satisfy cross-format export requests. The service is
// stateless; a single instance can serve concurrent callers.
type Service struct {
	logger interfaces.Logger
}

// New constructs the export pipeline.
func New(opts ...Option) *Service {
	s := &Service{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export re-renders the source text as a complete document in the
// target format. Parsing and rendering are total; the only error modes
// are an invalid request or a cancelled context.
func (s *Service) Export(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var blocks []document.Block
	switch req.SourceFormat {
	case interfaces.FormatTex:
		blocks = document.ParseTex(req.Source)
	default:
		blocks = document.ParseMarkdown(req.Source)
	}

	var content string
	var warnings []string
	switch req.TargetFormat {
	case interfaces.FormatTex:
		content, warnings = document.RenderTex(blocks, req.Bibliography)
	default:
		content, warnings = document.RenderMarkdown(blocks, req.Bibliography)
	}

	result := &Result{
		Content:  content,
		Warnings: warnings,
	}
	if len(req.ProjectBibliography) > 0 {
		result.BibliographyFile = bibliography.RawFile(req.ProjectBibliography)
	}

	s.logger.Debug("export.pipeline.completed",
		"source_format", string(req.SourceFormat),
		"target_format", string(req.TargetFormat),
		"blocks", len(blocks),
		"warnings", len(warnings),
	)
	return result, nil
}
