package interfaces

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// SourceFormat identifies the surface syntax a document is authored in.
// A file's format is fixed metadata on the stored file, never inferred
// per call.
type SourceFormat string

const (
	// FormatMarkdown selects the markdown dialect (ATX headings, fenced
	// math blocks, bracketed citation keys).
	FormatMarkdown SourceFormat = "markdown"
	// FormatTex selects the tex dialect (section commands, equation
	// environments, \cite markers).
	FormatTex SourceFormat = "tex"
)

// Valid reports whether the format is one of the two supported dialects.
func (f SourceFormat) Valid() bool {
	return f == FormatMarkdown || f == FormatTex
}

// DiagnosticCode classifies an import resolution failure.
type DiagnosticCode string

const (
	DiagnosticInvalidPath DiagnosticCode = "invalid_path"
	DiagnosticNotFound    DiagnosticCode = "not_found"
	DiagnosticNotFile     DiagnosticCode = "not_file"
	DiagnosticCycle       DiagnosticCode = "cycle"
	DiagnosticMaxDepth    DiagnosticCode = "max_depth"
)

// ImportDiagnostic records a single non-fatal resolution failure. The
// resolver accumulates diagnostics instead of raising so callers always
// receive complete, renderable text plus an explicit failure list.
type ImportDiagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Path    string         `json:"path"`
	Message string         `json:"message"`
}

// ResolveResult carries best-effort resolved text plus every diagnostic
// collected during the traversal, in first-encountered order.
type ResolveResult struct {
	Text        string             `json:"text"`
	Diagnostics []ImportDiagnostic `json:"diagnostics"`
}

// ImportResolver expands transclusion directives into the referenced
// files' recursively resolved content.
type ImportResolver interface {
	Resolve(ctx context.Context, text string, format SourceFormat, scope uuid.UUID) (*ResolveResult, error)
}

// EntryKind distinguishes leaf files from containers inside a file scope.
type EntryKind string

const (
	EntryKindFile   EntryKind = "file"
	EntryKindFolder EntryKind = "folder"
)

// ScopeFile is the lookup result returned by a file scope. Format may be
// empty when the stored file carries no declared format; the resolver
// falls back to the referencing document's format in that case.
type ScopeFile struct {
	Path    string
	Kind    EntryKind
	Format  SourceFormat
	Content string
}

// ErrScopeEntryNotFound is returned (possibly wrapped) by FileScope
// implementations when the normalized path has no entry in the scope.
var ErrScopeEntryNotFound = errors.New("file scope: entry not found")

// FileScope is the narrow read contract the import resolver consumes.
// Paths are normalized, workspace-absolute, forward-slash separated.
type FileScope interface {
	Lookup(ctx context.Context, scope uuid.UUID, path string) (*ScopeFile, error)
}
