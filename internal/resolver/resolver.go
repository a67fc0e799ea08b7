package resolver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-manuscript/internal/logging"
	"github.com/goliatone/go-manuscript/pkg/interfaces"
)

// DefaultMaxDepth bounds recursive expansion when no override is given.
const DefaultMaxDepth = 5

// directivePattern describes one transclusion surface syntax as an
// opening marker and its closing delimiter. Scanning is left-to-right,
// non-overlapping, leftmost-first.
type directivePattern struct {
	open  string
	close string
}

var (
	importDirective = directivePattern{open: "{{import:", close: "}}"}
	inputDirective  = directivePattern{open: `\input{`, close: "}"}
)

// patternsFor returns the ordered directive patterns for a format: the
// format-native directive first, the cross-format directive second, so
// tex documents preferentially resolve \input before the generic
// import marker and vice versa.
func patternsFor(format interfaces.SourceFormat) []directivePattern {
	if format == interfaces.FormatTex {
		return []directivePattern{inputDirective, importDirective}
	}
	return []directivePattern{importDirective, inputDirective}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth overrides the maximum resolution depth. Values below one
// fall back to the default.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		if depth >= 1 {
			r.maxDepth = depth
		}
	}
}

// WithLogger injects the logger used for resolution tracing.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver rewrites transclusion directives into the referenced files'
// recursively resolved content. Every failure mode degrades to "leave
// the directive text untouched and append a diagnostic": resolution
// never aborts a whole document because one directive failed.
type Resolver struct {
	scope    interfaces.FileScope
	maxDepth int
	logger   interfaces.Logger
}

// New constructs a resolver over the given file scope.
func New(scope interfaces.FileScope, opts ...Option) *Resolver {
	r := &Resolver{
		scope:    scope,
		maxDepth: DefaultMaxDepth,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ interfaces.ImportResolver = (*Resolver)(nil)

// resolution is the ephemeral per-call state: recursion depth, the
// ancestor chain used for cycle detection, and the shared diagnostics
// collector. It is passed down the call chain, never stored on the
// resolver, so concurrent top-level calls stay independent.
type resolution struct {
	depth       int
	stack       []string
	diagnostics *[]interfaces.ImportDiagnostic
}

func (rc *resolution) report(code interfaces.DiagnosticCode, path, message string) {
	*rc.diagnostics = append(*rc.diagnostics, interfaces.ImportDiagnostic{
		Code:    code,
		Path:    path,
		Message: message,
	})
}

// Resolve expands every transclusion directive in text. Diagnostics are
// returned in first-encountered order for a left-to-right,
// outer-to-inner traversal. The error return is reserved for
// infrastructure failures from the file scope; resolution failures are
// always diagnostics.
func (r *Resolver) Resolve(ctx context.Context, text string, format interfaces.SourceFormat, scope uuid.UUID) (*interfaces.ResolveResult, error) {
	diagnostics := []interfaces.ImportDiagnostic{}
	rc := &resolution{diagnostics: &diagnostics}

	resolved, err := r.resolve(ctx, text, format, scope, rc)
	if err != nil {
		return nil, err
	}

	if len(diagnostics) > 0 {
		r.logger.Debug("resolver.resolve.diagnostics", "count", len(diagnostics))
	}
	return &interfaces.ResolveResult{Text: resolved, Diagnostics: diagnostics}, nil
}

// resolve runs each pattern pass over the output of the previous one,
// so a document can mix native and cross-format directives.
func (r *Resolver) resolve(ctx context.Context, text string, format interfaces.SourceFormat, scope uuid.UUID, rc *resolution) (string, error) {
	for _, pattern := range patternsFor(format) {
		expanded, err := r.resolvePattern(ctx, text, format, scope, pattern, rc)
		if err != nil {
			return "", err
		}
		text = expanded
	}
	return text, nil
}

func (r *Resolver) resolvePattern(ctx context.Context, text string, format interfaces.SourceFormat, scope uuid.UUID, pattern directivePattern, rc *resolution) (string, error) {
	var out strings.Builder
	out.Grow(len(text))

	rest := text
	for {
		start := strings.Index(rest, pattern.open)
		if start < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}

		tail := rest[start+len(pattern.open):]
		end := strings.Index(tail, pattern.close)
		if end < 0 {
			// Unterminated directive: copy through the opener and keep
			// scanning after it.
			out.WriteString(rest[:start+len(pattern.open)])
			rest = tail
			continue
		}

		literal := rest[start : start+len(pattern.open)+end+len(pattern.close)]
		rawPath := tail[:end]

		out.WriteString(rest[:start])
		replacement, err := r.expand(ctx, literal, rawPath, format, scope, rc)
		if err != nil {
			return "", err
		}
		out.WriteString(replacement)
		rest = tail[end+len(pattern.close):]
	}
}

// expand resolves a single directive occurrence. On any resolution
// failure the directive's original literal text is returned unchanged
// so the broken reference stays visible in place.
func (r *Resolver) expand(ctx context.Context, literal, rawPath string, format interfaces.SourceFormat, scope uuid.UUID, rc *resolution) (string, error) {
	path, err := NormalizePath(rawPath)
	if err != nil {
		rc.report(interfaces.DiagnosticInvalidPath, strings.TrimSpace(rawPath), "path is empty, malformed, or escapes the workspace root")
		return literal, nil
	}

	if rc.depth >= r.maxDepth {
		rc.report(interfaces.DiagnosticMaxDepth, path, fmt.Sprintf("maximum import depth %d exceeded", r.maxDepth))
		return literal, nil
	}

	if slices.Contains(rc.stack, path) {
		rc.report(interfaces.DiagnosticCycle, path, "import cycle detected")
		return literal, nil
	}

	file, err := r.scope.Lookup(ctx, scope, path)
	if err != nil {
		if errors.Is(err, interfaces.ErrScopeEntryNotFound) {
			rc.report(interfaces.DiagnosticNotFound, path, "no file exists at this path")
			return literal, nil
		}
		return "", fmt.Errorf("resolver: lookup %s: %w", path, err)
	}
	if file.Kind != interfaces.EntryKindFile {
		rc.report(interfaces.DiagnosticNotFile, path, "target is a folder, not a file")
		return literal, nil
	}

	childFormat := file.Format
	if childFormat == "" {
		childFormat = format
	}
	if childFormat != format {
		// Cross-format imports inline raw content without conversion;
		// the composite document may not be syntactically valid.
		r.logger.Warn("resolver.resolve.cross_format",
			"path", path,
			"parent_format", string(format),
			"target_format", string(childFormat),
		)
	}

	child := &resolution{
		depth:       rc.depth + 1,
		stack:       append(slices.Clone(rc.stack), path),
		diagnostics: rc.diagnostics,
	}
	return r.resolve(ctx, file.Content, childFormat, scope, child)
}
