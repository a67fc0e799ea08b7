package exportcmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-manuscript/bibliography"
	"github.com/goliatone/go-manuscript/internal/commands"
	"github.com/goliatone/go-manuscript/internal/export"
	"github.com/goliatone/go-manuscript/internal/logging"
	"github.com/goliatone/go-manuscript/pkg/interfaces"
)

const (
	exportOperation  = "export.document"
	resolveOperation = "resolver.resolve"
)

// ErrCommandsFeatureDisabled is returned when the commands feature flag
// is disabled at runtime.
var ErrCommandsFeatureDisabled = errors.New("manuscript command: feature disabled")

// FeatureGates defers feature-flag checks to execution time so runtime
// reconfiguration takes effect without handler rebuilds.
type FeatureGates struct {
	CommandsEnabled func() bool
}

func (g FeatureGates) commandsEnabled() bool {
	if g.CommandsEnabled == nil {
		return true
	}
	return g.CommandsEnabled()
}

var (
	_ command.Commander[ExportDocumentCommand] = (*ExportDocumentHandler)(nil)
	_ command.Commander[ResolveImportsCommand] = (*ResolveImportsHandler)(nil)
)

// ExportDocumentHandler bridges the export pipeline onto the shared
// command handler foundation.
type ExportDocumentHandler struct {
	inner *commands.Handler[ExportDocumentCommand]
}

// NewExportDocumentHandler creates a handler bound to the supplied export service.
func NewExportDocumentHandler(service *export.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ExportDocumentCommand]) *ExportDocumentHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ExportDocumentCommand) error {
		if !gates.commandsEnabled() {
			return ErrCommandsFeatureDisabled
		}

		req := export.Request{
			Source:       msg.Source,
			SourceFormat: interfaces.SourceFormat(strings.ToLower(strings.TrimSpace(msg.SourceFormat))),
			TargetFormat: interfaces.SourceFormat(strings.ToLower(strings.TrimSpace(msg.TargetFormat))),
		}

		if msg.Bibliography != "" {
			entries, err := bibliography.ParseEntries(msg.Bibliography)
			if err != nil {
				return fmt.Errorf("export command: bibliography: %w", err)
			}
			req.Bibliography = entries
		}
		if msg.ProjectBibliography != "" {
			entries, err := bibliography.ParseEntries(msg.ProjectBibliography)
			if err != nil {
				return fmt.Errorf("export command: project bibliography: %w", err)
			}
			req.ProjectBibliography = entries
		}

		result, err := service.Export(ctx, req)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"content_bytes":     len(result.Content),
			"warning_count":     len(result.Warnings),
			"companion_emitted": result.BibliographyFile != "",
		}).Info("manuscript.command.export_document.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportDocumentCommand]{
		commands.WithLogger[ExportDocumentCommand](baseLogger),
		commands.WithOperation[ExportDocumentCommand](exportOperation),
		commands.WithMessageFields(func(msg ExportDocumentCommand) map[string]any {
			return map[string]any{
				"source_format": msg.SourceFormat,
				"target_format": msg.TargetFormat,
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportDocumentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *ExportDocumentHandler) Execute(ctx context.Context, msg ExportDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ResolveImportsHandler bridges the import resolver onto the shared
// command handler foundation.
type ResolveImportsHandler struct {
	inner *commands.Handler[ResolveImportsCommand]
}

// NewResolveImportsHandler creates a handler bound to the supplied resolver.
func NewResolveImportsHandler(resolver interfaces.ImportResolver, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ResolveImportsCommand]) *ResolveImportsHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ResolveImportsCommand) error {
		if !gates.commandsEnabled() {
			return ErrCommandsFeatureDisabled
		}

		format := interfaces.SourceFormat(strings.ToLower(strings.TrimSpace(msg.Format)))
		result, err := resolver.Resolve(ctx, msg.Text, format, msg.Scope)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"resolved_bytes":   len(result.Text),
			"diagnostic_count": len(result.Diagnostics),
		}).Info("manuscript.command.resolve_imports.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ResolveImportsCommand]{
		commands.WithLogger[ResolveImportsCommand](baseLogger),
		commands.WithOperation[ResolveImportsCommand](resolveOperation),
		commands.WithMessageFields(func(msg ResolveImportsCommand) map[string]any {
			return map[string]any{
				"scope":  msg.Scope,
				"format": msg.Format,
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ResolveImportsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *ResolveImportsHandler) Execute(ctx context.Context, msg ResolveImportsCommand) error {
	return h.inner.Execute(ctx, msg)
}
