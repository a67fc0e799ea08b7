package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	manuscript "github.com/goliatone/go-manuscript"
	"github.com/goliatone/go-manuscript/bibliography"
	"github.com/goliatone/go-manuscript/filestore"
	"github.com/goliatone/go-manuscript/pkg/interfaces"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("manuscript export: %v", err)
	}
}

func run(args []string) error {
	fsFlags := flag.NewFlagSet("manuscript-export", flag.ExitOnError)
	input := fsFlags.String("input", "", "Path to the source document")
	from := fsFlags.String("from", "", "Source format: markdown or tex (defaults from the file extension)")
	to := fsFlags.String("to", "tex", "Target format: markdown or tex")
	out := fsFlags.String("out", "", "Output path (defaults to stdout)")
	bib := fsFlags.String("bib", "", "Path to a BibTeX file with the document's cited entries")
	root := fsFlags.String("root", "", "Workspace root for resolving transclusion directives before export")
	dbPath := fsFlags.String("db", "", "SQLite database file backing the file scope (defaults to in-memory storage)")
	cacheTTL := fsFlags.Duration("cache-ttl", 0, "Read-cache TTL for SQLite lookups; 0 disables caching")
	maxDepth := fsFlags.Int("max-depth", 5, "Maximum transclusion resolution depth")
	verbose := fsFlags.Bool("verbose", false, "Enable debug logging")

	if err := fsFlags.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("-input is required")
	}

	source, err := os.ReadFile(*input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	sourceFormat, err := pickFormat(*from, *input)
	if err != nil {
		return err
	}
	targetFormat, err := pickFormat(*to, "")
	if err != nil {
		return err
	}

	cfg := manuscript.DefaultConfig()
	cfg.Resolver.MaxDepth = *maxDepth
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	var opts []manuscript.Option
	if *dbPath != "" {
		cfg.Storage.Provider = "sqlite"
		cfg.Storage.CacheTTL = *cacheTTL
		db, err := sql.Open("sqlite3", *dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		opts = append(opts, manuscript.WithDB(db))
	}

	module, err := manuscript.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	ctx := context.Background()
	if repo, ok := module.Files().(*filestore.BunRepository); ok {
		if err := repo.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate storage: %w", err)
		}
	}
	text := string(source)

	if *root != "" {
		scope := uuid.New()
		if err := loadWorkspace(ctx, module.Files(), scope, *root); err != nil {
			return fmt.Errorf("load workspace: %w", err)
		}
		resolved, err := module.Resolver().Resolve(ctx, text, sourceFormat, scope)
		if err != nil {
			return fmt.Errorf("resolve imports: %w", err)
		}
		for _, diag := range resolved.Diagnostics {
			fmt.Fprintf(os.Stderr, "warning: %s %s: %s\n", diag.Code, diag.Path, diag.Message)
		}
		text = resolved.Text
	}

	req := manuscript.ExportRequest{
		Source:       text,
		SourceFormat: sourceFormat,
		TargetFormat: targetFormat,
	}
	if *bib != "" {
		payload, err := os.ReadFile(*bib)
		if err != nil {
			return fmt.Errorf("read bibliography: %w", err)
		}
		entries, err := bibliography.ParseEntries(string(payload))
		if err != nil {
			return err
		}
		req.Bibliography = entries
		req.ProjectBibliography = entries
	}

	result, err := module.Exporter().Export(ctx, req)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	if *out == "" {
		fmt.Print(result.Content)
		return nil
	}
	if err := os.WriteFile(*out, []byte(result.Content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if result.BibliographyFile != "" {
		sibling := filepath.Join(filepath.Dir(*out), "references.bib")
		if err := os.WriteFile(sibling, []byte(result.BibliographyFile), 0o644); err != nil {
			return fmt.Errorf("write bibliography file: %w", err)
		}
	}
	return nil
}

// loadWorkspace mirrors a directory tree into the module's file scope so
// transclusion directives can resolve against workspace-absolute paths.
func loadWorkspace(ctx context.Context, repo filestore.Repository, scope uuid.UUID, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}

		file := &filestore.File{
			ScopeID: scope,
			Path:    "/" + filepath.ToSlash(rel),
			Kind:    interfaces.EntryKindFolder,
		}
		if !entry.IsDir() {
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			file.Kind = interfaces.EntryKindFile
			file.Format = formatForExtension(path)
			file.Content = string(content)
		}
		_, err = repo.Create(ctx, file)
		return err
	})
}

func formatForExtension(path string) interfaces.SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tex":
		return interfaces.FormatTex
	case ".md", ".markdown":
		return interfaces.FormatMarkdown
	default:
		return ""
	}
}

func pickFormat(name, path string) (interfaces.SourceFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "md":
		return interfaces.FormatMarkdown, nil
	case "tex", "latex":
		return interfaces.FormatTex, nil
	case "":
		if format := formatForExtension(path); format != "" {
			return format, nil
		}
		return "", fmt.Errorf("cannot infer format for %q; pass -from/-to explicitly", path)
	default:
		return "", fmt.Errorf("unsupported format %q", name)
	}
}
