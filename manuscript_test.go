package manuscript

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-manuscript/filestore"
	"github.com/goliatone/go-manuscript/pkg/interfaces"
	"github.com/goliatone/go-manuscript/pkg/testsupport"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Logging.Provider = "noop"
	return cfg
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Resolver.MaxDepth = 0

	if _, err := New(cfg); !errors.Is(err, ErrResolverDepthInvalid) {
		t.Fatalf("err = %v, want ErrResolverDepthInvalid", err)
	}
}

func TestNewSqliteRequiresDB(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Provider = "sqlite"

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error without a database handle")
	}
}

func TestNewSqliteWithCachedRepository(t *testing.T) {
	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	sqlDB.SetMaxOpenConns(1)

	cfg := testConfig()
	cfg.Storage.Provider = "sqlite"
	cfg.Storage.CacheTTL = time.Minute

	module, err := New(cfg, WithDB(sqlDB))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	repo, ok := module.Files().(*filestore.BunRepository)
	if !ok {
		t.Fatalf("files = %T, want *filestore.BunRepository", module.Files())
	}
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	scopeID := uuid.New()
	if _, err := module.Files().Create(ctx, &filestore.File{
		ScopeID: scopeID,
		Path:    "/cached.md",
		Kind:    interfaces.EntryKindFile,
		Format:  FormatMarkdown,
		Content: "cached",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		entry, err := module.Scope().Lookup(ctx, scopeID, "/cached.md")
		if err != nil {
			t.Fatalf("Lookup %d: %v", i, err)
		}
		if entry.Content != "cached" {
			t.Fatalf("content = %q", entry.Content)
		}
	}
}

func TestModuleResolveAndExport(t *testing.T) {
	module, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	scopeID := uuid.New()

	files := map[string]string{
		"/intro.md": "## Introduction\n\nWelcome.",
		"/main.md":  "# Paper\n\n{{import:/intro.md}}\n\nSee [@smith2020].",
	}
	for path, content := range files {
		if _, err := module.Files().Create(ctx, &filestore.File{
			ScopeID: scopeID,
			Path:    path,
			Kind:    interfaces.EntryKindFile,
			Format:  FormatMarkdown,
			Content: content,
		}); err != nil {
			t.Fatalf("Create %s: %v", path, err)
		}
	}

	source, err := module.Scope().Lookup(ctx, scopeID, "/main.md")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	resolved, err := module.Resolver().Resolve(ctx, source.Content, FormatMarkdown, scopeID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %v", resolved.Diagnostics)
	}
	if !strings.Contains(resolved.Text, "## Introduction") {
		t.Fatalf("import not expanded:\n%s", resolved.Text)
	}

	result, err := module.Exporter().Export(ctx, ExportRequest{
		Source:       resolved.Text,
		SourceFormat: FormatMarkdown,
		TargetFormat: FormatTex,
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	for _, required := range []string{
		`\section{Paper}`,
		`\subsection{Introduction}`,
		`\cite{smith2020}`,
	} {
		if !strings.Contains(result.Content, required) {
			t.Fatalf("missing %q in:\n%s", required, result.Content)
		}
	}
}

func TestModulePreviewFeatureToggle(t *testing.T) {
	enabled, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if enabled.Preview() == nil {
		t.Fatal("expected preview renderer when feature is on")
	}

	cfg := testConfig()
	cfg.Features.HTMLPreview = false
	disabled, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if disabled.Preview() != nil {
		t.Fatal("expected nil preview renderer when feature is off")
	}
}

func TestModuleRepositoryOverride(t *testing.T) {
	repo := filestore.NewMemoryRepository()
	module, err := New(testConfig(), WithRepository(repo))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if module.Files() != repo {
		t.Fatal("expected injected repository")
	}
}

func TestModuleLoggerNeverNil(t *testing.T) {
	module, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if module.Logger("test") == nil {
		t.Fatal("expected a logger")
	}
}
