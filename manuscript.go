package manuscript

import (
	"database/sql"
	"fmt"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-manuscript/bibliography"
	"github.com/goliatone/go-manuscript/document"
	"github.com/goliatone/go-manuscript/filestore"
	"github.com/goliatone/go-manuscript/internal/export"
	"github.com/goliatone/go-manuscript/internal/logging"
	"github.com/goliatone/go-manuscript/internal/logging/gologger"
	"github.com/goliatone/go-manuscript/internal/resolver"
	"github.com/goliatone/go-manuscript/internal/runtimeconfig"
	"github.com/goliatone/go-manuscript/pkg/interfaces"
)

// Block exports the canonical block type for consumers of the manuscript package.
type Block = document.Block

// BibliographyEntry exports the bibliography entry type.
type BibliographyEntry = bibliography.Entry

// ImportDiagnostic exports the resolver diagnostic record.
type ImportDiagnostic = interfaces.ImportDiagnostic

// ResolveResult exports the resolver result payload.
type ResolveResult = interfaces.ResolveResult

// ExportRequest exports the export pipeline request.
type ExportRequest = export.Request

// ExportResult exports the export pipeline result.
type ExportResult = export.Result

// SourceFormat exports the surface-syntax selector.
type SourceFormat = interfaces.SourceFormat

const (
	FormatMarkdown = interfaces.FormatMarkdown
	FormatTex      = interfaces.FormatTex
)

// Option overrides pieces of the module wiring.
type Option func(*Module)

// WithLoggerProvider replaces the configured logging provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.logs = provider
		}
	}
}

// WithRepository replaces the configured file-scope repository.
func WithRepository(repo filestore.Repository) Option {
	return func(m *Module) {
		if repo != nil {
			m.files = repo
		}
	}
}

// WithDB supplies the database handle the sqlite storage provider
// wraps. Required when Storage.Provider is "sqlite" and no repository
// override is given.
func WithDB(db *sql.DB) Option {
	return func(m *Module) {
		m.sqldb = db
	}
}

// Module is the top level engine runtime façade.
type Module struct {
	config Config

	logs  interfaces.LoggerProvider
	sqldb *sql.DB

	files    filestore.Repository
	scope    *filestore.Scope
	resolver *resolver.Resolver
	exporter *export.Service
	preview  *document.HTMLRenderer
}

// New constructs an engine module using the provided configuration and
// optional wiring overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{config: cfg}
	for _, opt := range opts {
		opt(m)
	}

	if m.logs == nil {
		provider, err := buildLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		m.logs = provider
	}

	if m.files == nil {
		files, err := buildRepository(cfg.Storage, m.sqldb)
		if err != nil {
			return nil, err
		}
		m.files = files
	}
	m.scope = filestore.NewScope(m.files)

	m.resolver = resolver.New(m.scope,
		resolver.WithMaxDepth(cfg.Resolver.MaxDepth),
		resolver.WithLogger(logging.ResolverLogger(m.logs)),
	)
	m.exporter = export.New(
		export.WithLogger(logging.ExportLogger(m.logs)),
	)
	if cfg.Features.HTMLPreview {
		m.preview = document.NewHTMLRenderer(document.HTMLOptions{})
	}

	return m, nil
}

// Files returns the configured file-scope repository.
func (m *Module) Files() filestore.Repository {
	return m.files
}

// Scope returns the file-scope lookup the resolver consumes.
func (m *Module) Scope() interfaces.FileScope {
	return m.scope
}

// Resolver returns the configured import resolver.
func (m *Module) Resolver() interfaces.ImportResolver {
	return m.resolver
}

// Exporter returns the configured export pipeline.
func (m *Module) Exporter() *export.Service {
	return m.exporter
}

// Preview returns the HTML preview renderer, or nil when the feature is
// disabled.
func (m *Module) Preview() *document.HTMLRenderer {
	return m.preview
}

// Logger returns a module-scoped logger from the configured provider.
func (m *Module) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(m.logs, name)
}

func buildLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "noop":
		return noopProvider{}, nil
	case "", "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		return nil, ErrLoggingProviderUnknown
	}
}

func buildRepository(cfg runtimeconfig.StorageConfig, sqldb *sql.DB) (filestore.Repository, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "memory":
		return filestore.NewMemoryRepository(), nil
	case "sqlite":
		if sqldb == nil {
			return nil, fmt.Errorf("manuscript: sqlite storage requires a database handle; use WithDB")
		}
		bunDB := bun.NewDB(sqldb, sqlitedialect.New())
		if cfg.CacheTTL <= 0 {
			return filestore.NewBunRepository(bunDB), nil
		}
		cacheCfg := repocache.DefaultConfig()
		cacheCfg.TTL = cfg.CacheTTL
		cacheSvc, err := repocache.NewCacheService(cacheCfg)
		if err != nil {
			return nil, fmt.Errorf("manuscript: cache service: %w", err)
		}
		return filestore.NewBunRepositoryWithCache(bunDB, cacheSvc, repocache.NewDefaultKeySerializer()), nil
	default:
		return nil, ErrStorageProviderUnknown
	}
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger {
	return logging.NoOp()
}
