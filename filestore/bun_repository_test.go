package filestore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-manuscript/filestore"
	"github.com/goliatone/go-manuscript/pkg/interfaces"
	"github.com/goliatone/go-manuscript/pkg/testsupport"
)

func newBunRepository(t *testing.T) *filestore.BunRepository {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	keySerializer := repocache.NewDefaultKeySerializer()

	repo := filestore.NewBunRepositoryWithCache(bunDB, cacheSvc, keySerializer)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo
}

func TestBunRepository_WithBunAndCache(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepository(t)
	scope := uuid.New()

	created, err := repo.Create(ctx, &filestore.File{
		ScopeID: scope,
		Path:    "/notes/intro.md",
		Kind:    interfaces.EntryKindFile,
		Format:  interfaces.FormatMarkdown,
		Content: "# Intro",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps set")
	}

	got, err := repo.GetByPath(ctx, scope, "/notes/intro.md")
	if err != nil {
		t.Fatalf("get by path: %v", err)
	}
	if got.Content != "# Intro" {
		t.Fatalf("content = %q", got.Content)
	}
	if got.ID != created.ID {
		t.Fatalf("id = %s, want %s", got.ID, created.ID)
	}

	if err := repo.InvalidateCache(ctx); err != nil {
		t.Fatalf("invalidate cache: %v", err)
	}

	updated, err := repo.Create(ctx, &filestore.File{
		ScopeID: scope,
		Path:    "/notes/intro.md",
		Kind:    interfaces.EntryKindFile,
		Format:  interfaces.FormatMarkdown,
		Content: "# Intro, revised",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("upsert changed ID: %s vs %s", updated.ID, created.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("upsert changed CreatedAt: %v vs %v", updated.CreatedAt, created.CreatedAt)
	}
	if err := repo.InvalidateCache(ctx); err != nil {
		t.Fatalf("invalidate cache: %v", err)
	}
	got, err = repo.GetByPath(ctx, scope, "/notes/intro.md")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.Content != "# Intro, revised" {
		t.Fatalf("content after upsert = %q", got.Content)
	}
}

func TestBunRepositoryListScopeIsolation(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepository(t)
	scopeA := uuid.New()
	scopeB := uuid.New()

	for _, file := range []*filestore.File{
		{ScopeID: scopeA, Path: "/b.md", Kind: interfaces.EntryKindFile, Content: "b"},
		{ScopeID: scopeA, Path: "/a.md", Kind: interfaces.EntryKindFile, Content: "a"},
		{ScopeID: scopeB, Path: "/c.md", Kind: interfaces.EntryKindFile, Content: "c"},
	} {
		if _, err := repo.Create(ctx, file); err != nil {
			t.Fatalf("create %s: %v", file.Path, err)
		}
	}

	records, err := repo.List(ctx, scopeA)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].Path != "/a.md" || records[1].Path != "/b.md" {
		t.Fatalf("order = %s, %s", records[0].Path, records[1].Path)
	}
}

func TestBunRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepository(t)

	_, err := repo.GetByPath(ctx, uuid.New(), "/missing.md")
	if err == nil {
		t.Fatal("expected error for missing path")
	}
	var notFound *filestore.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !errors.Is(err, interfaces.ErrScopeEntryNotFound) {
		t.Fatalf("expected scope entry sentinel, got %v", err)
	}
}

func TestBunRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepository(t)
	scope := uuid.New()

	created, err := repo.Create(ctx, &filestore.File{
		ScopeID: scope,
		Path:    "/gone.md",
		Kind:    interfaces.EntryKindFile,
		Content: "x",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.InvalidateCache(ctx); err != nil {
		t.Fatalf("invalidate cache: %v", err)
	}
	if _, err := repo.GetByPath(ctx, scope, "/gone.md"); err == nil {
		t.Fatal("expected missing after delete")
	}

	var notFound *filestore.NotFoundError
	if err := repo.Delete(ctx, uuid.New()); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for unknown id, got %v", err)
	}
}
