package filestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository with optional caching. Resolver
// lookups are read-heavy, so a cache-wrapped instance keeps repeated
// transclusions off the database.
type BunRepository struct {
	db           *bun.DB
	repo         repository.Repository[*File]
	cacheService cache.CacheService
	cachePrefix  string
}

const fileNamespace = "scope_file"

// NewBunRepository creates a scope file repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a scope file repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewFileRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(fileNamespace)
	}
	return &BunRepository{db: db, repo: base, cacheService: svc, cachePrefix: prefix}
}

var _ Repository = (*BunRepository)(nil)

// Migrate creates the scope_files table and its path index.
func (r *BunRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().
		Model((*File)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("filestore: create scope_files table: %w", err)
	}

	if _, err := r.db.NewCreateIndex().
		Model((*File)(nil)).
		Index("idx_scope_files_scope_path").
		Unique().
		IfNotExists().
		Column("scope_id", "path").
		Exec(ctx); err != nil {
		return fmt.Errorf("filestore: create scope_files index: %w", err)
	}
	return nil
}

// Create inserts the file, or updates the stored record when the scope
// already has an entry at the same path. The existing ID and creation
// time survive an update.
func (r *BunRepository) Create(ctx context.Context, file *File) (*File, error) {
	record := cloneFile(file)
	now := time.Now().UTC()

	existing, err := r.GetByPath(ctx, record.ScopeID, record.Path)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		record.UpdatedAt = now
		created, err := r.repo.Create(ctx, record)
		if err != nil {
			return nil, mapRepositoryError(err, "file", record.Path)
		}
		return created, nil
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = now
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("kind", "format", "content", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "file", record.Path)
	}
	return updated, nil
}

func (r *BunRepository) GetByPath(ctx context.Context, scope uuid.UUID, path string) (*File, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.scope_id = ?", scope).
				Where("?TableAlias.path = ?", path)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "file", path)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "file", Key: path}
	}
	return records[0], nil
}

func (r *BunRepository) List(ctx context.Context, scope uuid.UUID) ([]*File, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.scope_id = ?", scope).
				OrderExpr("?TableAlias.path ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "file", scope.String())
	}
	return records, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.repo.GetByID(ctx, id.String()); err != nil {
		return mapRepositoryError(err, "file", id.String())
	}
	return r.repo.Delete(ctx, &File{ID: id})
}

// InvalidateCache drops the cached file entries for this repository.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
