package filestore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-manuscript/pkg/interfaces"
)

// File is a stored workspace entry: a leaf document or a folder,
// addressed by a normalized workspace-absolute path inside an owning
// scope. Format is fixed metadata on the record, never inferred.
type File struct {
	bun.BaseModel `bun:"table:scope_files,alias:sf"`

	ID        uuid.UUID               `bun:",pk,type:uuid" json:"id"`
	ScopeID   uuid.UUID               `bun:"scope_id,notnull,type:uuid" json:"scope_id"`
	Path      string                  `bun:"path,notnull" json:"path"`
	Kind      interfaces.EntryKind    `bun:"kind,notnull" json:"kind"`
	Format    interfaces.SourceFormat `bun:"format" json:"format,omitempty"`
	Content   string                  `bun:"content" json:"content"`
	CreatedAt time.Time               `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time               `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Repository is the storage contract for scope files.
type Repository interface {
	Create(ctx context.Context, file *File) (*File, error)
	GetByPath(ctx context.Context, scope uuid.UUID, path string) (*File, error)
	List(ctx context.Context, scope uuid.UUID) ([]*File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError reports a missing scope file.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("filestore: %s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return interfaces.ErrScopeEntryNotFound
}

// Scope adapts a Repository to the narrow lookup contract the import
// resolver consumes.
type Scope struct {
	repo Repository
}

// NewScope wraps a repository as an interfaces.FileScope.
func NewScope(repo Repository) *Scope {
	return &Scope{repo: repo}
}

var _ interfaces.FileScope = (*Scope)(nil)

// Lookup finds a file by normalized path within the owning scope.
func (s *Scope) Lookup(ctx context.Context, scope uuid.UUID, path string) (*interfaces.ScopeFile, error) {
	record, err := s.repo.GetByPath(ctx, scope, path)
	if err != nil {
		return nil, err
	}
	return &interfaces.ScopeFile{
		Path:    record.Path,
		Kind:    record.Kind,
		Format:  record.Format,
		Content: record.Content,
	}, nil
}
