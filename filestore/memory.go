package filestore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type pathKey struct {
	scope uuid.UUID
	path  string
}

type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*File
	byPath map[pathKey]uuid.UUID
}

// NewMemoryRepository constructs an in-memory repository for scope files
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:   make(map[uuid.UUID]*File),
		byPath: make(map[pathKey]uuid.UUID),
	}
}

func (m *memoryRepository) Create(_ context.Context, file *File) (*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneFile(file)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	now := time.Now().UTC()
	if cloned.CreatedAt.IsZero() {
		cloned.CreatedAt = now
	}
	cloned.UpdatedAt = now

	key := pathKey{scope: cloned.ScopeID, path: cloned.Path}
	if existingID, ok := m.byPath[key]; ok {
		cloned.ID = existingID
		cloned.CreatedAt = m.byID[existingID].CreatedAt
	}
	m.byID[cloned.ID] = cloned
	m.byPath[key] = cloned.ID
	return cloneFile(cloned), nil
}

func (m *memoryRepository) GetByPath(_ context.Context, scope uuid.UUID, path string) (*File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byPath[pathKey{scope: scope, path: path}]
	if !ok {
		return nil, &NotFoundError{Resource: "file", Key: path}
	}
	return cloneFile(m.byID[id]), nil
}

func (m *memoryRepository) List(_ context.Context, scope uuid.UUID) ([]*File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*File
	for _, record := range m.byID {
		if record.ScopeID == scope {
			out = append(out, cloneFile(record))
		}
	}
	return out, nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "file", Key: id.String()}
	}
	delete(m.byPath, pathKey{scope: record.ScopeID, path: record.Path})
	delete(m.byID, id)
	return nil
}

func cloneFile(file *File) *File {
	if file == nil {
		return nil
	}
	cloned := *file
	return &cloned
}
