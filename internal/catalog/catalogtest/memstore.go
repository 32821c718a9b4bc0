// Package catalogtest provides an in-memory catalog.Store for tests.
package catalogtest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Robo-91/grocery-inventory/internal/catalog"
)

// MemStore implements catalog.Store with per-collection maps, honoring
// the unique identifying-field constraint and insertion order the same
// way the Mongo implementation does.
type MemStore struct {
	mu    sync.Mutex
	items map[string][]*catalog.Item
}

var _ catalog.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{items: make(map[string][]*catalog.Item)}
}

// Count returns the number of items in a category.
func (m *MemStore) Count(s catalog.Schema) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items[s.Collection])
}

func (m *MemStore) List(ctx context.Context, s catalog.Schema) ([]*catalog.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*catalog.Item, len(m.items[s.Collection]))
	copy(out, m.items[s.Collection])
	return out, nil
}

func (m *MemStore) Get(ctx context.Context, s catalog.Schema, id primitive.ObjectID) (*catalog.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items[s.Collection] {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (m *MemStore) FindByIdent(ctx context.Context, s catalog.Schema, value string) (*catalog.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findByIdentLocked(s, value)
}

func (m *MemStore) findByIdentLocked(s catalog.Schema, value string) (*catalog.Item, error) {
	for _, it := range m.items[s.Collection] {
		if it.Ident(s) == value {
			return it, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (m *MemStore) Create(ctx context.Context, s catalog.Schema, it *catalog.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, err := m.findByIdentLocked(s, it.Ident(s)); err == nil {
		return &catalog.DuplicateError{Existing: existing}
	}
	it.ID = primitive.NewObjectID()
	m.items[s.Collection] = append(m.items[s.Collection], it)
	return nil
}

func (m *MemStore) Replace(ctx context.Context, s catalog.Schema, id primitive.ObjectID, it *catalog.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.items[s.Collection] {
		if other.ID != id && other.Ident(s) == it.Ident(s) {
			return &catalog.DuplicateError{Existing: other}
		}
	}
	for i, old := range m.items[s.Collection] {
		if old.ID == id {
			it.ID = id
			m.items[s.Collection][i] = it
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (m *MemStore) Delete(ctx context.Context, s catalog.Schema, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll := m.items[s.Collection]
	for i, it := range coll {
		if it.ID == id {
			m.items[s.Collection] = append(coll[:i], coll[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemStore) EnsureIndexes(ctx context.Context) error {
	return nil
}
