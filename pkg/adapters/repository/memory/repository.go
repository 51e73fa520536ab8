package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

type collection struct {
	ids  []string // insertion order
	docs map[string]map[string]any
}

// MemoryRepository is an in-memory document store. Documents are copied on
// the way in and out so callers never share maps with the store.
type MemoryRepository struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{collections: make(map[string]*collection)}
}

func (r *MemoryRepository) coll(name string) *collection {
	c, ok := r.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]map[string]any)}
		r.collections[name] = c
	}
	return c
}

func (r *MemoryRepository) List(ctx context.Context, name string) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[name]
	if !ok {
		return []domain.Document{}, nil
	}
	docs := make([]domain.Document, 0, len(c.ids))
	for _, id := range c.ids {
		docs = append(docs, domain.Document{ID: id, Data: domain.CloneFields(c.docs[id])})
	}
	return docs, nil
}

func (r *MemoryRepository) Get(ctx context.Context, name, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[name]
	if !ok {
		return nil, nil
	}
	data, ok := c.docs[id]
	if !ok {
		return nil, nil
	}
	return &domain.Document{ID: id, Data: domain.CloneFields(data)}, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, name string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	c := r.coll(name)
	c.ids = append(c.ids, id)
	c.docs[id] = domain.CloneFields(data)
	if c.docs[id] == nil {
		c.docs[id] = map[string]any{}
	}
	return id, nil
}

func (r *MemoryRepository) Merge(ctx context.Context, name, id string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.coll(name)
	existing, ok := c.docs[id]
	if !ok {
		c.ids = append(c.ids, id)
	}
	c.docs[id] = domain.MergeFields(domain.CloneFields(existing), domain.CloneFields(data))
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, name, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[name]
	if !ok {
		return nil
	}
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	c.ids = slices.DeleteFunc(c.ids, func(v string) bool { return v == id })
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}

var _ ports.DocumentStore = (*MemoryRepository)(nil)
