package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newCollectionService(t *testing.T) (*CollectionService, *memory.MemoryRepository) {
	t.Helper()
	store := memory.NewMemoryRepository()
	svc := NewCollectionService(store, schema.Default(), NewHub(), zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

// failingStore fails every call with err.
type failingStore struct {
	err error
}

func (f failingStore) List(context.Context, string) ([]domain.Document, error) { return nil, f.err }
func (f failingStore) Get(context.Context, string, string) (*domain.Document, error) {
	return nil, f.err
}
func (f failingStore) Insert(context.Context, string, map[string]any) (string, error) {
	return "", f.err
}
func (f failingStore) Merge(context.Context, string, string, map[string]any) error { return f.err }
func (f failingStore) Delete(context.Context, string, string) error                { return f.err }
func (f failingStore) Close() error                                                { return nil }

var errStoreDown = errors.New("store unavailable")
