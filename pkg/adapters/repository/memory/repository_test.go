package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/repository/storetest"
)

func TestMemoryRepository(t *testing.T) {
	storetest.Run(t, memory.NewMemoryRepository(), "")
}

func TestMemoryRepository_ConcurrentInserts(t *testing.T) {
	repo := memory.NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Insert(ctx, "projects", map[string]any{"order": i})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	docs, err := repo.List(ctx, "projects")
	require.NoError(t, err)
	assert.Len(t, docs, 50)
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	repo := memory.NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Insert(ctx, "projects", map[string]any{})
	assert.ErrorIs(t, err, context.Canceled)
}
