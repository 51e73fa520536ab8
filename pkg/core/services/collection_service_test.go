package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/schema"
)

func draft(id string, fields map[string]any) domain.Draft {
	return domain.Draft{ID: id, Fields: fields}
}

func TestSaveCreateCoercesOrderAndAssignsID(t *testing.T) {
	svc, _ := newCollectionService(t)
	ctx := context.Background()

	rec, err := svc.Save(ctx, "projects", draft("", map[string]any{"title": "X", "order": "3"}))
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 3, rec.Order)
	assert.Equal(t, "X", rec.Fields["title"])
	assert.Equal(t, "2024-03-01T12:00:00.000Z", rec.CreatedAt)
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)

	records, err := svc.List(ctx, "projects")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
	assert.Equal(t, 3, records[0].Order)
}

func TestSaveCreateWithoutOrderAppends(t *testing.T) {
	svc, _ := newCollectionService(t)
	ctx := context.Background()

	for _, o := range []any{0, 2, 2, 5} {
		_, err := svc.Save(ctx, "hobbies", draft("", map[string]any{"title": "h", "order": o}))
		require.NoError(t, err)
	}

	next, err := svc.NextOrder(ctx, "hobbies")
	require.NoError(t, err)
	assert.Equal(t, 6, next)

	rec, err := svc.Save(ctx, "hobbies", draft("", map[string]any{"title": "last"}))
	require.NoError(t, err)
	assert.Equal(t, 6, rec.Order)

	ordered, err := svc.ListOrdered(ctx, "hobbies")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, ordered[len(ordered)-1].ID)
}

func TestSaveUnparseableOrderBecomesZero(t *testing.T) {
	svc, _ := newCollectionService(t)

	rec, err := svc.Save(context.Background(), "quotes", draft("", map[string]any{"text": "q", "order": "soon"}))
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Order)
}

func TestSaveUpdateMergesAndKeepsOrder(t *testing.T) {
	svc, _ := newCollectionService(t)
	ctx := context.Background()

	created, err := svc.Save(ctx, "projects", draft("", map[string]any{
		"title":        "Old",
		"description":  "keep me",
		"technologies": "Go, SQL",
		"order":        4,
	}))
	require.NoError(t, err)

	later := fixedNow.Add(time.Hour)
	svc.now = func() time.Time { return later }

	updated, err := svc.Save(ctx, "projects", draft(created.ID, map[string]any{"title": "New"}))
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "New", updated.Fields["title"])
	assert.Equal(t, "keep me", updated.Fields["description"])
	assert.Equal(t, []string{"Go", "SQL"}, updated.Fields["technologies"])
	assert.Equal(t, 4, updated.Order)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "2024-03-01T13:00:00.000Z", updated.UpdatedAt)
}

func TestSaveNormalizesListFields(t *testing.T) {
	svc, _ := newCollectionService(t)

	rec, err := svc.Save(context.Background(), "experience", draft("", map[string]any{
		"company":      "Acme",
		"achievements": "",
		"technologies": " Go ,, Rust ",
		"logo":         nil,
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{}, rec.Fields["achievements"])
	assert.Equal(t, []string{"Go", "Rust"}, rec.Fields["technologies"])
	assert.NotContains(t, rec.Fields, "logo")
}

func TestSaveDoesNotValidate(t *testing.T) {
	svc, _ := newCollectionService(t)

	_, err := svc.Save(context.Background(), "projects", draft("", map[string]any{}))
	assert.NoError(t, err)
}

func TestSaveIgnoresClientBookkeeping(t *testing.T) {
	svc, _ := newCollectionService(t)
	ctx := context.Background()

	created, err := svc.Save(ctx, "quotes", draft("", map[string]any{"text": "a"}))
	require.NoError(t, err)

	updated, err := svc.Save(ctx, "quotes", draft(created.ID, map[string]any{
		"id":        "forged",
		"createdAt": "1999-01-01T00:00:00.000Z",
	}))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.NotContains(t, updated.Fields, "id")
}

func TestDeleteLeavesSiblingOrders(t *testing.T) {
	svc, _ := newCollectionService(t)
	ctx := context.Background()

	var ids []string
	for _, o := range []int{0, 1, 2} {
		rec, err := svc.Save(ctx, "services", draft("", map[string]any{"title": "s", "order": o}))
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	require.NoError(t, svc.Delete(ctx, "services", ids[1]))

	records, err := svc.ListOrdered(ctx, "services")
	require.NoError(t, err)
	got := map[string]int{}
	for _, r := range records {
		got[r.ID] = r.Order
	}
	if diff := cmp.Diff(map[string]int{ids[0]: 0, ids[2]: 2}, got); diff != "" {
		t.Errorf("orders after delete mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteMissingRecord(t *testing.T) {
	svc, _ := newCollectionService(t)
	assert.NoError(t, svc.Delete(context.Background(), "services", "never-existed"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "services", ""), domain.ErrMissingID)
}

func TestGet(t *testing.T) {
	svc, _ := newCollectionService(t)
	ctx := context.Background()

	rec, err := svc.Save(ctx, "blogs", draft("", map[string]any{"title": "post"}))
	require.NoError(t, err)

	got, err := svc.Get(ctx, "blogs", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "post", got.Fields["title"])

	_, err = svc.Get(ctx, "blogs", "missing")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestUnknownContentType(t *testing.T) {
	svc, _ := newCollectionService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, "widgets")
	assert.ErrorIs(t, err, domain.ErrUnknownContentType)
	_, err = svc.Save(ctx, "widgets", draft("", nil))
	assert.ErrorIs(t, err, domain.ErrUnknownContentType)
	assert.ErrorIs(t, svc.Delete(ctx, "widgets", "x"), domain.ErrUnknownContentType)
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	svc := NewCollectionService(failingStore{err: errStoreDown}, schema.Default(), nil, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.List(ctx, "projects")
	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "list", storeErr.Op)
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.Save(ctx, "projects", draft("p1", map[string]any{"title": "x"}))
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "update", storeErr.Op)
	assert.Equal(t, "p1", storeErr.ID)

	err = svc.Delete(ctx, "projects", "p1")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestSubscribeStreamsSnapshots(t *testing.T) {
	svc, _ := newCollectionService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := svc.Save(ctx, "languages", draft("", map[string]any{"name": "Thai", "order": 1}))
	require.NoError(t, err)

	snapshots, err := svc.Subscribe(ctx, "languages")
	require.NoError(t, err)

	first := receive(t, snapshots)
	require.Len(t, first, 1)

	_, err = svc.Save(ctx, "languages", draft("", map[string]any{"name": "English", "order": 0}))
	require.NoError(t, err)

	second := receive(t, snapshots)
	require.Len(t, second, 2)
	assert.Equal(t, "English", second[0].Fields["name"])
	assert.Equal(t, "Thai", second[1].Fields["name"])

	cancel()
	for range snapshots {
	}
	assert.Equal(t, 0, svc.hub.Subscribers("languages"))
}

func TestSubscribeIgnoresOtherCollections(t *testing.T) {
	svc, _ := newCollectionService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := svc.Subscribe(ctx, "quotes")
	require.NoError(t, err)
	receive(t, snapshots)

	_, err = svc.Save(ctx, "blogs", draft("", map[string]any{"title": "b"}))
	require.NoError(t, err)

	select {
	case s := <-snapshots:
		t.Fatalf("unexpected snapshot %v", s)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	for range snapshots {
	}
}

func TestSubscribeUnknownType(t *testing.T) {
	svc, _ := newCollectionService(t)
	_, err := svc.Subscribe(context.Background(), "widgets")
	assert.ErrorIs(t, err, domain.ErrUnknownContentType)
}

func receive(t *testing.T, ch <-chan []domain.Record) []domain.Record {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "channel closed")
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
