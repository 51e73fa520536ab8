package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/schema"
)

func newSettingsService(t *testing.T) (*SettingsService, *memory.MemoryRepository) {
	t.Helper()
	store := memory.NewMemoryRepository()
	svc := NewSettingsService(store, schema.Default(), "", zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func TestLoadAbsentReturnsDefaults(t *testing.T) {
	svc, _ := newSettingsService(t)

	got, err := svc.Load(context.Background(), "hobbies")
	require.NoError(t, err)

	sec, err := schema.Default().Section("hobbies")
	require.NoError(t, err)
	assert.Equal(t, sec.Defaults, got)
}

func TestLoadStoredOverridesDefaults(t *testing.T) {
	svc, store := newSettingsService(t)
	ctx := context.Background()

	require.NoError(t, store.Merge(ctx, "settings", "hobbies", map[string]any{
		"title":       "Off the Clock",
		"description": nil,
		"extra":       "kept",
	}))

	got, err := svc.Load(ctx, "hobbies")
	require.NoError(t, err)

	assert.Equal(t, "Off the Clock", got["title"])
	assert.Equal(t, "Interests", got["titleHighlight"])
	assert.Equal(t, "What I enjoy when I'm away from the keyboard.", got["description"])
	assert.Equal(t, "kept", got["extra"])
}

func TestLoadFailureReturnsDefaultsAndError(t *testing.T) {
	svc := NewSettingsService(failingStore{err: errStoreDown}, schema.Default(), "settings", zerolog.Nop())

	got, err := svc.Load(context.Background(), "about")
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, "About Me", got["subtitle"])
}

func TestSaveMergesAndStamps(t *testing.T) {
	svc, store := newSettingsService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "achievements", map[string]any{"title": "Wins", "showCertifications": false})
	require.NoError(t, err)

	got, err := svc.Save(ctx, "achievements", map[string]any{"subtitle": "Proud of", "title": nil})
	require.NoError(t, err)

	assert.Equal(t, "Wins", got["title"])
	assert.Equal(t, "Proud of", got["subtitle"])
	assert.Equal(t, false, got["showCertifications"])
	assert.Equal(t, true, got["showAchievements"])
	assert.Equal(t, "2024-03-01T12:00:00.000Z", got[domain.KeyUpdatedAt])

	doc, err := store.Get(ctx, "settings", "achievements")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.NotContains(t, doc.Data, "showAchievements", "defaults are not written back")
}

func TestSaveDropsNestedNils(t *testing.T) {
	svc, store := newSettingsService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "site", map[string]any{
		"socialLinks": map[string]any{"github": "gh", "twitter": "tw"},
	})
	require.NoError(t, err)

	got, err := svc.Save(ctx, "site", map[string]any{
		"socialLinks": map[string]any{"github": "gh2", "twitter": nil},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"github": "gh2", "twitter": "tw"}, got["socialLinks"])

	doc, err := store.Get(ctx, "settings", "site")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, map[string]any{"github": "gh2", "twitter": "tw"}, doc.Data["socialLinks"])
}

func TestUnknownSection(t *testing.T) {
	svc, _ := newSettingsService(t)
	ctx := context.Background()

	_, err := svc.Load(ctx, "footer")
	assert.ErrorIs(t, err, domain.ErrUnknownSection)
	_, err = svc.Save(ctx, "footer", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, domain.ErrUnknownSection)
}

func TestSaveFailure(t *testing.T) {
	svc := NewSettingsService(failingStore{err: errStoreDown}, schema.Default(), "settings", zerolog.Nop())

	_, err := svc.Save(context.Background(), "hero", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, errStoreDown)
}
