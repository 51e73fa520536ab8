// Package storetest holds the behaviour every document store adapter must
// share, run against each adapter from its own tests.
package storetest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

// Run exercises store. Collections are namespaced by prefix so suites sharing
// one backing database do not see each other's documents.
func Run(t *testing.T, store ports.DocumentStore, prefix string) {
	t.Helper()
	ctx := context.Background()
	name := func(s string) string { return prefix + s }

	t.Run("EmptyCollection", func(t *testing.T) {
		docs, err := store.List(ctx, name("empty"))
		require.NoError(t, err)
		assert.Empty(t, docs)

		doc, err := store.Get(ctx, name("empty"), "missing")
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("InsertAssignsIdentifier", func(t *testing.T) {
		id, err := store.Insert(ctx, name("projects"), map[string]any{"title": "Alpha", "order": 0})
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		doc, err := store.Get(ctx, name("projects"), id)
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, id, doc.ID)
		assert.Equal(t, "Alpha", doc.Data["title"])
	})

	t.Run("ListKeepsInsertionOrder", func(t *testing.T) {
		coll := name("ordered")
		var ids []string
		for _, title := range []string{"first", "second", "third"} {
			id, err := store.Insert(ctx, coll, map[string]any{"title": title, "order": 1})
			require.NoError(t, err)
			ids = append(ids, id)
		}

		docs, err := store.List(ctx, coll)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		for i, doc := range docs {
			assert.Equal(t, ids[i], doc.ID)
		}
	})

	t.Run("MergePreservesUntouchedFields", func(t *testing.T) {
		coll := name("merge")
		id, err := store.Insert(ctx, coll, map[string]any{
			"title":       "Old",
			"description": "keep me",
			"tags":        []any{"a", "b"},
		})
		require.NoError(t, err)

		require.NoError(t, store.Merge(ctx, coll, id, map[string]any{
			"title": "New",
			"tags":  []any{"c"},
		}))

		doc, err := store.Get(ctx, coll, id)
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "New", doc.Data["title"])
		assert.Equal(t, "keep me", doc.Data["description"])
		assert.Equal(t, []any{"c"}, doc.Data["tags"])
	})

	t.Run("EmptyListsStayArrays", func(t *testing.T) {
		coll := name("lists")
		id, err := store.Insert(ctx, coll, map[string]any{"title": "bare", "technologies": []string{}})
		require.NoError(t, err)
		require.NoError(t, store.Merge(ctx, coll, id, map[string]any{"tags": []string{}}))

		doc, err := store.Get(ctx, coll, id)
		require.NoError(t, err)
		require.NotNil(t, doc)
		for _, key := range []string{"technologies", "tags"} {
			require.Contains(t, doc.Data, key)
			b, err := json.Marshal(doc.Data[key])
			require.NoError(t, err)
			assert.Equal(t, "[]", string(b), key)
		}

		docs, err := store.List(ctx, coll)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		b, err := json.Marshal(domain.RecordFromDocument(docs[0]))
		require.NoError(t, err)
		assert.Contains(t, string(b), `"technologies":[]`)
	})

	t.Run("MergeNestedObjects", func(t *testing.T) {
		coll := name("nested")
		require.NoError(t, store.Merge(ctx, coll, "hero", map[string]any{
			"links": map[string]any{"github": "gh", "twitter": "tw"},
		}))
		require.NoError(t, store.Merge(ctx, coll, "hero", map[string]any{
			"links": map[string]any{"github": "gh2"},
		}))

		doc, err := store.Get(ctx, coll, "hero")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, map[string]any{"github": "gh2", "twitter": "tw"}, doc.Data["links"])
	})

	t.Run("MergeCreatesMissingDocument", func(t *testing.T) {
		coll := name("settings")
		require.NoError(t, store.Merge(ctx, coll, "hobbies", map[string]any{"title": "Fun"}))

		doc, err := store.Get(ctx, coll, "hobbies")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "hobbies", doc.ID)
		assert.Equal(t, "Fun", doc.Data["title"])

		docs, err := store.List(ctx, coll)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("DeleteRemovesOnlyTarget", func(t *testing.T) {
		coll := name("delete")
		keep, err := store.Insert(ctx, coll, map[string]any{"title": "keep", "order": 2})
		require.NoError(t, err)
		drop, err := store.Insert(ctx, coll, map[string]any{"title": "drop", "order": 5})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, coll, drop))

		docs, err := store.List(ctx, coll)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, keep, docs[0].ID)
		assert.Equal(t, 2, domain.RecordFromDocument(docs[0]).Order)

		doc, err := store.Get(ctx, coll, drop)
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("DeleteMissingIsNotAnError", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, name("delete"), "does-not-exist"))
		assert.NoError(t, store.Delete(ctx, name("never-created"), "x"))
	})

	t.Run("CollectionsAreIsolated", func(t *testing.T) {
		_, err := store.Insert(ctx, name("blogs"), map[string]any{"title": "post"})
		require.NoError(t, err)

		docs, err := store.List(ctx, name("quotes"))
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("StoredCopiesAreIndependent", func(t *testing.T) {
		coll := name("copies")
		data := map[string]any{"title": "orig"}
		id, err := store.Insert(ctx, coll, data)
		require.NoError(t, err)
		data["title"] = "mutated"

		doc, err := store.Get(ctx, coll, id)
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "orig", doc.Data["title"])

		doc.Data["title"] = "mutated again"
		again, err := store.Get(ctx, coll, id)
		require.NoError(t, err)
		assert.Equal(t, "orig", again.Data["title"])
	})
}
