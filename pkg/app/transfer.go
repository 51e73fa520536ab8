package app

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
)

const exportConcurrency = 4

// Snapshot is a raw dump of every content collection and every stored
// settings section, keyed by collection name and section key.
type Snapshot struct {
	Collections map[string][]map[string]any `json:"collections"`
	Settings    map[string]map[string]any   `json:"settings"`
}

type ImportStats struct {
	Records  int `json:"records"`
	Sections int `json:"sections"`
}

// Export reads all collections concurrently. Each document carries its
// identifier under "id" so an import keeps it.
func (a *App) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Collections: map[string][]map[string]any{},
		Settings:    map[string]map[string]any{},
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)

	for _, ct := range a.Registry.ContentTypes() {
		collection := ct.Collection
		g.Go(func() error {
			docs, err := a.Store.List(ctx, collection)
			if err != nil {
				return fmt.Errorf("export %s: %w", collection, err)
			}
			out := make([]map[string]any, 0, len(docs))
			for _, doc := range docs {
				out = append(out, withID(doc))
			}
			mu.Lock()
			snap.Collections[collection] = out
			mu.Unlock()
			return nil
		})
	}

	for _, sec := range a.Registry.Sections() {
		key := sec.Key
		g.Go(func() error {
			doc, err := a.Store.Get(ctx, a.Settings.Collection(), key)
			if err != nil {
				return fmt.Errorf("export settings %s: %w", key, err)
			}
			if doc == nil {
				return nil
			}
			mu.Lock()
			snap.Settings[key] = maps.Clone(doc.Data)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Import merge-writes a snapshot. Documents keep their identifiers; ones
// without an identifier are inserted under a new one. Collections and
// sections the registry does not know are refused before anything is written.
func (a *App) Import(ctx context.Context, snap *Snapshot) (ImportStats, error) {
	var stats ImportStats

	known := map[string]bool{}
	for _, ct := range a.Registry.ContentTypes() {
		known[ct.Collection] = true
	}
	for collection := range snap.Collections {
		if !known[collection] {
			return stats, fmt.Errorf("%w: collection %q", domain.ErrUnknownContentType, collection)
		}
	}
	for key := range snap.Settings {
		if _, err := a.Registry.Section(key); err != nil {
			return stats, err
		}
	}

	for collection, docs := range snap.Collections {
		for _, doc := range docs {
			data := map[string]any{}
			maps.Copy(data, doc)
			id, _ := data[domain.KeyID].(string)
			delete(data, domain.KeyID)

			var err error
			if id == "" {
				_, err = a.Store.Insert(ctx, collection, data)
			} else {
				err = a.Store.Merge(ctx, collection, id, data)
			}
			if err != nil {
				return stats, fmt.Errorf("import %s/%s: %w", collection, id, err)
			}
			stats.Records++
		}
	}

	for key, data := range snap.Settings {
		data = maps.Clone(data)
		if data == nil {
			data = map[string]any{}
		}
		delete(data, domain.KeyID)
		if err := a.Store.Merge(ctx, a.Settings.Collection(), key, data); err != nil {
			return stats, fmt.Errorf("import settings %s: %w", key, err)
		}
		stats.Sections++
	}

	a.Logger.Info().Int("records", stats.Records).Int("sections", stats.Sections).Msg("snapshot imported")
	return stats, nil
}

func withID(doc domain.Document) map[string]any {
	out := maps.Clone(doc.Data)
	if out == nil {
		out = map[string]any{}
	}
	out[domain.KeyID] = doc.ID
	return out
}
