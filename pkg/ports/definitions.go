package ports

import (
	"context"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/schema"
)

// DocumentStore defines storage operations over keyed document collections
type DocumentStore interface {
	// List returns every document in the collection in insertion order
	List(ctx context.Context, collection string) ([]domain.Document, error)
	// Get returns nil, nil when the document does not exist
	Get(ctx context.Context, collection, id string) (*domain.Document, error)
	// Insert stores a new document under a storage-generated identifier
	Insert(ctx context.Context, collection string, data map[string]any) (string, error)
	// Merge upserts data into the document, keeping fields it does not carry
	Merge(ctx context.Context, collection, id string, data map[string]any) error
	// Delete removes the document; deleting a missing document is not an error
	Delete(ctx context.Context, collection, id string) error
	Close() error
} // DocumentStore ends here

// CollectionService defines editing operations on ordered content collections
type CollectionService interface {
	ContentTypes() []schema.ContentType
	ContentType(name string) (schema.ContentType, error)
	List(ctx context.Context, contentType string) ([]domain.Record, error)
	ListOrdered(ctx context.Context, contentType string) ([]domain.Record, error)
	Get(ctx context.Context, contentType, id string) (*domain.Record, error)
	NextOrder(ctx context.Context, contentType string) (int, error)
	Save(ctx context.Context, contentType string, draft domain.Draft) (*domain.Record, error)
	Delete(ctx context.Context, contentType, id string) error
	Subscribe(ctx context.Context, contentType string) (<-chan []domain.Record, error)
}

// SettingsService defines load and save of per-section settings documents
type SettingsService interface {
	Sections() []schema.Section
	Load(ctx context.Context, section string) (map[string]any, error)
	Save(ctx context.Context, section string, fields map[string]any) (map[string]any, error)
}
