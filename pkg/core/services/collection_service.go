package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/ordering"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/schema"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

// ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type CollectionService struct {
	store    ports.DocumentStore
	registry *schema.Registry
	hub      *Hub
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCollectionService(store ports.DocumentStore, registry *schema.Registry, hub *Hub, logger zerolog.Logger) *CollectionService {
	if hub == nil {
		hub = NewHub()
	}
	return &CollectionService{
		store:    store,
		registry: registry,
		hub:      hub,
		logger:   logger.With().Str("service", "collections").Logger(),
		now:      time.Now,
	}
}

func (s *CollectionService) ContentTypes() []schema.ContentType {
	return s.registry.ContentTypes()
}

func (s *CollectionService) ContentType(name string) (schema.ContentType, error) {
	return s.registry.ContentType(name)
}

// List returns every record of contentType in storage order. Callers that
// display the list sort it with ordering.SortByOrder.
func (s *CollectionService) List(ctx context.Context, contentType string) ([]domain.Record, error) {
	ct, err := s.registry.ContentType(contentType)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, ct)
}

func (s *CollectionService) list(ctx context.Context, ct schema.ContentType) ([]domain.Record, error) {
	docs, err := s.store.List(ctx, ct.Collection)
	if err != nil {
		s.logger.Error().Err(err).Str("collection", ct.Collection).Msg("failed to list records")
		return nil, &domain.StoreError{Op: "list", Collection: ct.Collection, Err: err}
	}

	records := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, domain.RecordFromDocument(doc))
	}
	return records, nil
}

func (s *CollectionService) ListOrdered(ctx context.Context, contentType string) ([]domain.Record, error) {
	records, err := s.List(ctx, contentType)
	if err != nil {
		return nil, err
	}
	return ordering.SortByOrder(records), nil
}

func (s *CollectionService) Get(ctx context.Context, contentType, id string) (*domain.Record, error) {
	ct, err := s.registry.ContentType(contentType)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.ErrMissingID
	}

	doc, err := s.store.Get(ctx, ct.Collection, id)
	if err != nil {
		s.logger.Error().Err(err).Str("collection", ct.Collection).Str("id", id).Msg("failed to get record")
		return nil, &domain.StoreError{Op: "get", Collection: ct.Collection, ID: id, Err: err}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrRecordNotFound, contentType, id)
	}

	rec := domain.RecordFromDocument(*doc)
	return &rec, nil
}

// NextOrder returns the order that places a new record after every stored one.
func (s *CollectionService) NextOrder(ctx context.Context, contentType string) (int, error) {
	records, err := s.List(ctx, contentType)
	if err != nil {
		return 0, err
	}
	return ordering.NextOrder(records), nil
}

// Save writes a draft. A draft without an identifier is inserted under a
// generated one; a draft with an identifier is merged into the stored record,
// leaving fields it does not carry untouched. Required fields are not checked
// here.
func (s *CollectionService) Save(ctx context.Context, contentType string, draft domain.Draft) (*domain.Record, error) {
	ct, err := s.registry.ContentType(contentType)
	if err != nil {
		return nil, err
	}

	data := ct.Normalize(draft.Fields)
	delete(data, domain.KeyID)
	delete(data, domain.KeyCreatedAt)
	if raw, ok := draft.Fields[domain.KeyOrder]; ok && raw != nil {
		data[domain.KeyOrder] = ordering.Coerce(raw)
	} else {
		delete(data, domain.KeyOrder)
	}

	stamp := s.now().UTC().Format(timestampLayout)
	data[domain.KeyUpdatedAt] = stamp

	id := draft.ID
	if id == "" {
		if _, ok := data[domain.KeyOrder]; !ok {
			records, err := s.list(ctx, ct)
			if err != nil {
				return nil, err
			}
			data[domain.KeyOrder] = ordering.NextOrder(records)
		}
		data[domain.KeyCreatedAt] = stamp

		id, err = s.store.Insert(ctx, ct.Collection, data)
		if err != nil {
			s.logger.Error().Err(err).Str("collection", ct.Collection).Msg("failed to create record")
			return nil, &domain.StoreError{Op: "create", Collection: ct.Collection, Err: err}
		}
		s.logger.Info().Str("collection", ct.Collection).Str("id", id).Msg("record created")
	} else {
		if err := s.store.Merge(ctx, ct.Collection, id, data); err != nil {
			s.logger.Error().Err(err).Str("collection", ct.Collection).Str("id", id).Msg("failed to update record")
			return nil, &domain.StoreError{Op: "update", Collection: ct.Collection, ID: id, Err: err}
		}
		s.logger.Info().Str("collection", ct.Collection).Str("id", id).Msg("record updated")
	}
	s.hub.Publish(ct.Collection)

	doc, err := s.store.Get(ctx, ct.Collection, id)
	if err != nil || doc == nil {
		// The write went through; report what was sent.
		s.logger.Warn().Err(err).Str("collection", ct.Collection).Str("id", id).Msg("saved record could not be read back")
		rec := domain.RecordFromDocument(domain.Document{ID: id, Data: data})
		return &rec, nil
	}
	rec := domain.RecordFromDocument(*doc)
	return &rec, nil
}

// Delete removes a record without checking that it exists. Sibling orders are
// left as they are; gaps are harmless.
func (s *CollectionService) Delete(ctx context.Context, contentType, id string) error {
	ct, err := s.registry.ContentType(contentType)
	if err != nil {
		return err
	}
	if id == "" {
		return domain.ErrMissingID
	}

	if err := s.store.Delete(ctx, ct.Collection, id); err != nil {
		s.logger.Error().Err(err).Str("collection", ct.Collection).Str("id", id).Msg("failed to delete record")
		return &domain.StoreError{Op: "delete", Collection: ct.Collection, ID: id, Err: err}
	}
	s.logger.Info().Str("collection", ct.Collection).Str("id", id).Msg("record deleted")
	s.hub.Publish(ct.Collection)
	return nil
}

// Subscribe streams ordered snapshots of contentType: one immediately, then
// one after each change made through this service. Snapshots that arrive
// while the receiver is busy collapse into the latest. The channel closes
// when ctx is done.
func (s *CollectionService) Subscribe(ctx context.Context, contentType string) (<-chan []domain.Record, error) {
	ct, err := s.registry.ContentType(contentType)
	if err != nil {
		return nil, err
	}

	changes, cancel := s.hub.Subscribe(ct.Collection)
	initial, err := s.list(ctx, ct)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan []domain.Record, 1)
	out <- ordering.SortByOrder(initial)

	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
			}

			records, err := s.list(ctx, ct)
			if err != nil {
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}
				continue
			}
			snapshot := ordering.SortByOrder(records)

			// Replace a snapshot the receiver has not picked up yet.
			select {
			case <-out:
			default:
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

var _ ports.CollectionService = (*CollectionService)(nil)
