package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/schema"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

// SettingsService keeps one settings document per section, keyed by the
// section key, inside a single collection.
type SettingsService struct {
	store      ports.DocumentStore
	registry   *schema.Registry
	collection string
	logger     zerolog.Logger
	now        func() time.Time
}

func NewSettingsService(store ports.DocumentStore, registry *schema.Registry, collection string, logger zerolog.Logger) *SettingsService {
	if collection == "" {
		collection = "settings"
	}
	return &SettingsService{
		store:      store,
		registry:   registry,
		collection: collection,
		logger:     logger.With().Str("service", "settings").Logger(),
		now:        time.Now,
	}
}

func (s *SettingsService) Sections() []schema.Section {
	return s.registry.Sections()
}

// Collection names the collection holding the settings documents.
func (s *SettingsService) Collection() string {
	return s.collection
}

// Load returns the stored settings of section laid over its defaults. A
// default survives only where the stored document has no value. When the
// store fails, the defaults are returned together with the error.
func (s *SettingsService) Load(ctx context.Context, section string) (map[string]any, error) {
	sec, err := s.registry.Section(section)
	if err != nil {
		return nil, err
	}
	out := sec.Defaults

	doc, err := s.store.Get(ctx, s.collection, section)
	if err != nil {
		s.logger.Warn().Err(err).Str("section", section).Msg("failed to load settings, using defaults")
		return out, &domain.StoreError{Op: "load", Collection: s.collection, ID: section, Err: err}
	}
	if doc == nil {
		return out, nil
	}

	for k, v := range doc.Data {
		if v == nil || k == domain.KeyID {
			continue
		}
		out[k] = v
	}
	return out, nil
}

// Save merge-writes fields into the section document and returns the
// resulting settings. Keys it does not carry keep their stored values.
func (s *SettingsService) Save(ctx context.Context, section string, fields map[string]any) (map[string]any, error) {
	if _, err := s.registry.Section(section); err != nil {
		return nil, err
	}

	data := domain.DropNil(domain.CloneFields(fields))
	if data == nil {
		data = map[string]any{}
	}
	delete(data, domain.KeyID)
	data[domain.KeyUpdatedAt] = s.now().UTC().Format(timestampLayout)

	if err := s.store.Merge(ctx, s.collection, section, data); err != nil {
		s.logger.Error().Err(err).Str("section", section).Msg("failed to save settings")
		return nil, &domain.StoreError{Op: "save", Collection: s.collection, ID: section, Err: err}
	}
	s.logger.Info().Str("section", section).Msg("settings saved")

	return s.Load(ctx, section)
}

var _ ports.SettingsService = (*SettingsService)(nil)
