// Package app wires configuration, storage and services into a runnable
// admin backend. The server, the serverless entrypoint and the CLI share it.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/handler"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/repository"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/config"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/schema"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/services"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

type App struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Registry    *schema.Registry
	Store       ports.DocumentStore
	Collections *services.CollectionService
	Settings    *services.SettingsService
}

// New opens the configured store and builds the services on top of it.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	registry, err := schema.LoadFile(cfg.ContentTypesFile)
	if err != nil {
		return nil, fmt.Errorf("load content types: %w", err)
	}

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return NewWithStore(cfg, logger, registry, store), nil
}

// NewWithStore builds the services on an already opened store.
func NewWithStore(cfg *config.Config, logger zerolog.Logger, registry *schema.Registry, store ports.DocumentStore) *App {
	return &App{
		Config:      cfg,
		Logger:      logger,
		Registry:    registry,
		Store:       store,
		Collections: services.NewCollectionService(store, registry, services.NewHub(), logger),
		Settings:    services.NewSettingsService(store, registry, cfg.SettingsCollection, logger),
	}
}

func (a *App) Handler() http.Handler {
	return handler.NewRouter(a.Config, a.Logger, a.Collections, a.Settings)
}

func (a *App) Close() error {
	return a.Store.Close()
}
