package handler

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/app"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/config"
)

var mux http.Handler

func init() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		log = log.Level(level)
	}

	// On Vercel a local SQLite file is ephemeral; point DATABASE_URL at Turso,
	// Postgres or SurrealDB instead.
	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	mux = a.Handler()
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
