// Package repository picks and opens the document store named by
// configuration.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/repository/postgres"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/repository/surreal"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/config"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverLibSQL   = "libsql"
	DriverPostgres = "postgres"
	DriverSurreal  = "surrealdb"
)

// Driver resolves the store driver: an explicit driver wins, otherwise it is
// inferred from the URL scheme.
func Driver(driver, dbURL string) (string, error) {
	if driver != "" {
		switch d := strings.ToLower(driver); d {
		case DriverMemory, DriverSQLite, DriverLibSQL, DriverPostgres, DriverSurreal:
			return d, nil
		case "surreal":
			return DriverSurreal, nil
		case "postgresql", "pgx":
			return DriverPostgres, nil
		default:
			return "", fmt.Errorf("unsupported database driver %q", driver)
		}
	}

	switch {
	case dbURL == "" || dbURL == DriverMemory || dbURL == ":memory:":
		return DriverMemory, nil
	case sqlite.IsRemoteURL(dbURL):
		return DriverLibSQL, nil
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(dbURL, "ws://"), strings.HasPrefix(dbURL, "surrealdb://"):
		return DriverSurreal, nil
	case strings.HasPrefix(dbURL, "file:"), strings.HasSuffix(dbURL, ".sqlite"), strings.HasSuffix(dbURL, ".db"):
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("cannot infer database driver from %q; set DATABASE_DRIVER", dbURL)
	}
}

// Open connects the document store described by cfg.
func Open(ctx context.Context, cfg *config.Config) (ports.DocumentStore, error) {
	driver, err := Driver(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverMemory:
		return memory.NewMemoryRepository(), nil
	case DriverSQLite, DriverLibSQL:
		return sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	case DriverPostgres:
		return postgres.NewPostgresRepository(ctx, cfg.DatabaseURL)
	case DriverSurreal:
		return surreal.NewSurrealRepository(ctx, surreal.Options{
			URL:       strings.Replace(cfg.DatabaseURL, "surrealdb://", "ws://", 1),
			Namespace: cfg.Surreal.Namespace,
			Database:  cfg.Surreal.Database,
			Username:  cfg.Surreal.User,
			Password:  cfg.Surreal.Password,
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
