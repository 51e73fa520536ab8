package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

// PostgresRepository stores documents as JSONB rows keyed by collection and id.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, dbURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresRepository{pool: pool}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
	CREATE TABLE IF NOT EXISTS documents (
		seq BIGSERIAL PRIMARY KEY,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (collection, id)
	);
	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection, seq);
	`
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("migrate documents: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, collection string) ([]domain.Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 ORDER BY seq ASC`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var doc domain.Document
		var raw []byte
		if err := rows.Scan(&doc.ID, &raw); err != nil {
			return nil, err
		}
		if doc.Data, err = decode(raw); err != nil {
			return nil, fmt.Errorf("document %s/%s: %w", collection, doc.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`, collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("document %s/%s: %w", collection, id, err)
	}
	return &domain.Document{ID: id, Data: data}, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	raw, err := encode(data)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = r.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`, collection, id, raw)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Merge locks the row, merges nested objects in Go and writes the result
// back. JSONB's || operator only merges the top level.
func (r *PostgresRepository) Merge(ctx context.Context, collection, id string, data map[string]any) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`, collection, id).Scan(&raw)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	existing, err := decode(raw)
	if err != nil {
		return fmt.Errorf("document %s/%s: %w", collection, id, err)
	}
	merged, err := encode(domain.MergeFields(existing, data))
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = documents.data || excluded.data, updated_at = now()`,
		collection, id, merged)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) Delete(ctx context.Context, collection, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	return err
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func encode(data map[string]any) (string, error) {
	if data == nil {
		return "{}", nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

func decode(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return data, nil
}

var _ ports.DocumentStore = (*PostgresRepository)(nil)
