package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

type SQLiteRepository struct {
	db *sql.DB
}

// IsRemoteURL reports whether dbURL points at a libSQL server rather than a
// local SQLite file.
func IsRemoteURL(dbURL string) bool {
	return strings.HasPrefix(dbURL, "libsql://") || strings.HasPrefix(dbURL, "wss://")
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if IsRemoteURL(dbURL) {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data JSON NOT NULL DEFAULT '{}',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (collection, id)
	);
	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, seq);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migrate documents: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, collection string) ([]domain.Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = ? ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var doc domain.Document
		var raw string
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

func (r *SQLiteRepository) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	query := `SELECT data FROM documents WHERE collection = ? AND id = ?`

	var raw string
	err := r.db.QueryRowContext(ctx, query, collection, id).Scan(&raw)
	if err == sql.ErrNoRows {
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

func (r *SQLiteRepository) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	query := `INSERT INTO documents (collection, id, data) VALUES (?, ?, json(?))`

	raw, err := encode(data)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, query, collection, id, raw); err != nil {
		return "", err
	}
	return id, nil
}

// Merge relies on json_patch, which merges nested objects and replaces
// everything else, arrays included.
func (r *SQLiteRepository) Merge(ctx context.Context, collection, id string, data map[string]any) error {
	query := `INSERT INTO documents (collection, id, data) VALUES (?, ?, json(?))
			  ON CONFLICT (collection, id) DO UPDATE
			  SET data = json_patch(documents.data, excluded.data), updated_at = CURRENT_TIMESTAMP`

	raw, err := encode(data)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, collection, id, raw)
	return err
}

func (r *SQLiteRepository) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = ? AND id = ?`
	_, err := r.db.ExecContext(ctx, query, collection, id)
	return err
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
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

func decode(raw string) (map[string]any, error) {
	data := map[string]any{}
	if raw == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return data, nil
}

// Ensure interface compliance
var _ ports.DocumentStore = (*SQLiteRepository)(nil)
