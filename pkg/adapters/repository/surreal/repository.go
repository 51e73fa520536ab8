package surreal

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

// seqField records insertion order; SurrealDB returns table scans ordered by
// record id, not by creation.
const seqField = "_seq"

type Options struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// SurrealRepository stores each collection as a SurrealDB table with one
// record per document.
type SurrealRepository struct {
	db   *surrealdb.DB
	last atomic.Int64
}

func NewSurrealRepository(ctx context.Context, opts Options) (*SurrealRepository, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if opts.Username != "" && opts.Password != "" {
		if _, err := db.SignIn(ctx, surrealdb.Auth{
			Username: opts.Username,
			Password: opts.Password,
		}); err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, opts.Namespace, opts.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &SurrealRepository{db: db}, nil
}

// nextSeq is strictly increasing within this process even when the clock
// does not advance between calls.
func (r *SurrealRepository) nextSeq() int64 {
	now := time.Now().UnixNano()
	for {
		last := r.last.Load()
		next := max(now, last+1)
		if r.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

func (r *SurrealRepository) List(ctx context.Context, collection string) ([]domain.Document, error) {
	query := fmt.Sprintf("SELECT *, record::id(id) AS _key FROM type::table($tb) ORDER BY %s ASC", seqField)
	results, err := surrealdb.Query[[]map[string]any](ctx, r.db, query, map[string]any{
		"tb": collection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}

	docs := []domain.Document{}
	if results == nil || len(*results) == 0 {
		return docs, nil
	}
	for _, row := range (*results)[0].Result {
		key := fmt.Sprint(row["_key"])
		delete(row, "_key")
		docs = append(docs, domain.Document{ID: key, Data: clean(row)})
	}
	return docs, nil
}

func (r *SurrealRepository) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	row, err := surrealdb.Select[map[string]any](ctx, r.db, models.NewRecordID(collection, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	if row == nil || len(*row) == 0 {
		return nil, nil
	}
	return &domain.Document{ID: id, Data: clean(*row)}, nil
}

func (r *SurrealRepository) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	record := domain.CloneFields(data)
	if record == nil {
		record = map[string]any{}
	}
	record[seqField] = r.nextSeq()

	id := uuid.NewString()
	if _, err := surrealdb.Create[map[string]any](ctx, r.db, models.NewRecordID(collection, id), record); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", collection, err)
	}
	return id, nil
}

// Merge upserts with MERGE, which combines nested objects and replaces other
// values. A record created here gets its sequence number in the same query.
func (r *SurrealRepository) Merge(ctx context.Context, collection, id string, data map[string]any) error {
	query := fmt.Sprintf(`UPSERT $rid MERGE $data RETURN NONE;
		UPDATE $rid SET %[1]s = $seq WHERE %[1]s IS NONE RETURN NONE;`, seqField)

	if data == nil {
		data = map[string]any{}
	}
	_, err := surrealdb.Query[any](ctx, r.db, query, map[string]any{
		"rid":  models.NewRecordID(collection, id),
		"data": data,
		"seq":  r.nextSeq(),
	})
	if err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *SurrealRepository) Delete(ctx context.Context, collection, id string) error {
	_, err := surrealdb.Delete[map[string]any](ctx, r.db, models.NewRecordID(collection, id))
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *SurrealRepository) Close() error {
	return r.db.Close(context.Background())
}

func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Expected a single or multiple results but got 0") ||
		strings.Contains(msg, "cannot unmarshal array into Go value")
}

// clean drops storage bookkeeping and turns CBOR-decoded values into the
// shapes the JSON stores produce.
func clean(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		if k == "id" || k == seqField {
			continue
		}
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case int:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

var _ ports.DocumentStore = (*SurrealRepository)(nil)
