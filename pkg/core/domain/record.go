package domain

import (
	"encoding/json"
	"maps"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/fields"
)

// Bookkeeping keys stored alongside content fields in every document.
const (
	KeyID        = "id"
	KeyOrder     = "order"
	KeyCreatedAt = "createdAt"
	KeyUpdatedAt = "updatedAt"
)

// Document is a stored document: its storage-assigned identifier and raw data.
type Document struct {
	ID   string
	Data map[string]any
}

// Record represents one item in an editable list section (a project, a blog
// post, a testimonial, ...). Order is a display hint, not a key.
type Record struct {
	ID        string         `json:"id,omitempty"`
	Order     int            `json:"order"`
	CreatedAt string         `json:"createdAt,omitempty"` // ISO-8601, advisory
	UpdatedAt string         `json:"updatedAt,omitempty"` // ISO-8601, advisory
	Fields    map[string]any `json:"-"`
}

// Draft is a pending write from an editor form. Fields holds raw form values
// and may carry a raw "order" of any JSON type.
type Draft struct {
	ID     string
	Fields map[string]any
}

// RecordFromDocument splits a stored document into bookkeeping and content
// fields. A missing or non-numeric order becomes 0.
func RecordFromDocument(doc Document) Record {
	rec := Record{ID: doc.ID, Fields: make(map[string]any, len(doc.Data))}
	for k, v := range doc.Data {
		switch k {
		case KeyID:
			// the storage identifier wins over any stored copy
		case KeyOrder:
			rec.Order = fields.ToInt(v)
		case KeyCreatedAt:
			rec.CreatedAt, _ = v.(string)
		case KeyUpdatedAt:
			rec.UpdatedAt, _ = v.(string)
		default:
			rec.Fields[k] = v
		}
	}
	return rec
}

// MarshalJSON flattens content fields next to the bookkeeping fields.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+4)
	maps.Copy(out, r.Fields)
	if r.ID != "" {
		out[KeyID] = r.ID
	}
	out[KeyOrder] = r.Order
	if r.CreatedAt != "" {
		out[KeyCreatedAt] = r.CreatedAt
	}
	if r.UpdatedAt != "" {
		out[KeyUpdatedAt] = r.UpdatedAt
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the flat form produced by MarshalJSON and the form
// values posted by the admin UI. The identifier is lifted out; every other
// key, including a raw order, stays in Fields.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if id, ok := raw[KeyID].(string); ok {
		d.ID = id
	}
	delete(raw, KeyID)
	if raw == nil {
		raw = map[string]any{}
	}
	d.Fields = raw
	return nil
}
