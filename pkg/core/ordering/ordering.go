// Package ordering allocates and applies display order for records in an
// editable list. Order is a hint: gaps and ties are allowed and never repaired.
package ordering

import (
	"cmp"
	"slices"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/fields"
)

// NextOrder returns the order a new record should receive so it sorts after
// every existing record: one past the current maximum, or 0 for an empty list.
func NextOrder(records []domain.Record) int {
	if len(records) == 0 {
		return 0
	}
	highest := records[0].Order
	for _, r := range records[1:] {
		highest = max(highest, r.Order)
	}
	return highest + 1
}

// SortByOrder returns a copy of records sorted ascending by order. Records
// with equal order keep their relative input order.
func SortByOrder(records []domain.Record) []domain.Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b domain.Record) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

// Coerce converts a raw order value from a form or document to an integer,
// falling back to 0 when it is not a finite number.
func Coerce(v any) int {
	return fields.ToInt(v)
}
