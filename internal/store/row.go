// Package store holds the row type shared by the search backends.
package store

import "time"

// Row is one entity record keyed by field name.
type Row map[string]any

// Get returns the value of field and whether the row carries it.
func (r Row) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// Deleted reports whether the soft-delete marker is set.
func (r Row) Deleted(marker string) bool {
	v, ok := r[marker]
	if !ok || v == nil {
		return false
	}
	if t, ok := v.(time.Time); ok {
		return !t.IsZero()
	}
	return true
}

// NormalizeValue converts driver values to JSON-friendly ones.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC()
	}
	return v
}
