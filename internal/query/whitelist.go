package query

import (
	"errors"
	"fmt"
	"regexp"
)

// FieldConfig declares one queryable field of an entity.
type FieldConfig struct {
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`
	Searchable bool   `json:"searchable"`
	Filterable bool   `json:"filterable"`
}

// identPattern keeps field names usable as bare SQL identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s is a plain identifier (letters, digits, underscore).
func IsIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

// Whitelist is the ordered, immutable set of fields an entity exposes to
// search, filter and sort. It is safe for concurrent use.
type Whitelist struct {
	fields     []FieldConfig
	index      map[string]int
	searchable []FieldConfig
	filterable []FieldConfig
}

// NewWhitelist validates fields and precomputes the derived views.
func NewWhitelist(fields ...FieldConfig) (*Whitelist, error) {
	if len(fields) == 0 {
		return nil, errors.New("whitelist: no fields declared")
	}
	w := &Whitelist{
		fields: make([]FieldConfig, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if !IsIdentifier(f.Name) {
			return nil, fmt.Errorf("whitelist: invalid field name %q", f.Name)
		}
		if !f.Kind.Valid() {
			return nil, fmt.Errorf("whitelist: field %q has unknown kind %d", f.Name, int(f.Kind))
		}
		if _, dup := w.index[f.Name]; dup {
			return nil, fmt.Errorf("whitelist: duplicate field %q", f.Name)
		}
		w.index[f.Name] = len(w.fields)
		w.fields = append(w.fields, f)
		if f.Searchable && f.Kind == KindString {
			w.searchable = append(w.searchable, f)
		}
		if f.Filterable {
			w.filterable = append(w.filterable, f)
		}
	}
	return w, nil
}

// MustWhitelist is NewWhitelist for static declarations; it panics on error.
func MustWhitelist(fields ...FieldConfig) *Whitelist {
	w, err := NewWhitelist(fields...)
	if err != nil {
		panic(err)
	}
	return w
}

// Len is nil-safe so a missing whitelist reads as empty.
func (w *Whitelist) Len() int {
	if w == nil {
		return 0
	}
	return len(w.fields)
}

// Fields returns a copy of the declared fields in declaration order.
func (w *Whitelist) Fields() []FieldConfig {
	if w == nil {
		return nil
	}
	return append([]FieldConfig(nil), w.fields...)
}

// Lookup finds a field by exact, case-sensitive name.
func (w *Whitelist) Lookup(name string) (FieldConfig, bool) {
	if w == nil {
		return FieldConfig{}, false
	}
	i, ok := w.index[name]
	if !ok {
		return FieldConfig{}, false
	}
	return w.fields[i], true
}

// LookupFilterable finds a field that may be used as a filter key.
func (w *Whitelist) LookupFilterable(name string) (FieldConfig, bool) {
	f, ok := w.Lookup(name)
	if !ok || !f.Filterable {
		return FieldConfig{}, false
	}
	return f, true
}

// Searchable returns the fields used by global search: searchable string fields.
func (w *Whitelist) Searchable() []FieldConfig {
	if w == nil {
		return nil
	}
	return append([]FieldConfig(nil), w.searchable...)
}

func (w *Whitelist) Filterable() []FieldConfig {
	if w == nil {
		return nil
	}
	return append([]FieldConfig(nil), w.filterable...)
}

func (w *Whitelist) Names() []string {
	return names(w.Fields())
}

func (w *Whitelist) FilterableNames() []string {
	return names(w.Filterable())
}

func names(fields []FieldConfig) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}
