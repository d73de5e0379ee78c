package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"SearchAPI/internal/query"
)

// Entity binds a whitelist to the table that stores the entity.
type Entity struct {
	Name      string
	Table     string
	Whitelist *query.Whitelist
	// Columns overrides the column of a field; unlisted fields map to snake_case.
	Columns map[string]string
}

// ColumnFor resolves the storage column of a field name.
func (e *Entity) ColumnFor(field string) string {
	if col, ok := e.Columns[field]; ok {
		return col
	}
	return SnakeCase(field)
}

// Registry maps entity names to their declarations. It is populated once at
// startup; after that it is only read and needs no locking.
type Registry struct {
	entities map[string]*Entity
}

func New() *Registry {
	return &Registry{entities: map[string]*Entity{}}
}

// Register validates e and adds it. Names must be unique.
func (r *Registry) Register(e *Entity) error {
	if e == nil {
		return errors.New("registry: nil entity")
	}
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("registry: entity name is required")
	}
	if _, dup := r.entities[e.Name]; dup {
		return fmt.Errorf("registry: entity %q already registered", e.Name)
	}
	if !query.IsIdentifier(e.Table) {
		return fmt.Errorf("registry: entity %q has invalid table %q", e.Name, e.Table)
	}
	if e.Whitelist.Len() == 0 {
		return fmt.Errorf("registry: entity %q has no whitelist", e.Name)
	}
	for field, col := range e.Columns {
		if !query.IsIdentifier(col) {
			return fmt.Errorf("registry: entity %q maps field %q to invalid column %q", e.Name, field, col)
		}
	}
	r.entities[e.Name] = e
	return nil
}

func (r *Registry) Get(name string) (*Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Names returns the registered entity names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entities))
	for name := range r.entities {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Len() int {
	return len(r.entities)
}

// SnakeCase converts a camelCase field name to its column name: createdAt -> created_at.
func SnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
