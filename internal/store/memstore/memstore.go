// Package memstore evaluates search plans over rows held in memory. It backs
// tests and small fixed datasets that do not warrant a database.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"SearchAPI/internal/query"
	"SearchAPI/internal/store"
)

// Store keeps rows keyed by field name. Field values are compared after
// coercion to the kind the whitelist declares for them.
type Store struct {
	mu   sync.RWMutex
	w    *query.Whitelist
	rows []store.Row
}

func New(w *query.Whitelist, rows ...store.Row) *Store {
	return &Store{w: w, rows: append([]store.Row(nil), rows...)}
}

// Insert appends rows.
func (s *Store) Insert(rows ...store.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

func (s *Store) Execute(ctx context.Context, plan query.Plan) ([]store.Row, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []store.Row
	for _, r := range s.rows {
		ok, err := s.Match(plan.Predicate, r)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			matched = append(matched, r)
		}
	}

	if len(plan.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, k := range plan.Sort {
				c := compare(matched[i][k.Field], matched[j][k.Field])
				if c == 0 {
					continue
				}
				if k.Direction == query.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	total := int64(len(matched))
	start := plan.Offset()
	// a negative offset means page*size overflowed: the page is past the end
	if start < 0 || start >= total {
		return []store.Row{}, total, nil
	}
	end := start + int64(plan.Size)
	if end > total || end < start {
		end = total
	}
	out := make([]store.Row, 0, end-start)
	for _, r := range matched[start:end] {
		out = append(out, maps.Clone(r))
	}
	return out, total, nil
}

// Match reports whether r satisfies p.
func (s *Store) Match(p query.Predicate, r store.Row) (bool, error) {
	switch n := p.(type) {
	case query.And:
		for _, t := range n.Terms {
			ok, err := s.Match(t, r)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case query.Or:
		for _, t := range n.Terms {
			ok, err := s.Match(t, r)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case query.IsNull:
		if n.Field == query.SoftDeleteField {
			return !r.Deleted(n.Field), nil
		}
		v, ok := r.Get(n.Field)
		return !ok || v == nil, nil
	case query.SubstringCI:
		v, ok := r.Get(n.Field)
		if !ok || v == nil {
			return false, nil
		}
		text, err := query.KindString.Coerce(v)
		if err != nil {
			return false, nil
		}
		return strings.Contains(strings.ToLower(text.(string)), strings.ToLower(n.Text)), nil
	case query.Equals:
		v, ok := r.Get(n.Field)
		if !ok || v == nil {
			return false, nil
		}
		f, ok := s.w.Lookup(n.Field)
		if !ok {
			return false, fmt.Errorf("field %q is not declared", n.Field)
		}
		got, err := f.Kind.Coerce(v)
		if err != nil {
			return false, nil
		}
		return compare(got, n.Value) == 0, nil
	}
	return false, fmt.Errorf("unsupported predicate %T", p)
}

// compare orders values of the same kind; nil sorts after everything.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	switch x := a.(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
