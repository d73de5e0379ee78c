package query

import (
	"sort"
)

// BuildPredicate turns normalized params into the predicate for one request:
// global search OR-group, filter AND-group and the soft-delete clause, in
// that order. Filter keys outside the filterable whitelist are dropped here;
// Validate rejects them earlier. A filter value that does not coerce to its
// field's kind yields a *ValidationError.
func BuildPredicate(p Params, w *Whitelist) (Predicate, error) {
	terms := make([]Predicate, 0, 3)

	if p.Search != "" {
		var search []Predicate
		for _, f := range w.Searchable() {
			search = append(search, SubstringCI{Field: f.Name, Text: p.Search})
		}
		if group := AnyOf(search...); group != nil {
			terms = append(terms, group)
		}
	}

	var (
		filters []Predicate
		v       violations
	)
	for _, key := range sortedKeys(p.Filters) {
		f, ok := w.LookupFilterable(key)
		if !ok {
			continue
		}
		pred, err := f.Kind.FilterPredicate(f.Name, p.Filters[key])
		if err != nil {
			v.addf("invalid value for filter %s: %v", key, err)
			continue
		}
		filters = append(filters, pred)
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	if group := AllOf(filters...); group != nil {
		terms = append(terms, group)
	}

	terms = append(terms, IsNull{Field: SoftDeleteField})
	return And{Terms: terms}, nil
}

// sortedKeys gives filters a stable order so equal requests build equal predicates.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
