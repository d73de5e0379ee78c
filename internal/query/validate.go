package query

import "math"

// Validate checks normalized params against paging limits and the whitelist.
// It does not stop at the first problem: every violation found is reported in
// one *ValidationError so the caller can fix the request in a single round trip.
func Validate(p Params, w *Whitelist) error {
	var v violations

	if p.Page < 0 {
		v.addf("page number must be non-negative, got %d", p.Page)
	}
	if p.Size <= 0 {
		v.addf("page size must be greater than 0, got %d", p.Size)
	} else if p.Size > MaxPageSize {
		v.addf("page size cannot exceed %d, got %d", MaxPageSize, p.Size)
	}
	if p.Page > 0 && p.Size > 0 && int64(p.Page) > math.MaxInt64/int64(p.Size) {
		v.addf("page number %d is too large for page size %d", p.Page, p.Size)
	}

	if w.Len() == 0 {
		v.addf("field whitelist is missing or empty")
	}

	var badSorts []string
	for _, s := range p.Sorts {
		if _, ok := w.Lookup(s.Field); !ok {
			badSorts = append(badSorts, s.Field)
		}
	}
	if len(badSorts) > 0 {
		v.addf("invalid sort fields: %s. Allowed fields: %s", bracket(badSorts), bracket(w.Names()))
	}

	var badFilters []string
	for _, key := range sortedKeys(p.Filters) {
		f, ok := w.LookupFilterable(key)
		if !ok {
			badFilters = append(badFilters, key)
			continue
		}
		if _, err := f.Kind.Coerce(p.Filters[key]); err != nil {
			v.addf("invalid value for filter %s: %v", key, err)
		}
	}
	if len(badFilters) > 0 {
		v.addf("invalid filter fields: %s. Allowed filterable fields: %s", bracket(badFilters), bracket(w.FilterableNames()))
	}

	return v.err()
}

// Plan is what a backend executes: a predicate, an ordering and one page.
type Plan struct {
	Predicate Predicate
	Sort      []SortKey
	Page      int
	Size      int
}

// Offset is the number of rows skipped before the requested page.
func (p Plan) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}
