package query

const (
	DefaultPage = 0
	DefaultSize = 10
	MaxPageSize = 1000
)

// SortDirective is one entry of the client's sort list.
type SortDirective struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Request is the pagination request as it arrives on the wire. Every field
// is optional.
type Request struct {
	Search  *string         `json:"search,omitempty"`
	Filters map[string]any  `json:"filters,omitempty"`
	Sorts   []SortDirective `json:"sorts,omitempty"`
	Page    *int            `json:"page,omitempty"`
	Size    *int            `json:"size,omitempty"`
}

// Params is a Request after default-filling. Filters and Sorts are never nil;
// an empty Search means no global search.
type Params struct {
	Search  string
	Filters map[string]any
	Sorts   []SortDirective
	Page    int
	Size    int
}

// Normalize fills absent page, size, filters and sorts with defaults. A nil
// request yields all defaults. The receiver is not modified.
func (r *Request) Normalize() Params {
	p := Params{
		Filters: map[string]any{},
		Sorts:   []SortDirective{},
		Page:    DefaultPage,
		Size:    DefaultSize,
	}
	if r == nil {
		return p
	}
	if r.Search != nil {
		p.Search = *r.Search
	}
	for k, v := range r.Filters {
		p.Filters[k] = v
	}
	p.Sorts = append(p.Sorts, r.Sorts...)
	if r.Page != nil {
		p.Page = *r.Page
	}
	if r.Size != nil {
		p.Size = *r.Size
	}
	return p
}
