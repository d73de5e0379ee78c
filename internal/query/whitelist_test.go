package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewWhitelist_Rejects(t *testing.T) {
	cases := map[string][]FieldConfig{
		"empty":        nil,
		"duplicate":    {{Name: "name", Kind: KindString}, {Name: "name", Kind: KindNumber}},
		"bad name":     {{Name: "name; DROP TABLE x", Kind: KindString}},
		"blank name":   {{Name: "", Kind: KindString}},
		"unknown kind": {{Name: "name"}},
	}
	for name, fields := range cases {
		if _, err := NewWhitelist(fields...); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestWhitelistViews(t *testing.T) {
	w := MustWhitelist(
		FieldConfig{Name: "name", Kind: KindString, Searchable: true, Filterable: true},
		FieldConfig{Name: "price", Kind: KindNumber, Searchable: true, Filterable: true},
		FieldConfig{Name: "description", Kind: KindString, Searchable: true},
		FieldConfig{Name: "createdAt", Kind: KindDateTime, Filterable: true},
	)

	if diff := cmp.Diff([]string{"name", "price", "description", "createdAt"}, w.Names()); diff != "" {
		t.Fatalf("Names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "description"}, names(w.Searchable())); diff != "" {
		t.Fatalf("Searchable must keep only string fields (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "price", "createdAt"}, w.FilterableNames()); diff != "" {
		t.Fatalf("FilterableNames (-want +got):\n%s", diff)
	}

	if _, ok := w.Lookup("Name"); ok {
		t.Fatal("lookup must be case-sensitive")
	}
	if _, ok := w.LookupFilterable("description"); ok {
		t.Fatal("description is not filterable")
	}

	fields := w.Fields()
	fields[0].Name = "mutated"
	if _, ok := w.Lookup("name"); !ok {
		t.Fatal("Fields must return a copy")
	}
}

func TestNilWhitelistIsEmpty(t *testing.T) {
	var w *Whitelist
	if w.Len() != 0 || len(w.Names()) != 0 || len(w.Searchable()) != 0 {
		t.Fatal("nil whitelist must behave as empty")
	}
	if _, ok := w.Lookup("name"); ok {
		t.Fatal("nil whitelist has no fields")
	}
}

func TestBuildSort(t *testing.T) {
	directives := []SortDirective{
		{Field: "name", Direction: "DESC"},
		{Field: "ghost", Direction: "desc"},
		{Field: "price", Direction: "sideways"},
		{Field: "name", Direction: "asc"},
	}
	got := BuildSort(directives, productWhitelist())
	want := []SortKey{
		{Field: "name", Direction: Desc},
		{Field: "price", Direction: Asc},
		{Field: "name", Direction: Asc},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("BuildSort (-want +got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	p := (*Request)(nil).Normalize()
	want := Params{Filters: map[string]any{}, Sorts: []SortDirective{}, Page: 0, Size: 10}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("defaults (-want +got):\n%s", diff)
	}

	req := &Request{Search: strPtr(""), Filters: map[string]any{"a": 1}, Page: intPtr(3)}
	p = req.Normalize()
	if p.Page != 3 || p.Size != DefaultSize || p.Search != "" || len(p.Sorts) != 0 {
		t.Fatalf("unexpected params: %+v", p)
	}
	p.Filters["b"] = 2
	if _, leaked := req.Filters["b"]; leaked {
		t.Fatal("Normalize must not share the caller's filter map")
	}
}
