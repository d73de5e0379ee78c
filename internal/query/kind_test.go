package query

import (
	"encoding/json"
	"testing"
	"time"
)

func TestKindCoerce(t *testing.T) {
	cases := []struct {
		name string
		kind Kind
		raw  any
		want any
	}{
		{"string passthrough", KindString, "Lamp", "Lamp"},
		{"string from number", KindString, 12.5, "12.5"},
		{"string from bool", KindString, true, "true"},
		{"number from float", KindNumber, 9.99, 9.99},
		{"integral float", KindNumber, 10.0, int64(10)},
		{"number from string", KindNumber, " 42 ", int64(42)},
		{"decimal string", KindNumber, "9.99", 9.99},
		{"json number", KindNumber, json.Number("123456789012345678"), int64(123456789012345678)},
		{"number from int", KindNumber, 7, int64(7)},
		{"bool", KindBoolean, false, false},
		{"bool from string", KindBoolean, "TRUE", true},
		{"datetime zoned", KindDateTime, "2025-01-01T10:00:00+02:00", time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)},
		{"datetime local", KindDateTime, "2025-01-01T10:00:00", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"date only", KindDateTime, "2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.kind.Coerce(tc.raw)
			if err != nil {
				t.Fatalf("Coerce(%v): %v", tc.raw, err)
			}
			if gt, ok := got.(time.Time); ok {
				if !gt.Equal(tc.want.(time.Time)) {
					t.Fatalf("got %v, want %v", gt, tc.want)
				}
				return
			}
			if got != tc.want {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestKindCoerceRejects(t *testing.T) {
	cases := []struct {
		name string
		kind Kind
		raw  any
	}{
		{"null", KindString, nil},
		{"object as string", KindString, map[string]any{"a": 1}},
		{"word as number", KindNumber, "cheap"},
		{"bool as number", KindNumber, true},
		{"yes as bool", KindBoolean, "yes"},
		{"number as bool", KindBoolean, 1.0},
		{"bad date", KindDateTime, "01/02/2025"},
		{"number as date", KindDateTime, 20250101.0},
		{"unknown kind", Kind(99), "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got, err := tc.kind.Coerce(tc.raw); err == nil {
				t.Fatalf("expected error, got %#v", got)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"string":   KindString,
		"Number":   KindNumber,
		"int":      KindNumber,
		"bool":     KindBoolean,
		"boolean":  KindBoolean,
		"datetime": KindDateTime,
		"time":     KindDateTime,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseKind("uuid"); err == nil {
		t.Fatal("expected error for unsupported kind")
	}
}

func TestKindJSON(t *testing.T) {
	b, err := json.Marshal(FieldConfig{Name: "price", Kind: KindNumber, Filterable: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"price","kind":"number","searchable":false,"filterable":true}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}

	var f FieldConfig
	if err := json.Unmarshal([]byte(`{"name":"createdAt","kind":"datetime"}`), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Kind != KindDateTime {
		t.Fatalf("got kind %v", f.Kind)
	}
}
