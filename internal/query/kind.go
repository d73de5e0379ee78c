package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the declared value kind of a whitelisted field.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindBoolean
	KindDateTime
)

// kindSpec is one variant of the Kind union: how a raw wire value is coerced
// and which predicate a filter on that kind produces.
type kindSpec struct {
	name   string
	coerce func(raw any) (any, error)
	filter func(field string, value any) Predicate
}

// kinds is the closed set of variants. A new kind is a new row here.
var kinds = map[Kind]kindSpec{
	KindString: {
		name:   "string",
		coerce: coerceString,
		filter: func(field string, value any) Predicate {
			return SubstringCI{Field: field, Text: value.(string)}
		},
	},
	KindNumber: {
		name:   "number",
		coerce: coerceNumber,
		filter: equalsFilter,
	},
	KindBoolean: {
		name:   "boolean",
		coerce: coerceBoolean,
		filter: equalsFilter,
	},
	KindDateTime: {
		name:   "datetime",
		coerce: coerceDateTime,
		filter: equalsFilter,
	},
}

func equalsFilter(field string, value any) Predicate {
	return Equals{Field: field, Value: value}
}

// kindAliases lets whitelist files use the short type names of model YAML.
var kindAliases = map[string]string{
	"int":       "number",
	"float":     "number",
	"decimal":   "number",
	"bool":      "boolean",
	"time":      "datetime",
	"timestamp": "datetime",
}

// ParseKind maps a declared kind name ("string", "number", "boolean", "datetime") to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := kindAliases[name]; ok {
		name = alias
	}
	for k, spec := range kinds {
		if spec.name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown field kind %q", s)
}

func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

func (k Kind) String() string {
	if spec, ok := kinds[k]; ok {
		return spec.name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown field kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Coerce converts a loosely typed wire value into the Go value compared
// against a field of this kind: string, int64/float64, bool or time.Time.
func (k Kind) Coerce(raw any) (any, error) {
	spec, ok := kinds[k]
	if !ok {
		return nil, fmt.Errorf("unknown field kind %d", int(k))
	}
	if raw == nil {
		return nil, fmt.Errorf("expected %s, got null", spec.name)
	}
	return spec.coerce(raw)
}

// FilterPredicate coerces raw and builds the predicate a filter on field produces.
func (k Kind) FilterPredicate(field string, raw any) (Predicate, error) {
	value, err := k.Coerce(raw)
	if err != nil {
		return nil, err
	}
	return kinds[k].filter(field, value), nil
}

func coerceString(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	}
	return nil, fmt.Errorf("expected string, got %T", raw)
}

func coerceNumber(raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float32:
		return normalizeFloat(float64(v))
	case float64:
		return normalizeFloat(v)
	case json.Number:
		return parseNumber(v.String())
	case string:
		return parseNumber(v)
	}
	return nil, fmt.Errorf("expected number, got %T", raw)
}

func parseNumber(s string) (any, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("expected number, got %q", s)
	}
	return normalizeFloat(f)
}

// normalizeFloat rejects NaN/Inf and turns integral values into int64 so
// 10 and "10" compare identically.
func normalizeFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("expected finite number, got %v", f)
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), nil
	}
	return f, nil
}

func coerceBoolean(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("expected boolean, got %q", v)
		}
		return b, nil
	}
	return nil, fmt.Errorf("expected boolean, got %T", raw)
}

// dateTimeLayouts are the accepted ISO-8601 forms; values without a zone are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func coerceDateTime(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return nil, fmt.Errorf("expected ISO-8601 datetime, got %q", v)
	}
	return nil, fmt.Errorf("expected ISO-8601 datetime, got %T", raw)
}
