package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SoftDeleteField is the marker checked by the mandatory visibility clause.
const SoftDeleteField = "deletedAt"

// Predicate is a node of a backend-agnostic boolean tree. Nodes are values
// and are never mutated after construction.
type Predicate interface {
	fmt.Stringer
	predicate()
}

// And holds when every term holds.
type And struct {
	Terms []Predicate
}

// Or holds when at least one term holds.
type Or struct {
	Terms []Predicate
}

// Equals compares a field with an already coerced value.
type Equals struct {
	Field string
	Value any
}

// SubstringCI holds when the field contains Text, ignoring case.
type SubstringCI struct {
	Field string
	Text  string
}

// IsNull holds when the field has no value.
type IsNull struct {
	Field string
}

func (And) predicate()         {}
func (Or) predicate()          {}
func (Equals) predicate()      {}
func (SubstringCI) predicate() {}
func (IsNull) predicate()      {}

// AllOf joins terms with AND, skipping nil ones. It returns nil for no terms
// and the term itself for exactly one.
func AllOf(terms ...Predicate) Predicate {
	kept := compact(terms)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return And{Terms: kept}
}

// AnyOf joins terms with OR; same collapsing rules as AllOf. An empty OR is
// never produced because it would reject every row.
func AnyOf(terms ...Predicate) Predicate {
	kept := compact(terms)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return Or{Terms: kept}
}

func compact(terms []Predicate) []Predicate {
	kept := make([]Predicate, 0, len(terms))
	for _, t := range terms {
		if t != nil {
			kept = append(kept, t)
		}
	}
	return kept
}

func (p And) String() string { return joinTerms(p.Terms, " AND ") }
func (p Or) String() string  { return joinTerms(p.Terms, " OR ") }

func (p Equals) String() string {
	return p.Field + " = " + literal(p.Value)
}

func (p SubstringCI) String() string {
	return p.Field + " ILIKE " + literal("%"+p.Text+"%")
}

func (p IsNull) String() string {
	return p.Field + " IS NULL"
}

func joinTerms(terms []Predicate, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = "(" + t.String() + ")"
	}
	return strings.Join(parts, sep)
}

func literal(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case time.Time:
		return "'" + x.Format(time.RFC3339Nano) + "'"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return "NULL"
	}
	return fmt.Sprint(v)
}

// Fields lists the field names referenced by p, depth first, without duplicates.
func Fields(p Predicate) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Predicate)
	walk = func(p Predicate) {
		var name string
		switch n := p.(type) {
		case And:
			for _, t := range n.Terms {
				walk(t)
			}
			return
		case Or:
			for _, t := range n.Terms {
				walk(t)
			}
			return
		case Equals:
			name = n.Field
		case SubstringCI:
			name = n.Field
		case IsNull:
			name = n.Field
		default:
			return
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	if p != nil {
		walk(p)
	}
	return out
}
