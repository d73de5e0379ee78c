package query

import "strings"

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortKey is a validated ordering term.
type SortKey struct {
	Field     string
	Direction Direction
}

func (k SortKey) String() string {
	return k.Field + " " + string(k.Direction)
}

// BuildSort keeps directives whose field is declared in w, in request order.
// Direction is DESC only for "desc" (any case); anything else sorts ascending.
func BuildSort(directives []SortDirective, w *Whitelist) []SortKey {
	keys := make([]SortKey, 0, len(directives))
	for _, d := range directives {
		if _, ok := w.Lookup(d.Field); !ok {
			continue
		}
		dir := Asc
		if strings.EqualFold(d.Direction, "desc") {
			dir = Desc
		}
		keys = append(keys, SortKey{Field: d.Field, Direction: dir})
	}
	return keys
}
