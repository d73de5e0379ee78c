package sqlbuild

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"SearchAPI/internal/query"
	"SearchAPI/internal/registry"
)

// IDColumn is selected with every page so rows can be told apart.
const IDColumn = "id"

// Builder turns plans for one entity into SQL. It holds no per-query state.
type Builder struct {
	dialect Dialect
	entity  *registry.Entity
}

func New(d Dialect, e *registry.Entity) *Builder {
	return &Builder{dialect: d, entity: e}
}

func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// column resolves a field to its qualified column on the main table.
func (b *Builder) column(field string) (string, error) {
	col := b.entity.ColumnFor(field)
	if !query.IsIdentifier(col) {
		return "", fmt.Errorf("field %q maps to invalid column %q", field, col)
	}
	return "main." + col, nil
}

// Where converts a predicate tree to a squirrel condition.
func (b *Builder) Where(p query.Predicate) (squirrel.Sqlizer, error) {
	switch n := p.(type) {
	case query.And:
		parts, err := b.terms(n.Terms)
		if err != nil {
			return nil, err
		}
		return squirrel.And(parts), nil
	case query.Or:
		parts, err := b.terms(n.Terms)
		if err != nil {
			return nil, err
		}
		return squirrel.Or(parts), nil
	case query.Equals:
		col, err := b.column(n.Field)
		if err != nil {
			return nil, err
		}
		return squirrel.Eq{col: b.dialect.bind(n.Value)}, nil
	case query.SubstringCI:
		col, err := b.column(n.Field)
		if err != nil {
			return nil, err
		}
		return b.dialect.containsCI(col, n.Text), nil
	case query.IsNull:
		col, err := b.column(n.Field)
		if err != nil {
			return nil, err
		}
		return squirrel.Eq{col: nil}, nil
	case nil:
		return nil, fmt.Errorf("nil predicate")
	}
	return nil, fmt.Errorf("unsupported predicate %T", p)
}

func (b *Builder) terms(in []query.Predicate) ([]squirrel.Sqlizer, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("empty predicate group")
	}
	out := make([]squirrel.Sqlizer, 0, len(in))
	for _, t := range in {
		s, err := b.Where(t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SelectPage builds the SELECT for one page of plan. Every whitelisted field
// is selected under its field name, so rows come back keyed by field.
func (b *Builder) SelectPage(plan query.Plan) (squirrel.SelectBuilder, error) {
	sb := squirrel.SelectBuilder{}.PlaceholderFormat(b.dialect.placeholders())
	sb = sb.From(fmt.Sprintf("%s AS main", b.entity.Table))

	cols := []string{fmt.Sprintf(`main.%s AS "%s"`, IDColumn, IDColumn)}
	for _, f := range b.entity.Whitelist.Fields() {
		col, err := b.column(f.Name)
		if err != nil {
			return sb, err
		}
		cols = append(cols, fmt.Sprintf(`%s AS "%s"`, col, f.Name))
	}
	sb = sb.Columns(cols...)

	where, err := b.Where(plan.Predicate)
	if err != nil {
		return sb, err
	}
	sb = sb.Where(where)

	for _, k := range plan.Sort {
		col, err := b.column(k.Field)
		if err != nil {
			return sb, err
		}
		sb = sb.OrderBy(col + " " + string(k.Direction))
	}

	if plan.Size > 0 {
		sb = sb.Limit(uint64(plan.Size))
	}
	off := plan.Offset()
	if off < 0 {
		return sb, fmt.Errorf("page %d of size %d overflows the row offset", plan.Page, plan.Size)
	}
	if off > 0 {
		sb = sb.Offset(uint64(off))
	}
	return sb, nil
}

// SelectCount builds the COUNT(*) matching p, ignoring paging and order.
func (b *Builder) SelectCount(p query.Predicate) (squirrel.SelectBuilder, error) {
	sb := squirrel.SelectBuilder{}.PlaceholderFormat(b.dialect.placeholders())
	sb = sb.From(fmt.Sprintf("%s AS main", b.entity.Table)).Column("COUNT(*)")

	where, err := b.Where(p)
	if err != nil {
		return sb, err
	}
	return sb.Where(where), nil
}
