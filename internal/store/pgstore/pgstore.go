// Package pgstore executes search plans on PostgreSQL through pgx.
package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"SearchAPI/internal/logger"
	"SearchAPI/internal/query"
	"SearchAPI/internal/registry"
	"SearchAPI/internal/sqlbuild"
	"SearchAPI/internal/store"
)

// Querier is the part of *pgxpool.Pool the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the search backend of one entity table.
type Store struct {
	q       Querier
	builder *sqlbuild.Builder
}

func New(q Querier, e *registry.Entity) *Store {
	return &Store{q: q, builder: sqlbuild.New(sqlbuild.Postgres, e)}
}

// Execute counts the matching rows, then fetches the requested page.
func (s *Store) Execute(ctx context.Context, plan query.Plan) ([]store.Row, int64, error) {
	countQ, err := s.builder.SelectCount(plan.Predicate)
	if err != nil {
		return nil, 0, err
	}
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count SQL: %w", err)
	}
	var total int64
	if err := s.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count query: %w", err)
	}
	if total == 0 {
		return []store.Row{}, 0, nil
	}

	pageQ, err := s.builder.SelectPage(plan)
	if err != nil {
		return nil, 0, err
	}
	sqlText, args, err := pageQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build SQL: %w", err)
	}
	logger.Debug("page_sql", map[string]any{"sql": sqlText, "args": args})

	rows, err := s.q.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("page query: %w", err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, 0, fmt.Errorf("scan rows: %w", err)
	}

	out := make([]store.Row, 0, len(maps))
	for _, m := range maps {
		row := make(store.Row, len(m))
		for k, v := range m {
			row[k] = normalize(v)
		}
		out = append(out, row)
	}
	return out, total, nil
}

// normalize turns NUMERIC into float64 so rows encode as plain JSON numbers.
func normalize(v any) any {
	if n, ok := v.(pgtype.Numeric); ok {
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	}
	return store.NormalizeValue(v)
}
