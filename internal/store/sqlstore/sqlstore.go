// Package sqlstore executes search plans through database/sql. It is used
// with SQLite and with any driver whose dialect sqlbuild knows.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"SearchAPI/internal/logger"
	"SearchAPI/internal/query"
	"SearchAPI/internal/registry"
	"SearchAPI/internal/sqlbuild"
	"SearchAPI/internal/store"
)

type Store struct {
	db      *sql.DB
	builder *sqlbuild.Builder
}

func New(db *sql.DB, d sqlbuild.Dialect, e *registry.Entity) *Store {
	return &Store{db: db, builder: sqlbuild.New(d, e)}
}

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
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
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

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("page query: %w", err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanRows(rows *sql.Rows) ([]store.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	out := []store.Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(store.Row, len(cols))
		for i, c := range cols {
			row[c] = store.NormalizeValue(vals[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
