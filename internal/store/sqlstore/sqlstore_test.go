package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SearchAPI/internal/db"
	"SearchAPI/internal/query"
	"SearchAPI/internal/registry"
	"SearchAPI/internal/search"
	"SearchAPI/internal/sqlbuild"
	"SearchAPI/internal/store"
)

const schema = `CREATE TABLE products (
	id          INTEGER PRIMARY KEY,
	name        TEXT,
	price       NUMERIC(12, 2),
	description TEXT,
	is_active   BOOLEAN NOT NULL DEFAULT 1,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at  TIMESTAMP
)`

func productEntity() *registry.Entity {
	return &registry.Entity{
		Name:  "products",
		Table: "products",
		Whitelist: query.MustWhitelist(
			query.FieldConfig{Name: "name", Kind: query.KindString, Searchable: true, Filterable: true},
			query.FieldConfig{Name: "price", Kind: query.KindNumber, Searchable: true, Filterable: true},
			query.FieldConfig{Name: "description", Kind: query.KindString, Searchable: true, Filterable: true},
			query.FieldConfig{Name: "isActive", Kind: query.KindBoolean, Filterable: true},
			query.FieldConfig{Name: "createdAt", Kind: query.KindDateTime, Filterable: true},
		),
	}
}

func openProducts(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(schema)
	require.NoError(t, err)

	fixtures := []struct {
		id          int
		name        string
		price       float64
		description string
		active      bool
		createdAt   string
		deletedAt   any
	}{
		{1, "Widget", 9.99, "small blue widget", true, "2024-01-05 10:00:00", nil},
		{2, "Gadget", 20, "has a widget inside", true, "2024-01-06 10:00:00", nil},
		{3, "Old widget", 9.99, "discontinued", false, "2023-12-01 10:00:00", "2024-02-01 00:00:00"},
		{4, "Sprocket", 4.5, "100% steel", false, "2024-01-07 10:00:00", nil},
		{5, "wIDGET pro", 35, "", true, "2024-01-08 10:00:00", nil},
		{6, "Éclair", 3.2, "pâtisserie", true, "2024-01-09 10:00:00", nil},
	}
	for _, f := range fixtures {
		_, err := conn.Exec(
			`INSERT INTO products (id, name, price, description, is_active, created_at, deleted_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			f.id, f.name, f.price, f.description, f.active, f.createdAt, f.deletedAt,
		)
		require.NoError(t, err)
	}
	return conn
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func runSearch(t *testing.T, db *sql.DB, req *query.Request) *search.Page[store.Row] {
	t.Helper()
	e := productEntity()
	page, err := search.Search[store.Row](context.Background(), req, e.Whitelist, New(db, sqlbuild.SQLite, e))
	require.NoError(t, err)
	return page
}

func names(rows []store.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r["name"].(string))
	}
	return out
}

func TestSearch_SoftDeletedRowsNeverVisible(t *testing.T) {
	db := openProducts(t)

	page := runSearch(t, db, &query.Request{Sorts: []query.SortDirective{{Field: "name"}}})
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	assert.NotContains(t, names(page.Items), "Old widget")

	page = runSearch(t, db, &query.Request{Filters: map[string]any{"isActive": false}})
	assert.Equal(t, []string{"Sprocket"}, names(page.Items))
}

func TestSearch_GlobalSearchIsCaseInsensitiveOverStringFields(t *testing.T) {
	db := openProducts(t)

	page := runSearch(t, db, &query.Request{
		Search: strPtr("WIDGET"),
		Sorts:  []query.SortDirective{{Field: "price", Direction: "DESC"}},
	})
	assert.Equal(t, []string{"wIDGET pro", "Gadget", "Widget"}, names(page.Items))
}

func TestSearch_CaseInsensitiveBeyondASCII(t *testing.T) {
	db := openProducts(t)

	for _, text := range []string{"éclair", "ÉCLAIR", "Éclair", "CLAI"} {
		page := runSearch(t, db, &query.Request{Search: strPtr(text)})
		assert.Equal(t, []string{"Éclair"}, names(page.Items), text)
	}

	page := runSearch(t, db, &query.Request{Filters: map[string]any{"description": "PÂTISS"}})
	assert.Equal(t, []string{"Éclair"}, names(page.Items))
}

func TestSearch_FiltersCombineWithAnd(t *testing.T) {
	db := openProducts(t)

	page := runSearch(t, db, &query.Request{
		Search:  strPtr("wid"),
		Filters: map[string]any{"price": 9.99},
		Sorts:   []query.SortDirective{{Field: "name", Direction: "desc"}},
	})
	assert.Equal(t, []string{"Widget"}, names(page.Items))
	assert.Equal(t, int64(1), page.TotalElements)

	page = runSearch(t, db, &query.Request{Filters: map[string]any{"price": "20"}})
	assert.Equal(t, []string{"Gadget"}, names(page.Items))

	page = runSearch(t, db, &query.Request{Filters: map[string]any{"createdAt": "2024-01-07T10:00:00Z"}})
	assert.Equal(t, []string{"Sprocket"}, names(page.Items))
}

func TestSearch_WildcardsAreLiteral(t *testing.T) {
	db := openProducts(t)

	page := runSearch(t, db, &query.Request{Filters: map[string]any{"description": "100%"}})
	assert.Equal(t, []string{"Sprocket"}, names(page.Items))

	page = runSearch(t, db, &query.Request{Search: strPtr("%")})
	assert.Equal(t, []string{"Sprocket"}, names(page.Items))
}

func TestSearch_Paging(t *testing.T) {
	db := openProducts(t)

	page := runSearch(t, db, &query.Request{
		Sorts: []query.SortDirective{{Field: "price"}},
		Page:  intPtr(1),
		Size:  intPtr(3),
	})
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, []string{"Gadget", "wIDGET pro"}, names(page.Items))

	page = runSearch(t, db, &query.Request{Page: intPtr(5), Size: intPtr(3)})
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(5), page.TotalElements)
}

func TestSearch_RowsKeyedByField(t *testing.T) {
	db := openProducts(t)

	page := runSearch(t, db, &query.Request{Filters: map[string]any{"name": "sprocket"}})
	require.Len(t, page.Items, 1)
	row := page.Items[0]
	for _, field := range []string{"id", "name", "price", "description", "isActive", "createdAt"} {
		_, ok := row[field]
		assert.True(t, ok, "missing %s", field)
	}
	_, ok := row["created_at"]
	assert.False(t, ok)
}

func TestExecute_CountFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("database is locked")
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products AS main`).WillReturnError(boom)

	e := productEntity()
	_, err = search.Search[store.Row](context.Background(), nil, e.Whitelist, New(db, sqlbuild.SQLite, e))

	var execErr *search.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_PageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT main\.id AS "id"`).WillReturnError(boom)

	e := productEntity()
	_, err = search.Search[store.Row](context.Background(), nil, e.Whitelist, New(db, sqlbuild.SQLite, e))

	var execErr *search.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
