package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SearchAPI/internal/query"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadDir_ShippedWhitelists(t *testing.T) {
	reg, err := LoadDir(filepath.Join("..", "..", "whitelists"))
	require.NoError(t, err)
	assert.Equal(t, []string{"products", "roles"}, reg.Names())

	products, _ := reg.Get("products")
	assert.Equal(t, "products", products.Table)

	var searchable []string
	for _, f := range products.Whitelist.Searchable() {
		searchable = append(searchable, f.Name)
	}
	// price is flagged searchable but only string fields join global search
	assert.Equal(t, []string{"name", "description"}, searchable)

	f, ok := products.Whitelist.LookupFilterable("createdAt")
	require.True(t, ok)
	assert.Equal(t, query.KindDateTime, f.Kind)
}

func TestLoadDir_ColumnOverrideAndYamlExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.yaml", `
table: sales_orders
fields:
  - name: number
    kind: string
    column: order_no
    searchable: true
    filterable: true
  - name: total
    kind: decimal
    filterable: true
`)
	reg, err := LoadDir(dir)
	require.NoError(t, err)

	e, ok := reg.Get("orders")
	require.True(t, ok)
	assert.Equal(t, "sales_orders", e.Table)
	assert.Equal(t, "order_no", e.ColumnFor("number"))
	assert.Equal(t, "total", e.ColumnFor("total"))

	total, _ := e.Whitelist.Lookup("total")
	assert.Equal(t, query.KindNumber, total.Kind)
}

func TestLoadDir_EmptyDir(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no whitelist files")
}

func TestParseEntity_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown entity key", "table: t\ncolumns: []\n", "unknown key 'columns' in entity"},
		{"unknown field key", "table: t\nfields:\n  - name: a\n    kind: string\n    filtrable: true\n", "unknown key 'filtrable' in field"},
		{"bad kind", "table: t\nfields:\n  - name: a\n    kind: money\n", "line 4"},
		{"scalar fields", "table: t\nfields: name\n", "fields must be a list"},
		{"duplicate field", "table: t\nfields:\n  - name: a\n    kind: string\n  - name: a\n    kind: number\n", "duplicate field"},
		{"no fields", "table: t\n", "no fields declared"},
		{"broken yaml", "table: [\n", "YAML parse error"},
		{"empty", "", "empty YAML"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseEntity("things", []byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestMarshalEntity_RoundTrip(t *testing.T) {
	e := productEntity()
	e.Columns = map[string]string{"name": "title"}

	doc, err := MarshalEntity(e)
	require.NoError(t, err)

	back, err := ParseEntity(e.Name, doc)
	require.NoError(t, err)
	assert.Equal(t, e.Table, back.Table)
	assert.Equal(t, e.Whitelist.Fields(), back.Whitelist.Fields())
	assert.Equal(t, "title", back.ColumnFor("name"))
}
