package sqlbuild

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

// Dialect selects placeholder style and the case-insensitive match operator.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// sqliteTimeLayout is how timestamps are stored and compared in SQLite text columns.
const sqliteTimeLayout = "2006-01-02 15:04:05"

func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return 0, fmt.Errorf("unknown SQL dialect %q", s)
}

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

func (d Dialect) placeholders() squirrel.PlaceholderFormat {
	if d == SQLite {
		return squirrel.Question
	}
	return squirrel.Dollar
}

// SQLiteLowerFunc is the Unicode-aware lower() that SQLite connections must
// register (see db.OpenSQLite); the built-in LOWER folds ASCII only.
const SQLiteLowerFunc = "unicode_lower"

// containsCI renders "column contains text, ignoring case". Wildcards in text
// are escaped so the match is always a literal substring.
func (d Dialect) containsCI(column, text string) squirrel.Sqlizer {
	pattern := "%" + escapeLike(text) + "%"
	if d == SQLite {
		return squirrel.Expr(SQLiteLowerFunc+"("+column+") LIKE ? ESCAPE '\\'", strings.ToLower(pattern))
	}
	return squirrel.Expr(column+" ILIKE ? ESCAPE '\\'", pattern)
}

// bind adapts a coerced value to what the driver compares correctly.
func (d Dialect) bind(v any) any {
	if t, ok := v.(time.Time); ok && d == SQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
