// Package sql provides the SQL side of a resolved schema: dialect names,
// identifier handling, and DDL rendering used by the database bootstrap.
package sql

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// Supported dialects.
const (
	SQLite   = "sqlite"
	MySQL    = "mysql"
	Postgres = "postgres"
)

// validIdentifierRe validates SQL identifiers (alphanumeric and underscores).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// escapeStringValue escapes a string value for safe use in SQL. It escapes
// both single quotes (by doubling) and backslashes (for MySQL compatibility).
func escapeStringValue(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return s
}

// quote quotes an identifier for the given dialect.
func quote(dialect, ident string) string {
	if dialect == MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

// Driver wraps a database/sql connection with its dialect name.
type Driver struct {
	*sql.DB
	dialect string
}

// Open wraps database/sql.Open, mapping the mosaic dialect name to the
// registered driver name. The caller is responsible for importing the
// driver package (modernc.org/sqlite, go-sql-driver/mysql or lib/pq).
func Open(dialect, dsn string) (*Driver, error) {
	name, err := driverName(dialect)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, err
	}
	return NewDriver(dialect, db), nil
}

// NewDriver wraps an existing connection with a dialect name.
func NewDriver(dialect string, db *sql.DB) *Driver {
	return &Driver{DB: db, dialect: dialect}
}

// Dialect returns the dialect name of the driver.
func (d *Driver) Dialect() string { return d.dialect }

func driverName(dialect string) (string, error) {
	switch dialect {
	case SQLite:
		return "sqlite", nil
	case MySQL:
		return "mysql", nil
	case Postgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("sql: unsupported dialect %q", dialect)
	}
}
