package sql

import (
	"fmt"
	"strings"

	"github.com/syssam/mosaic/compiler/resolve"
	"github.com/syssam/mosaic/schema"
)

// TableDDL renders the statements that create one resolved table: the
// CREATE TABLE itself followed by one CREATE INDEX per indexed column.
// Statements are rendered IF NOT EXISTS so bootstrap stays re-entrant.
func TableDDL(dialect string, t *resolve.Table) ([]string, error) {
	if !isValidIdentifier(t.TableName) {
		return nil, fmt.Errorf("sql: invalid table name %q", t.TableName)
	}
	var defs []string
	for _, c := range t.Columns {
		def, err := columnDef(dialect, t, c)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	for _, fk := range t.ForeignKeys {
		defs = append(defs, foreignKeyDef(dialect, fk))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", quote(dialect, t.TableName), strings.Join(defs, ",\n  "))
	stmts := []string{b.String()}
	for _, c := range t.Columns {
		if !c.Index || c.Unique || c.PrimaryKey {
			continue
		}
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			quote(dialect, t.TableName+"_"+c.Name+"_idx"),
			quote(dialect, t.TableName),
			quote(dialect, c.Name),
		))
	}
	return stmts, nil
}

func columnDef(dialect string, t *resolve.Table, c *resolve.Column) (string, error) {
	if !isValidIdentifier(c.Name) {
		return "", fmt.Errorf("sql: table %q: invalid column name %q", t.TableName, c.Name)
	}
	ct, err := columnType(dialect, c)
	if err != nil {
		return "", fmt.Errorf("sql: table %q column %q: %w", t.TableName, c.Name, err)
	}
	var b strings.Builder
	b.WriteString(quote(dialect, c.Name))
	b.WriteString(" ")
	b.WriteString(ct)
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
		if c.AutoIncrement && dialect == MySQL {
			b.WriteString(" AUTO_INCREMENT")
		}
		if c.AutoIncrement && dialect == SQLite {
			b.WriteString(" AUTOINCREMENT")
		}
	} else if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.Unique && !c.PrimaryKey {
		b.WriteString(" UNIQUE")
	}
	if c.HasDefault {
		b.WriteString(" DEFAULT ")
		b.WriteString(defaultExpr(c))
	}
	return b.String(), nil
}

func foreignKeyDef(dialect string, fk *resolve.ForeignKey) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FOREIGN KEY (%s) REFERENCES %s (%s)",
		quote(dialect, fk.Column.Name),
		quote(dialect, fk.Ref.TableName),
		quote(dialect, fk.RefCol.Name),
	)
	if fk.OnUpdate != "" {
		b.WriteString(" ON UPDATE ")
		b.WriteString(strings.ToUpper(fk.OnUpdate))
	}
	if fk.OnDelete != "" {
		b.WriteString(" ON DELETE ")
		b.WriteString(strings.ToUpper(fk.OnDelete))
	}
	return b.String()
}

// defaultExpr renders a default value. Numeric and boolean defaults pass
// through raw; everything else is quoted and escaped.
func defaultExpr(c *resolve.Column) string {
	if c.Type != nil && (c.Type.Kind.Numeric() || c.Type.Kind == schema.KindBoolean) {
		return c.Default
	}
	return "'" + escapeStringValue(c.Default) + "'"
}

// columnType maps a resolved column to the dialect's storage type.
func columnType(dialect string, c *resolve.Column) (string, error) {
	if c.Type == nil {
		return "", fmt.Errorf("column has no resolved type")
	}
	length := c.Length
	switch c.Type.Kind {
	case schema.KindString:
		if length == 0 {
			length = 255
		}
		return fmt.Sprintf("VARCHAR(%d)", length), nil
	case schema.KindText:
		return "TEXT", nil
	case schema.KindInteger:
		return "INTEGER", nil
	case schema.KindBigInteger:
		if dialect == SQLite {
			return "INTEGER", nil
		}
		return "BIGINT", nil
	case schema.KindSmallInteger:
		if dialect == SQLite {
			return "INTEGER", nil
		}
		return "SMALLINT", nil
	case schema.KindFloat:
		if dialect == MySQL {
			return "DOUBLE", nil
		}
		if dialect == SQLite {
			return "REAL", nil
		}
		return "DOUBLE PRECISION", nil
	case schema.KindNumeric:
		if c.Precision > 0 {
			scale := c.Scale
			return fmt.Sprintf("NUMERIC(%d,%d)", c.Precision, scale), nil
		}
		return "NUMERIC", nil
	case schema.KindBoolean:
		return "BOOLEAN", nil
	case schema.KindDate:
		return "DATE", nil
	case schema.KindDateTime:
		if dialect == MySQL {
			return "DATETIME", nil
		}
		return "TIMESTAMP", nil
	case schema.KindTime:
		return "TIME", nil
	case schema.KindUUID:
		if dialect == Postgres {
			return "UUID", nil
		}
		return "CHAR(36)", nil
	case schema.KindJSON:
		switch dialect {
		case Postgres:
			return "JSONB", nil
		case MySQL:
			return "JSON", nil
		default:
			return "TEXT", nil
		}
	case schema.KindBytes:
		if dialect == Postgres {
			return "BYTEA", nil
		}
		return "BLOB", nil
	}
	return "", fmt.Errorf("unmapped storage kind %s", c.Type.Kind)
}
