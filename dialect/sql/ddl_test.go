package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/mosaic/compiler/resolve"
	"github.com/syssam/mosaic/schema"
)

func reviewSchema(t *testing.T) *resolve.Snapshot {
	t.Helper()
	notNullable := false
	snap, err := resolve.Resolve(&resolve.Input{
		Tables: []*schema.TableFragment{
			{
				Table: "User",
				Columns: []*schema.Column{
					{Name: "id", Type: "Integer", PrimaryKey: true, AutoIncrement: true},
					{Name: "username", Type: "String", Unique: true, Nullable: &notNullable},
					{Name: "email", Type: "String", Index: true},
					{Name: "bio", Type: "Text"},
				},
			},
			{
				Table: "Review",
				Columns: []*schema.Column{
					{Name: "id", Type: "Integer", PrimaryKey: true},
					{Name: "user_id", Nullable: &notNullable, ForeignKey: &schema.ForeignKey{Target: "User.id", OnDelete: "cascade"}},
				},
			},
		},
	})
	require.NoError(t, err)
	return snap
}

func TestTableDDLSQLite(t *testing.T) {
	snap := reviewSchema(t)
	stmts, err := TableDDL(SQLite, snap.Tables["User"])
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "users" (
  "id" INTEGER PRIMARY KEY AUTOINCREMENT,
  "username" VARCHAR(255) NOT NULL UNIQUE,
  "email" VARCHAR(255),
  "bio" TEXT
)`, stmts[0])
	assert.Equal(t, `CREATE INDEX IF NOT EXISTS "users_email_idx" ON "users" ("email")`, stmts[1])
}

func TestTableDDLForeignKey(t *testing.T) {
	snap := reviewSchema(t)
	stmts, err := TableDDL(Postgres, snap.Tables["Review"])
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], `"user_id" INTEGER NOT NULL`)
	assert.Contains(t, stmts[0], `FOREIGN KEY ("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`)
}

func TestTableDDLMySQLQuoting(t *testing.T) {
	snap := reviewSchema(t)
	stmts, err := TableDDL(MySQL, snap.Tables["User"])
	require.NoError(t, err)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS `users`")
	assert.Contains(t, stmts[0], "`id` INTEGER PRIMARY KEY AUTO_INCREMENT")
}

func TestColumnTypes(t *testing.T) {
	kind := func(k schema.Kind) *resolve.Column {
		return &resolve.Column{Name: "c", Type: &resolve.ExpandedType{Kind: k}}
	}
	for _, tt := range []struct {
		dialect string
		col     *resolve.Column
		want    string
	}{
		{SQLite, kind(schema.KindBigInteger), "INTEGER"},
		{MySQL, kind(schema.KindBigInteger), "BIGINT"},
		{Postgres, kind(schema.KindFloat), "DOUBLE PRECISION"},
		{MySQL, kind(schema.KindFloat), "DOUBLE"},
		{SQLite, kind(schema.KindFloat), "REAL"},
		{MySQL, kind(schema.KindDateTime), "DATETIME"},
		{Postgres, kind(schema.KindDateTime), "TIMESTAMP"},
		{Postgres, kind(schema.KindUUID), "UUID"},
		{SQLite, kind(schema.KindUUID), "CHAR(36)"},
		{Postgres, kind(schema.KindJSON), "JSONB"},
		{MySQL, kind(schema.KindJSON), "JSON"},
		{SQLite, kind(schema.KindJSON), "TEXT"},
		{Postgres, kind(schema.KindBytes), "BYTEA"},
		{MySQL, kind(schema.KindBytes), "BLOB"},
	} {
		got, err := columnType(tt.dialect, tt.col)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s/%s", tt.dialect, tt.col.Type.Kind)
	}

	sized := kind(schema.KindString)
	sized.Length = 50
	got, err := columnType(MySQL, sized)
	require.NoError(t, err)
	assert.Equal(t, "VARCHAR(50)", got)

	num := kind(schema.KindNumeric)
	num.Precision, num.Scale = 10, 2
	got, err = columnType(Postgres, num)
	require.NoError(t, err)
	assert.Equal(t, "NUMERIC(10,2)", got)
}

func TestDefaultExpr(t *testing.T) {
	str := &resolve.Column{
		Type:    &resolve.ExpandedType{Kind: schema.KindString},
		Default: "it's",
	}
	assert.Equal(t, `'it''s'`, defaultExpr(str))

	raw := &resolve.Column{
		Type:    &resolve.ExpandedType{Kind: schema.KindInteger},
		Default: "0",
	}
	assert.Equal(t, "0", defaultExpr(raw))
}

func TestIdentifierValidation(t *testing.T) {
	assert.True(t, isValidIdentifier("users"))
	assert.True(t, isValidIdentifier("_tmp_2"))
	assert.False(t, isValidIdentifier(""))
	assert.False(t, isValidIdentifier("users; DROP TABLE x"))
	assert.False(t, isValidIdentifier("1users"))

	_, err := TableDDL(SQLite, &resolve.Table{Name: "Bad", TableName: "bad name"})
	assert.Error(t, err)
}
