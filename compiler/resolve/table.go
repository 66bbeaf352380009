package resolve

import (
	"github.com/go-openapi/inflect"
	"github.com/syssam/mosaic/schema"
)

// The following types form the resolved schema consumed by the dependency
// orderer and the code emitter. They are constructed once by the resolution
// pipeline and never mutated afterwards.
type (
	// Table is one resolved logical table: the fold of every fragment that
	// declared it, with mixins expanded, columns de-duplicated by name and
	// relationship edges attached.
	Table struct {
		// Name is the logical name fragments were declared under.
		Name string
		// TableName is the physical table name.
		TableName string
		Label     string
		Help      string
		// Tags is the sorted union of fragment tags.
		Tags []string
		// Columns is the final ordered column list. An overriding column
		// keeps the ordinal position of the column it replaced.
		Columns []*Column
		columns map[string]int
		// Origins lists the documents that contributed fragments, in
		// declaration order.
		Origins []schema.Origin

		// ForeignKeys are the outbound edges resolved from this table's
		// columns, in column order.
		ForeignKeys []*ForeignKey
		// Refs are the inbound reverse edges, in declaration order of the
		// referencing tables.
		Refs []*Ref
		// Junctions are the many-to-many edges this table participates in
		// as an endpoint, through a synthesized junction.
		Junctions []*JunctionEdge

		// M2M carries the directive when this table is itself a junction.
		M2M *schema.ManyToMany
	}

	// Column is a resolved column: the authored declaration folded with its
	// expanded type attributes.
	Column struct {
		Name string
		// Type is the expanded type. Foreign-key columns adopt the type of
		// the referenced column during relationship resolution.
		Type          *ExpandedType
		PrimaryKey    bool
		AutoIncrement bool
		Nullable      bool
		Unique        bool
		Index         bool
		Default       string
		HasDefault    bool
		Length        int
		Precision     int
		Scale         int
		Label         string
		Help          string
		Validator     string
		ForeignKey    *ForeignKey
		Origin        schema.Origin
	}

	// ForeignKey is one outbound edge of a table.
	ForeignKey struct {
		// Column is the owning column.
		Column *Column
		// RefTable and RefColumn name the target as authored.
		RefTable  string
		RefColumn string
		OnUpdate  string
		OnDelete  string
		// Ref and RefCol are filled during relationship resolution.
		Ref    *Table
		RefCol *Column
		// SelfRef reports a table referencing itself; self references never
		// constrain emission order.
		SelfRef bool
	}

	// Ref is an inbound reverse edge: some other table holds a foreign key
	// pointing here.
	Ref struct {
		// From is the referencing table.
		From *Table
		// FK is the foreign key on the referencing table.
		FK *ForeignKey
	}

	// JunctionEdge is a many-to-many convenience edge between two endpoint
	// tables through a synthesized junction.
	JunctionEdge struct {
		// Target is the table on the far side of the junction.
		Target *Table
		// Through is the junction table.
		Through *Table
	}
)

// Column returns the resolved column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	if i, ok := t.columns[name]; ok {
		return t.Columns[i]
	}
	return nil
}

// PrimaryKey returns the primary-key column, or nil if the table has none.
func (t *Table) PrimaryKey() *Column {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c
		}
	}
	return nil
}

// HasTag reports whether the given tag was contributed by any fragment.
func (t *Table) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// physicalName derives the physical table name from the logical one when no
// fragment supplies an explicit name (e.g. "OrderItem" -> "order_items").
func physicalName(logical string) string {
	return inflect.Tableize(logical)
}

// putColumn appends a column, or replaces an earlier column with the same
// name field-for-field while keeping its ordinal position.
func (t *Table) putColumn(c *Column) {
	if i, ok := t.columns[c.Name]; ok {
		t.Columns[i] = c
		return
	}
	t.columns[c.Name] = len(t.Columns)
	t.Columns = append(t.Columns, c)
}
