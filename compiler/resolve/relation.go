package resolve

import (
	"github.com/go-openapi/inflect"
	"github.com/syssam/mosaic/schema"
)

// resolveRelations synthesizes junction tables from many-to-many directives,
// validates every foreign-key target against the set of known tables, adopts
// the referenced column's type on typeless foreign-key columns, and attaches
// the inbound/outbound edge sets. names is the declaration order of tables;
// every loop follows it so edge ordering is deterministic.
func resolveRelations(tables map[string]*Table, names []string) error {
	for _, name := range names {
		if t := tables[name]; t.M2M != nil {
			if err := synthesizeJunction(t, tables); err != nil {
				return err
			}
		}
	}
	if err := adoptForeignTypes(tables, names); err != nil {
		return err
	}
	for _, name := range names {
		t := tables[name]
		for _, c := range t.Columns {
			if c.ForeignKey == nil {
				continue
			}
			t.ForeignKeys = append(t.ForeignKeys, c.ForeignKey)
			c.ForeignKey.Ref.Refs = append(c.ForeignKey.Ref.Refs, &Ref{From: t, FK: c.ForeignKey})
		}
	}
	for _, name := range names {
		j := tables[name]
		if j.M2M == nil {
			continue
		}
		t1, t2 := tables[j.M2M.Target1.Table], tables[j.M2M.Target2.Table]
		t1.Junctions = append(t1.Junctions, &JunctionEdge{Target: t2, Through: j})
		if t2 != t1 {
			t2.Junctions = append(t2.Junctions, &JunctionEdge{Target: t1, Through: j})
		}
	}
	return nil
}

// synthesizeJunction prepends the two synthesized foreign-key columns to the
// junction table. Columns the junction also declared explicitly override the
// synthesized ones by name, under the ordinary merge rule.
func synthesizeJunction(j *Table, tables map[string]*Table) error {
	fk1, err := junctionColumn(j, j.M2M.Target1, tables)
	if err != nil {
		return err
	}
	fk2, err := junctionColumn(j, j.M2M.Target2, tables)
	if err != nil {
		return err
	}
	if fk2.Name == fk1.Name {
		// Self many-to-many with default naming on both sides.
		fk2.Name += "_2"
	}
	declared := j.Columns
	j.Columns = nil
	j.columns = make(map[string]int, len(declared)+2)
	j.putColumn(fk1)
	j.putColumn(fk2)
	for _, c := range declared {
		j.putColumn(c)
	}
	return nil
}

// junctionColumn builds one synthesized foreign-key column for a junction
// endpoint. The column is named after the target table in snake form plus
// "_id" unless the directive names it explicitly.
func junctionColumn(j *Table, target schema.M2MTarget, tables map[string]*Table) (*Column, error) {
	origin := j.Origins[len(j.Origins)-1]
	ref, ok := tables[target.Table]
	if !ok {
		return nil, &RelationError{
			Table:   j.Name,
			Target:  target.Table + "." + target.Column,
			Origin:  origin,
			Message: "many-to-many target table does not exist",
		}
	}
	if ref.Column(target.Column) == nil {
		return nil, &RelationError{
			Table:   j.Name,
			Target:  target.Table + "." + target.Column,
			Origin:  origin,
			Message: "many-to-many target column does not exist",
		}
	}
	name := target.As
	if name == "" {
		name = inflect.Underscore(target.Table) + "_id"
	}
	c := &Column{
		Name:     name,
		Nullable: false,
		Index:    true,
		Origin:   origin,
	}
	c.ForeignKey = &ForeignKey{
		Column:    c,
		RefTable:  target.Table,
		RefColumn: target.Column,
		SelfRef:   target.Table == j.Name,
	}
	return c, nil
}

// adoptForeignTypes validates foreign-key targets and copies the referenced
// column's expanded type onto typeless foreign-key columns. Adoption runs to
// a fixpoint so chains of foreign-key columns resolve regardless of
// declaration order.
func adoptForeignTypes(tables map[string]*Table, names []string) error {
	type pending struct {
		table *Table
		col   *Column
	}
	var work []pending
	for _, name := range names {
		t := tables[name]
		for _, c := range t.Columns {
			fk := c.ForeignKey
			if fk == nil {
				continue
			}
			ref, ok := tables[fk.RefTable]
			if !ok {
				return &RelationError{
					Table:   t.Name,
					Column:  c.Name,
					Target:  fk.RefTable + "." + fk.RefColumn,
					Origin:  c.Origin,
					Message: "target table does not exist",
				}
			}
			refCol := ref.Column(fk.RefColumn)
			if refCol == nil {
				return &RelationError{
					Table:   t.Name,
					Column:  c.Name,
					Target:  fk.RefTable + "." + fk.RefColumn,
					Origin:  c.Origin,
					Message: "target column does not exist",
				}
			}
			fk.Ref, fk.RefCol = ref, refCol
			if c.Type == nil {
				work = append(work, pending{table: t, col: c})
			}
		}
	}
	for len(work) > 0 {
		next := work[:0]
		for _, p := range work {
			ref := p.col.ForeignKey.RefCol
			if ref.Type == nil {
				next = append(next, p)
				continue
			}
			p.col.Type = ref.Type
			if p.col.Length == 0 {
				p.col.Length = ref.Length
			}
			if p.col.Precision == 0 {
				p.col.Precision = ref.Precision
			}
			if p.col.Scale == 0 {
				p.col.Scale = ref.Scale
			}
		}
		if len(next) == len(work) {
			p := next[0]
			return &RelationError{
				Table:   p.table.Name,
				Column:  p.col.Name,
				Target:  p.col.ForeignKey.RefTable + "." + p.col.ForeignKey.RefColumn,
				Origin:  p.col.Origin,
				Message: "target column never resolves to a storage type",
			}
		}
		work = next
	}
	return nil
}
