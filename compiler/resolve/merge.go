package resolve

import (
	"sort"

	"github.com/syssam/mosaic/schema"
)

// mergeTable folds every fragment declaring one logical table, in ascending
// declaration order. Per fragment, mixin columns are appended first, then
// the fragment's own columns. A later column with the name of an earlier one
// replaces it entirely; this is how one contributor extends a table another
// contributor defined.
func mergeTable(name string, frags []*schema.TableFragment, reg *Registry, mixins mixinSet) (*Table, error) {
	t := &Table{Name: name, columns: make(map[string]int)}
	tags := make(map[string]bool)
	for _, f := range frags {
		t.Origins = append(t.Origins, f.Origin)
		if f.Name != "" {
			t.TableName = f.Name
		}
		if f.Label != "" {
			t.Label = f.Label
		}
		if f.Help != "" {
			t.Help = f.Help
		}
		for _, tag := range f.Tags {
			tags[tag] = true
		}
		if f.ManyToMany != nil {
			t.M2M = f.ManyToMany
		}
		for _, ref := range f.Mixins {
			cols, err := mixins.expand(ref, name, f.Origin)
			if err != nil {
				return nil, err
			}
			for _, sc := range cols {
				rc, err := resolveColumn(sc, reg, name)
				if err != nil {
					return nil, err
				}
				t.putColumn(rc)
			}
		}
		for _, sc := range f.Columns {
			rc, err := resolveColumn(sc.Clone(), reg, name)
			if err != nil {
				return nil, err
			}
			t.putColumn(rc)
		}
	}
	if t.TableName == "" {
		t.TableName = physicalName(name)
	}
	t.Tags = make([]string, 0, len(tags))
	for tag := range tags {
		t.Tags = append(t.Tags, tag)
	}
	sort.Strings(t.Tags)
	if err := checkPrimaryKey(t); err != nil {
		return nil, err
	}
	return t, nil
}

func checkPrimaryKey(t *Table) error {
	var pk *Column
	for _, c := range t.Columns {
		if !c.PrimaryKey {
			continue
		}
		if pk != nil {
			return &TableError{
				Table:   t.Name,
				Column:  c.Name,
				Origin:  c.Origin,
				Message: "primary key already declared on column " + pk.Name,
				Cause:   ErrDuplicatePrimaryKey,
			}
		}
		pk = c
	}
	return nil
}

// resolveColumn folds an authored column with its expanded type attributes.
// The column's explicit attributes always win over inherited ones. A column
// that carries a foreign key may omit its type; it adopts the referenced
// column's type during relationship resolution.
func resolveColumn(sc *schema.Column, reg *Registry, table string) (*Column, error) {
	c := &Column{
		Name:          sc.Name,
		PrimaryKey:    sc.PrimaryKey,
		AutoIncrement: sc.AutoIncrement,
		Unique:        sc.Unique,
		Index:         sc.Index,
		Label:         sc.Label,
		Help:          sc.Help,
		Origin:        sc.Origin,
	}
	if fk := sc.ForeignKey; fk != nil {
		refTable, refColumn, err := fk.Split()
		if err != nil {
			return nil, &RelationError{Table: table, Column: sc.Name, Target: fk.Target, Origin: sc.Origin, Message: err.Error()}
		}
		c.ForeignKey = &ForeignKey{
			Column:    c,
			RefTable:  refTable,
			RefColumn: refColumn,
			OnUpdate:  fk.OnUpdate,
			OnDelete:  fk.OnDelete,
			SelfRef:   refTable == table,
		}
	}
	var et *ExpandedType
	if sc.Type != "" {
		var err error
		et, err = reg.Resolve(sc.Type)
		if err != nil {
			return nil, &TypeError{
				Name:    sc.Type,
				Table:   table,
				Column:  sc.Name,
				Origin:  sc.Origin,
				Message: err.Error(),
				Cause:   ErrUnresolvedColumnType,
			}
		}
	} else if c.ForeignKey == nil {
		return nil, &TypeError{
			Table:   table,
			Column:  sc.Name,
			Origin:  sc.Origin,
			Message: "column declares no type and no foreign key",
			Cause:   ErrUnresolvedColumnType,
		}
	}
	c.Type = et
	applyAttributes(c, sc, et)
	return c, nil
}

// applyAttributes layers column attributes over type attributes. Nullability
// defaults to true unless the column is a primary key.
func applyAttributes(c *Column, sc *schema.Column, et *ExpandedType) {
	nullable := !c.PrimaryKey
	var (
		length, precision, scale int
		def                      *string
	)
	if et != nil {
		if et.Nullable != nil {
			nullable = *et.Nullable
		}
		if et.Unique != nil {
			c.Unique = c.Unique || *et.Unique
		}
		if et.Index != nil {
			c.Index = c.Index || *et.Index
		}
		if et.Length != nil {
			length = *et.Length
		}
		if et.Precision != nil {
			precision = *et.Precision
		}
		if et.Scale != nil {
			scale = *et.Scale
		}
		def = et.Default
		if c.Label == "" {
			c.Label = et.Label
		}
		if c.Help == "" {
			c.Help = et.Help
		}
		c.Validator = et.Validator
	}
	if sc.Nullable != nil {
		nullable = *sc.Nullable
	}
	if c.PrimaryKey {
		nullable = false
	}
	if sc.Length != nil {
		length = *sc.Length
	}
	if sc.Precision != nil {
		precision = *sc.Precision
	}
	if sc.Scale != nil {
		scale = *sc.Scale
	}
	if sc.Default != nil {
		def = sc.Default
	}
	c.Nullable = nullable
	c.Length = length
	c.Precision = precision
	c.Scale = scale
	if def != nil {
		c.Default = *def
		c.HasDefault = true
	}
}
