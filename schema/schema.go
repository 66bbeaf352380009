// Package schema defines the raw fragment records that contributors declare
// in schema documents: custom field types, reusable column groups (mixins),
// table fragments and many-to-many directives.
//
// Fragments are parsed once per run and never mutated. Resolution of types,
// mixins, merging and relationships happens in compiler/resolve; this package
// only models what was authored and where it came from.
package schema

import (
	"fmt"
	"strings"
)

// Origin identifies the document a fragment was authored in, so errors can
// point a human back at the contributing plugin.
type Origin struct {
	Plugin string `yaml:"-"`
	File   string `yaml:"-"`
}

// String returns the origin in "plugin/file" form.
func (o Origin) String() string {
	if o.Plugin == "" && o.File == "" {
		return "<unknown>"
	}
	if o.File == "" {
		return o.Plugin
	}
	return o.Plugin + "/" + o.File
}

// TypeDef declares a custom field type, optionally based on another declared
// type or a primitive. Unset attributes are inherited from the base chain.
type TypeDef struct {
	Name      string  `yaml:"-"`
	Base      string  `yaml:"base"`
	Length    *int    `yaml:"length"`
	Precision *int    `yaml:"precision"`
	Scale     *int    `yaml:"scale"`
	Nullable  *bool   `yaml:"nullable"`
	Unique    *bool   `yaml:"unique"`
	Index     *bool   `yaml:"index"`
	Default   *string `yaml:"default"`
	Validator string  `yaml:"validator"`
	Label     string  `yaml:"label"`
	Help      string  `yaml:"help"`

	Origin Origin `yaml:"-"`
}

// MixinDef declares a named, flat, reusable group of columns. Mixins carry
// no foreign keys and no many-to-many semantics.
type MixinDef struct {
	Name    string    `yaml:"-"`
	Label   string    `yaml:"label"`
	Help    string    `yaml:"help"`
	Columns []*Column `yaml:"columns"`

	Origin Origin `yaml:"-"`
}

// MixinRef references a mixin from a table fragment, optionally prefixing
// every expanded column name.
type MixinRef struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
}

// UnmarshalYAML accepts both the scalar form ("Timestamps") and the mapping
// form ({name: Timestamps, prefix: audit_}).
func (m *MixinRef) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		m.Name = name
		return nil
	}
	type plain MixinRef
	return unmarshal((*plain)(m))
}

// ForeignKey declares a single-column reference to another table. Target is
// dotted "Table.column" form.
type ForeignKey struct {
	Target   string `yaml:"target"`
	OnUpdate string `yaml:"onupdate"`
	OnDelete string `yaml:"ondelete"`
}

// Split returns the table and column parts of the target.
func (fk *ForeignKey) Split() (table, column string, err error) {
	parts := strings.SplitN(fk.Target, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("foreign key target %q is not in Table.column form", fk.Target)
	}
	return parts[0], parts[1], nil
}

// Column declares one column of a table fragment or mixin. A column that
// carries a foreign key may omit its type; it takes the storage type of the
// referenced column.
type Column struct {
	Name          string      `yaml:"name"`
	Type          string      `yaml:"type"`
	PrimaryKey    bool        `yaml:"primary_key"`
	AutoIncrement bool        `yaml:"autoincrement"`
	Nullable      *bool       `yaml:"nullable"`
	Unique        bool        `yaml:"unique"`
	Index         bool        `yaml:"index"`
	Default       *string     `yaml:"default"`
	Length        *int        `yaml:"length"`
	Precision     *int        `yaml:"precision"`
	Scale         *int        `yaml:"scale"`
	Label         string      `yaml:"label"`
	Help          string      `yaml:"help"`
	Prefix        string      `yaml:"prefix"`
	ForeignKey    *ForeignKey `yaml:"foreign_key"`

	Origin Origin `yaml:"-"`
}

// Clone returns a deep copy of the column. Expansion and merging never alias
// authored column records.
func (c *Column) Clone() *Column {
	cc := *c
	cc.Nullable = clonePtr(c.Nullable)
	cc.Default = clonePtr(c.Default)
	cc.Length = clonePtr(c.Length)
	cc.Precision = clonePtr(c.Precision)
	cc.Scale = clonePtr(c.Scale)
	if c.ForeignKey != nil {
		fk := *c.ForeignKey
		cc.ForeignKey = &fk
	}
	return &cc
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// M2MTarget is one endpoint of a many-to-many directive. As optionally names
// the synthesized foreign-key column; the default is the target table name
// in snake form plus "_id".
type M2MTarget struct {
	Table  string `yaml:"table"`
	Column string `yaml:"column"`
	As     string `yaml:"as"`
}

// ManyToMany declares that the enclosing table is a junction between two
// targets. The fragment's own columns become the junction's extra columns.
type ManyToMany struct {
	Target1 M2MTarget `yaml:"target1"`
	Target2 M2MTarget `yaml:"target2"`
}

// TableFragment is one contributor's partial declaration of a logical table.
// Fragments targeting the same logical name are merged in declaration order.
type TableFragment struct {
	// Table is the logical name (the document mapping key, e.g. "User").
	Table string `yaml:"-"`
	// Name overrides the physical table name. Empty means derived.
	Name       string      `yaml:"name"`
	Label      string      `yaml:"label"`
	Help       string      `yaml:"help"`
	Tags       []string    `yaml:"tags"`
	Mixins     []*MixinRef `yaml:"mixins"`
	Columns    []*Column   `yaml:"columns"`
	ManyToMany *ManyToMany `yaml:"many_to_many"`

	Origin Origin `yaml:"-"`
	// Index is the global declaration order assigned by the loader.
	Index int `yaml:"-"`
}
