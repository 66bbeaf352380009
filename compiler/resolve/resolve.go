// Package resolve implements the schema resolution pipeline: custom type
// expansion, mixin expansion, fragment merging, relationship resolution and
// dependency ordering.
//
// Resolution is a single-pass batch computation. Each run owns an isolated,
// immutable set of fragments and produces an immutable Snapshot; running
// twice over unchanged inputs yields a structurally identical result.
package resolve

import "github.com/syssam/mosaic/schema"

// Input is the full fragment set of one run, in contributor declaration
// order. It is produced by the document loader and never mutated here.
type Input struct {
	Types  []*schema.TypeDef
	Mixins []*schema.MixinDef
	Tables []*schema.TableFragment
}

// Snapshot is the terminal, read-only result of resolution: every merged
// table (junctions included) plus the dependency order for emission.
type Snapshot struct {
	// Tables maps logical table names to their resolved form.
	Tables map[string]*Table
	// Order is the emission order: a table always follows the tables it
	// references.
	Order []string
	// Types is the registry the run resolved against, memoized.
	Types *Registry
}

// TablesInOrder returns the resolved tables in emission order.
func (s *Snapshot) TablesInOrder() []*Table {
	out := make([]*Table, len(s.Order))
	for i, name := range s.Order {
		out[i] = s.Tables[name]
	}
	return out
}

// Resolve runs the pipeline over one fragment set. It is all-or-nothing: any
// structural conflict fails the whole run and no snapshot is returned.
func Resolve(in *Input) (*Snapshot, error) {
	reg, err := NewRegistry(in.Types)
	if err != nil {
		return nil, err
	}
	mixins, err := newMixinSet(in.Mixins)
	if err != nil {
		return nil, err
	}

	// Group fragments by logical table, keeping first-declaration order.
	var names []string
	grouped := make(map[string][]*schema.TableFragment)
	for _, f := range in.Tables {
		if _, ok := grouped[f.Table]; !ok {
			names = append(names, f.Table)
		}
		grouped[f.Table] = append(grouped[f.Table], f)
	}

	tables := make(map[string]*Table, len(names))
	for _, name := range names {
		t, err := mergeTable(name, grouped[name], reg, mixins)
		if err != nil {
			return nil, err
		}
		tables[name] = t
	}
	if err := resolveRelations(tables, names); err != nil {
		return nil, err
	}
	order, err := orderTables(tables)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Tables: tables, Order: order, Types: reg}, nil
}
