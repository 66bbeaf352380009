package resolve

import (
	"fmt"

	"github.com/syssam/mosaic/schema"
)

// ExpandedType is the closed attribute set of a type after its base chain
// has been walked to a primitive storage kind. Unset attributes stay nil so
// a column can still layer its own overrides on top.
type ExpandedType struct {
	Name string
	Kind schema.Kind
	// Inheritance is the base chain from the declared type down to the
	// primitive, child first.
	Inheritance []string

	Length    *int
	Precision *int
	Scale     *int
	Nullable  *bool
	Unique    *bool
	Index     *bool
	Default   *string
	Validator string
	Label     string
	Help      string
}

// Primitive reports whether the type is a bare primitive with no overrides.
func (t *ExpandedType) Primitive() bool { return len(t.Inheritance) == 0 && t.Name == t.Kind.String() }

// Registry resolves type names to expanded attribute sets. Resolution walks
// the base chain child-before-parent-wins and memoizes per name; a Registry
// is built once per run and is read-only afterwards.
type Registry struct {
	defs map[string]*schema.TypeDef
	memo map[string]*ExpandedType
}

// NewRegistry indexes the declared types. Redeclaring a name is an authoring
// conflict and fails immediately.
func NewRegistry(defs []*schema.TypeDef) (*Registry, error) {
	r := &Registry{
		defs: make(map[string]*schema.TypeDef, len(defs)),
		memo: make(map[string]*ExpandedType, len(defs)),
	}
	for _, td := range defs {
		if schema.KindOf(td.Name).Valid() {
			return nil, fmt.Errorf("mosaic: type %q declared in %s shadows a primitive", td.Name, td.Origin)
		}
		if prev, ok := r.defs[td.Name]; ok {
			return nil, fmt.Errorf("mosaic: type %q declared in both %s and %s", td.Name, prev.Origin, td.Origin)
		}
		r.defs[td.Name] = td
	}
	return r, nil
}

// Resolve returns the expanded attribute set for the given type name. It
// fails with ErrUnknownType if the name matches neither a primitive nor a
// declared type, and with ErrCyclicType if the base chain revisits a name
// already on the resolution stack.
func (r *Registry) Resolve(name string) (*ExpandedType, error) {
	if et, ok := r.memo[name]; ok {
		return et, nil
	}
	et, err := r.expand(name, map[string]bool{})
	if err != nil {
		return nil, err
	}
	r.memo[name] = et
	return et, nil
}

func (r *Registry) expand(name string, stack map[string]bool) (*ExpandedType, error) {
	if k := schema.KindOf(name); k.Valid() {
		return &ExpandedType{Name: name, Kind: k}, nil
	}
	td, ok := r.defs[name]
	if !ok {
		return nil, &TypeError{Name: name, Message: "not a primitive and not declared", Cause: ErrUnknownType}
	}
	et := &ExpandedType{Name: name}
	cur := td
	for {
		if stack[cur.Name] {
			return nil, &TypeError{
				Name:    name,
				Origin:  td.Origin,
				Message: fmt.Sprintf("base chain revisits %q", cur.Name),
				Cause:   ErrCyclicType,
			}
		}
		stack[cur.Name] = true
		et.apply(cur)
		if k := schema.KindOf(cur.Base); k.Valid() {
			et.Kind = k
			et.Inheritance = append(et.Inheritance, cur.Base)
			return et, nil
		}
		next, ok := r.defs[cur.Base]
		if !ok {
			return nil, &TypeError{
				Name:    cur.Base,
				Origin:  cur.Origin,
				Message: fmt.Sprintf("base of type %q is not declared", cur.Name),
				Cause:   ErrUnknownType,
			}
		}
		et.Inheritance = append(et.Inheritance, next.Name)
		cur = next
	}
}

// apply layers a definition under the attributes accumulated so far. The
// child's explicit value always wins; unspecified attributes inherit.
func (t *ExpandedType) apply(td *schema.TypeDef) {
	if t.Length == nil {
		t.Length = td.Length
	}
	if t.Precision == nil {
		t.Precision = td.Precision
	}
	if t.Scale == nil {
		t.Scale = td.Scale
	}
	if t.Nullable == nil {
		t.Nullable = td.Nullable
	}
	if t.Unique == nil {
		t.Unique = td.Unique
	}
	if t.Index == nil {
		t.Index = td.Index
	}
	if t.Default == nil {
		t.Default = td.Default
	}
	if t.Validator == "" {
		t.Validator = td.Validator
	}
	if t.Label == "" {
		t.Label = td.Label
	}
	if t.Help == "" {
		t.Help = td.Help
	}
}
