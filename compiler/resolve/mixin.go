package resolve

import (
	"fmt"

	"github.com/syssam/mosaic/schema"
)

// mixinSet indexes the declared mixins of a run.
type mixinSet map[string]*schema.MixinDef

func newMixinSet(defs []*schema.MixinDef) (mixinSet, error) {
	m := make(mixinSet, len(defs))
	for _, md := range defs {
		if prev, ok := m[md.Name]; ok {
			return nil, fmt.Errorf("mosaic: mixin %q declared in both %s and %s", md.Name, prev.Origin, md.Origin)
		}
		m[md.Name] = md
	}
	return m, nil
}

// expand copies the mixin's columns for inclusion in the referencing table.
// A prefix on the reference is prepended to every copied column name. Mixins
// are flat: they carry neither foreign keys nor many-to-many directives.
func (m mixinSet) expand(ref *schema.MixinRef, table string, origin schema.Origin) ([]*schema.Column, error) {
	md, ok := m[ref.Name]
	if !ok {
		return nil, &MixinError{Name: ref.Name, Table: table, Origin: origin}
	}
	cols := make([]*schema.Column, 0, len(md.Columns))
	for _, c := range md.Columns {
		cc := c.Clone()
		if ref.Prefix != "" {
			cc.Name = ref.Prefix + cc.Name
			cc.Prefix = ref.Prefix
		}
		cols = append(cols, cc)
	}
	return cols, nil
}
