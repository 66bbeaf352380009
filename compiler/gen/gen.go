// Package gen renders a resolved schema into one self-contained Go source
// unit: an entity struct per table, column and table-name constants, and
// relationship edge structs with accessor methods.
//
// Emission is a pure function of the snapshot. Identical snapshots render to
// byte-identical source, so regeneration is a safe, repeatable operation.
package gen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/syssam/mosaic/compiler/resolve"
	"github.com/syssam/mosaic/schema"
)

// Options configure emission.
type Options struct {
	// Package is the package name of the emitted unit. Defaults to "model".
	Package string
	// Append is raw source text appended verbatim after the generated
	// declarations, before the final formatting pass.
	Append string
}

// Emit renders the snapshot to a formatted Go source unit.
func Emit(snap *resolve.Snapshot, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = "model"
	}
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by mosaic. DO NOT EDIT.")

	tables := snap.TablesInOrder()
	f.Comment("Tables lists every physical table name in dependency order.")
	f.Var().Id("Tables").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, t := range tables {
			g.Id(structName(t) + "Table")
		}
	})

	for _, t := range tables {
		genConstants(f, t)
		genStruct(f, t)
		genEdges(f, t)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("gen: render: %w", err)
	}
	if opts.Append != "" {
		buf.WriteString("\n")
		buf.WriteString(opts.Append)
		if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteString("\n")
		}
	}
	src, err := imports.Process("model.go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("gen: format: %w", err)
	}
	return src, nil
}

// genConstants emits the table-name constant, the column-name constants and
// the tag list of one table.
func genConstants(f *jen.File, t *resolve.Table) {
	name := structName(t)
	f.Commentf("%sTable is the physical table of the %s schema.", name, t.Name)
	f.Const().Id(name + "Table").Op("=").Lit(t.TableName)
	f.Commentf("Column names of the %s table.", t.Name)
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, c := range t.Columns {
			g.Id(name + "Field" + pascal(c.Name)).Op("=").Lit(c.Name)
		}
	})
	if len(t.Tags) > 0 {
		f.Commentf("%sTags are the tags contributed for the %s schema.", name, t.Name)
		f.Var().Id(name + "Tags").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
			for _, tag := range t.Tags {
				g.Lit(tag)
			}
		})
	}
}

// genStruct emits the entity struct of one table.
func genStruct(f *jen.File, t *resolve.Table) {
	name := structName(t)
	if t.Label != "" {
		f.Commentf("%s is the record for table %q (%s).", name, t.TableName, t.Label)
	} else {
		f.Commentf("%s is the record for table %q.", name, t.TableName)
	}
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, c := range t.Columns {
			tag := map[string]string{"db": c.Name, "json": jsonTag(c)}
			field := g.Id(pascal(c.Name)).Add(fieldType(c)).Tag(tag)
			if c.Help != "" {
				field.Comment(c.Help)
			}
		}
		g.Id("Edges").Id(name + "Edges").Tag(map[string]string{"json": "edges"})
	})
}

// genEdges emits the edge struct and one OrErr accessor per edge.
func genEdges(f *jen.File, t *resolve.Table) {
	name := structName(t)
	edges := tableEdges(t)
	f.Commentf("%sEdges holds the relations of a %s.", name, t.Name)
	f.Type().Id(name + "Edges").StructFunc(func(g *jen.Group) {
		for _, e := range edges {
			code := g.Id(e.name)
			if e.unique {
				code.Op("*").Id(e.target)
			} else {
				code.Index().Op("*").Id(e.target)
			}
			code.Tag(map[string]string{"json": edgeJSONName(e.name) + ",omitempty"})
		}
	})
	for _, e := range edges {
		f.Commentf("%sOrErr returns the %s edge, or an error if it was not loaded.", e.name, edgeJSONName(e.name))
		retType := jen.Op("*").Id(e.target)
		if !e.unique {
			retType = jen.Index().Op("*").Id(e.target)
		}
		f.Func().Params(jen.Id("e").Id(name+"Edges")).Id(e.name+"OrErr").Params().Params(retType, jen.Error()).Block(
			jen.If(jen.Id("e").Dot(e.name).Op("!=").Nil()).Block(
				jen.Return(jen.Id("e").Dot(e.name), jen.Nil()),
			),
			jen.Return(jen.Nil(), jen.Qual("errors", "New").Call(
				jen.Lit(fmt.Sprintf("model: edge %q was not loaded", edgeJSONName(e.name))),
			)),
		)
	}
}

// edge is one relation accessor of an entity: outbound foreign key, inbound
// reverse reference, or many-to-many through a junction.
type edge struct {
	name   string
	target string
	unique bool
}

// tableEdges collects the edges of a table in deterministic order: outbound
// foreign keys in column order, inbound references in declaring order, then
// junction edges. Colliding names are disambiguated by the owning column.
func tableEdges(t *resolve.Table) []edge {
	var edges []edge
	seen := make(map[string]bool)
	put := func(base, alt string, e edge) {
		e.name = base
		if seen[base] {
			e.name = alt
		}
		seen[e.name] = true
		edges = append(edges, e)
	}
	for _, fk := range t.ForeignKeys {
		put(edgeName(fk), pascal(fk.Ref.Name)+"Via"+pascal(fk.Column.Name),
			edge{target: pascal(fk.Ref.Name), unique: true})
	}
	for _, ref := range t.Refs {
		put(refEdgeName(ref), refEdgeName(ref)+"Via"+pascal(ref.FK.Column.Name),
			edge{target: pascal(ref.From.Name), unique: false})
	}
	for _, j := range t.Junctions {
		put(junctionEdgeName(j), junctionEdgeName(j)+"Via"+pascal(j.Through.Name),
			edge{target: pascal(j.Target.Name), unique: false})
	}
	return edges
}

func jsonTag(c *resolve.Column) string {
	if c.Nullable {
		return c.Name + ",omitempty"
	}
	return c.Name
}

// fieldType returns the Go type of a resolved column. Nullable columns are
// pointers. Pointer primitives use Id("*type") so jennifer renders struct
// fields without spurious whitespace.
func fieldType(c *resolve.Column) jen.Code {
	if c.Type == nil {
		return jen.Any()
	}
	if c.Nullable {
		switch c.Type.Kind {
		case schema.KindString, schema.KindText:
			return jen.Id("*string")
		case schema.KindInteger:
			return jen.Id("*int")
		case schema.KindBigInteger:
			return jen.Id("*int64")
		case schema.KindSmallInteger:
			return jen.Id("*int16")
		case schema.KindFloat, schema.KindNumeric:
			return jen.Id("*float64")
		case schema.KindBoolean:
			return jen.Id("*bool")
		case schema.KindDate, schema.KindDateTime, schema.KindTime:
			return jen.Op("*").Qual("time", "Time")
		case schema.KindUUID:
			return jen.Op("*").Qual("github.com/google/uuid", "UUID")
		case schema.KindJSON:
			return jen.Qual("encoding/json", "RawMessage")
		case schema.KindBytes:
			return jen.Index().Byte()
		}
		return jen.Any()
	}
	switch c.Type.Kind {
	case schema.KindString, schema.KindText:
		return jen.String()
	case schema.KindInteger:
		return jen.Int()
	case schema.KindBigInteger:
		return jen.Int64()
	case schema.KindSmallInteger:
		return jen.Int16()
	case schema.KindFloat, schema.KindNumeric:
		return jen.Float64()
	case schema.KindBoolean:
		return jen.Bool()
	case schema.KindDate, schema.KindDateTime, schema.KindTime:
		return jen.Qual("time", "Time")
	case schema.KindUUID:
		return jen.Qual("github.com/google/uuid", "UUID")
	case schema.KindJSON:
		return jen.Qual("encoding/json", "RawMessage")
	case schema.KindBytes:
		return jen.Index().Byte()
	}
	return jen.Any()
}
