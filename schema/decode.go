package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the parsed form of one schema document: type declarations,
// mixin declarations and table fragments, each in authored order.
//
// YAML mappings do not guarantee iteration order when decoded into Go maps,
// and merge semantics are order-sensitive, so decoding walks the raw node
// tree and keeps the key order of the document.
type Document struct {
	Types  []*TypeDef
	Mixins []*MixinDef
	Tables []*TableFragment
}

// DecodeDocument parses one schema document, stamping every fragment with
// the given origin.
func DecodeDocument(data []byte, origin Origin) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", origin, err)
	}
	doc := &Document{}
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema: %s: document root must be a mapping", origin)
	}
	for i := 0; i < len(top.Content)-1; i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		var err error
		switch key.Value {
		case "types":
			err = doc.decodeTypes(value, origin)
		case "mixins":
			err = doc.decodeMixins(value, origin)
		case "tables":
			err = doc.decodeTables(value, origin)
		default:
			err = fmt.Errorf("schema: %s: unknown section %q at line %d", origin, key.Value, key.Line)
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (d *Document) decodeTypes(node *yaml.Node, origin Origin) error {
	return eachPair(node, origin, "types", func(name string, value *yaml.Node) error {
		td := &TypeDef{}
		if err := value.Decode(td); err != nil {
			return fmt.Errorf("schema: %s: type %q: %w", origin, name, err)
		}
		td.Name = name
		td.Origin = origin
		d.Types = append(d.Types, td)
		return nil
	})
}

func (d *Document) decodeMixins(node *yaml.Node, origin Origin) error {
	return eachPair(node, origin, "mixins", func(name string, value *yaml.Node) error {
		md := &MixinDef{}
		if err := value.Decode(md); err != nil {
			return fmt.Errorf("schema: %s: mixin %q: %w", origin, name, err)
		}
		md.Name = name
		md.Origin = origin
		for _, c := range md.Columns {
			c.Origin = origin
		}
		d.Mixins = append(d.Mixins, md)
		return nil
	})
}

func (d *Document) decodeTables(node *yaml.Node, origin Origin) error {
	return eachPair(node, origin, "tables", func(name string, value *yaml.Node) error {
		tf := &TableFragment{}
		if err := value.Decode(tf); err != nil {
			return fmt.Errorf("schema: %s: table %q: %w", origin, name, err)
		}
		tf.Table = name
		tf.Origin = origin
		for _, c := range tf.Columns {
			c.Origin = origin
		}
		d.Tables = append(d.Tables, tf)
		return nil
	})
}

// eachPair walks a mapping node in document order.
func eachPair(node *yaml.Node, origin Origin, section string, fn func(name string, value *yaml.Node) error) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("schema: %s: section %q must be a mapping (line %d)", origin, section, node.Line)
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
