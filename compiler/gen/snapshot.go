package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/mosaic/compiler/resolve"
)

// The fingerprint model is a reduced, fully ordered view of a snapshot:
// slices only, tables in emission order, so the msgpack encoding is
// canonical and two structurally identical snapshots hash the same.
type (
	fpSchema struct {
		Tables []fpTable
	}
	fpTable struct {
		Name      string
		TableName string
		Label     string
		Help      string
		Tags      []string
		Columns   []fpColumn
	}
	fpColumn struct {
		Name       string
		Kind       string
		PrimaryKey bool
		Nullable   bool
		Unique     bool
		Index      bool
		Default    string
		HasDefault bool
		Length     int
		Precision  int
		Scale      int
		RefTable   string
		RefColumn  string
		OnUpdate   string
		OnDelete   string
	}
)

// Fingerprint returns a stable hex digest of the resolved schema. Unchanged
// inputs fingerprint identically across runs, so callers can skip emission
// entirely when nothing changed.
func Fingerprint(snap *resolve.Snapshot) (string, error) {
	model := fpSchema{Tables: make([]fpTable, 0, len(snap.Order))}
	for _, t := range snap.TablesInOrder() {
		ft := fpTable{
			Name:      t.Name,
			TableName: t.TableName,
			Label:     t.Label,
			Help:      t.Help,
			Tags:      t.Tags,
			Columns:   make([]fpColumn, 0, len(t.Columns)),
		}
		for _, c := range t.Columns {
			fc := fpColumn{
				Name:       c.Name,
				PrimaryKey: c.PrimaryKey,
				Nullable:   c.Nullable,
				Unique:     c.Unique,
				Index:      c.Index,
				Default:    c.Default,
				HasDefault: c.HasDefault,
				Length:     c.Length,
				Precision:  c.Precision,
				Scale:      c.Scale,
			}
			if c.Type != nil {
				fc.Kind = c.Type.Kind.String()
			}
			if fk := c.ForeignKey; fk != nil {
				fc.RefTable = fk.RefTable
				fc.RefColumn = fk.RefColumn
				fc.OnUpdate = fk.OnUpdate
				fc.OnDelete = fk.OnDelete
			}
			ft.Columns = append(ft.Columns, fc)
		}
		model.Tables = append(model.Tables, ft)
	}
	data, err := msgpack.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("gen: fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
