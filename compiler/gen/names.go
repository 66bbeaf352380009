package gen

import (
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/mosaic/compiler/resolve"
)

// acronyms are spelled per Go initialism convention when they appear as a
// whole identifier segment.
var acronyms = map[string]string{
	"id":   "ID",
	"uuid": "UUID",
	"url":  "URL",
	"uri":  "URI",
	"api":  "API",
	"json": "JSON",
	"sql":  "SQL",
	"http": "HTTP",
}

// pascal converts a document name (snake or Camel) to an exported Go
// identifier: "user_id" -> "UserID", "orderItem" -> "OrderItem".
func pascal(name string) string {
	parts := strings.Split(inflect.Underscore(name), "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if a, ok := acronyms[p]; ok {
			b.WriteString(a)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// structName returns the emitted struct name of a table.
func structName(t *resolve.Table) string { return pascal(t.Name) }

// edgeName derives the outbound edge name from the foreign-key column:
// "user_id" -> "User"; a column without the "_id" suffix falls back to the
// target table name.
func edgeName(fk *resolve.ForeignKey) string {
	base := strings.TrimSuffix(fk.Column.Name, "_id")
	if base == fk.Column.Name || base == "" {
		return pascal(fk.Ref.Name)
	}
	return pascal(base)
}

// edgeJSONName is the json key of an edge field.
func edgeJSONName(name string) string { return inflect.Underscore(name) }

// refEdgeName derives the inbound reverse-edge name: the referencing table,
// pluralized ("Review" -> "Reviews").
func refEdgeName(ref *resolve.Ref) string {
	return pascal(inflect.Pluralize(inflect.Underscore(ref.From.Name)))
}

// junctionEdgeName derives the many-to-many convenience edge name: the far
// endpoint, pluralized.
func junctionEdgeName(j *resolve.JunctionEdge) string {
	return pascal(inflect.Pluralize(inflect.Underscore(j.Target.Name)))
}
