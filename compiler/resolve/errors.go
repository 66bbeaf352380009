package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/mosaic/schema"
)

// Sentinel errors for the resolution failure kinds. Every failure is fatal
// to the run; no partial schema is ever produced.
var (
	// ErrUnknownType is returned when a name matches neither a primitive
	// nor a declared type.
	ErrUnknownType = errors.New("mosaic: unknown type")
	// ErrUnknownMixin is returned when a fragment references an undeclared mixin.
	ErrUnknownMixin = errors.New("mosaic: unknown mixin")
	// ErrCyclicType is returned when a type base chain revisits itself.
	ErrCyclicType = errors.New("mosaic: cyclic type inheritance")
	// ErrDuplicatePrimaryKey is returned when more than one primary-key
	// column is merged into one table.
	ErrDuplicatePrimaryKey = errors.New("mosaic: duplicate primary key")
	// ErrUnresolvedColumnType is returned when a column references a type
	// that fails resolution.
	ErrUnresolvedColumnType = errors.New("mosaic: unresolved column type")
	// ErrInvalidRelationshipTarget is returned when a foreign key or
	// many-to-many directive points at a nonexistent table or column.
	ErrInvalidRelationshipTarget = errors.New("mosaic: invalid relationship target")
	// ErrCyclicTableDependency is returned when a non-self-referential cycle
	// exists in the foreign-key graph.
	ErrCyclicTableDependency = errors.New("mosaic: cyclic table dependency")
)

// TypeError reports a type-resolution failure: an unknown type name, a
// cyclic base chain, or a column whose type cannot be expanded.
type TypeError struct {
	Name    string        // type name
	Table   string        // table context, if any
	Column  string        // column context, if any
	Origin  schema.Origin // authoring document
	Message string
	Cause   error // sentinel kind
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	var b strings.Builder
	b.WriteString("mosaic: type error")
	if e.Name != "" {
		fmt.Fprintf(&b, " on type %q", e.Name)
	}
	if e.Table != "" {
		fmt.Fprintf(&b, " (table %q", e.Table)
		if e.Column != "" {
			fmt.Fprintf(&b, ", column %q", e.Column)
		}
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	fmt.Fprintf(&b, " (declared in %s)", e.Origin)
	return b.String()
}

// Unwrap returns the sentinel failure kind.
func (e *TypeError) Unwrap() error { return e.Cause }

// MixinError reports a reference to an undeclared mixin.
type MixinError struct {
	Name   string // mixin name
	Table  string // referencing table
	Origin schema.Origin
}

// Error implements the error interface.
func (e *MixinError) Error() string {
	return fmt.Sprintf("mosaic: unknown mixin %q referenced by table %q (declared in %s)", e.Name, e.Table, e.Origin)
}

// Is reports whether the target matches the sentinel for MixinError.
func (e *MixinError) Is(target error) bool { return target == ErrUnknownMixin }

// TableError reports a structural conflict detected while merging the
// fragments of one table.
type TableError struct {
	Table   string
	Column  string
	Origin  schema.Origin
	Message string
	Cause   error // sentinel kind
}

// Error implements the error interface.
func (e *TableError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mosaic: table %q", e.Table)
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	fmt.Fprintf(&b, " (declared in %s)", e.Origin)
	return b.String()
}

// Unwrap returns the sentinel failure kind.
func (e *TableError) Unwrap() error { return e.Cause }

// RelationError reports a foreign key or many-to-many directive whose target
// does not exist.
type RelationError struct {
	Table   string // declaring table
	Column  string // declaring column, if any
	Target  string // dotted Table.column target
	Origin  schema.Origin
	Message string
}

// Error implements the error interface.
func (e *RelationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mosaic: invalid relationship target %q on table %q", e.Target, e.Table)
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	fmt.Fprintf(&b, " (declared in %s)", e.Origin)
	return b.String()
}

// Is reports whether the target matches the sentinel for RelationError.
func (e *RelationError) Is(target error) bool { return target == ErrInvalidRelationshipTarget }

// CycleError reports a non-self-referential cycle in the foreign-key graph,
// naming the participating tables.
type CycleError struct {
	Tables []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("mosaic: cyclic table dependency between %s", strings.Join(e.Tables, ", "))
}

// Is reports whether the target matches the sentinel for CycleError.
func (e *CycleError) Is(target error) bool { return target == ErrCyclicTableDependency }

// IsUnknownType reports whether err is an unknown-type failure.
func IsUnknownType(err error) bool { return errors.Is(err, ErrUnknownType) }

// IsCyclicType reports whether err is a cyclic-inheritance failure.
func IsCyclicType(err error) bool { return errors.Is(err, ErrCyclicType) }
