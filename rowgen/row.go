// Package rowgen implements the Row Generator (spec §4.3): expanding a
// compiled ViewDefinition's Select tree into the ordered rows a single
// resource contributes, honouring where filtering, forEach/
// forEachOrNull iteration, unionAll concatenation, and the sibling
// Cartesian-product law that ties them together.
package rowgen

import (
	"github.com/gofhir/sqlonfhir/fhirvalue"
	"github.com/gofhir/sqlonfhir/viewdef"
)

// Value is the contents of one row cell (spec §6 "Row::get(columnName)
// -> Value"). Present is false when a non-collection column's path
// evaluated to nothing, or when the row came from a forEachOrNull
// whose iterator was empty. A collection column whose path evaluated
// to nothing is Present with an empty Elements slice.
// Collection columns keep every evaluated element in Elements; all
// other columns keep at most one in Node, per the dialect's silent
// first-element-wins rule for multi-valued non-collection paths.
type Value struct {
	Present    bool
	Collection bool
	Node       fhirvalue.Node
	Elements   []fhirvalue.Node
}

// Row is one output row of a projection, ordered to match the
// ViewDefinition's Schema.
type Row struct {
	schema viewdef.Schema
	cells  []Value
}

func newRow(schema viewdef.Schema) *Row {
	return &Row{schema: schema, cells: make([]Value, len(schema))}
}

func (r *Row) set(name string, v Value) {
	if i := r.schema.IndexOf(name); i >= 0 {
		r.cells[i] = v
	}
}

// Get returns the named column's value. ok is false if columnName
// isn't part of the row's schema; a present-but-null column returns
// ok=true with Value.Present false.
func (r *Row) Get(columnName string) (Value, bool) {
	i := r.schema.IndexOf(columnName)
	if i < 0 {
		return Value{}, false
	}
	return r.cells[i], true
}

// Len returns the number of columns in the row.
func (r *Row) Len() int {
	return len(r.cells)
}

// Schema returns the schema this row was assembled against.
func (r *Row) Schema() viewdef.Schema {
	return r.schema
}
