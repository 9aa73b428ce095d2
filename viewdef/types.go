// Package viewdef implements the ViewDefinition Model & Parser: JSON
// deserialisation, constant substitution, name/uniqueness validation,
// and ordered output-schema computation (spec §3, §4.1).
package viewdef

import (
	"encoding/json"

	"github.com/gofhir/sqlonfhir/fhirpath"
)

// ViewDefinition is the SQL-on-FHIR v2 projection definition. It is
// immutable once Parse/ParseFile return it successfully: constants have
// been substituted into every path, every path has been compiled to a
// fhirpath.Expr, and the output schema has been computed. There is no
// method that mutates a ViewDefinition after construction (spec §3
// "immutable after validation").
type ViewDefinition struct {
	Name        string     `json:"name"`
	Resource    string     `json:"resource"`
	FhirVersion []string   `json:"fhirVersion,omitempty"`
	Constant    []Constant `json:"constant,omitempty"`
	Select      []Select   `json:"select"`
	Where       []Where    `json:"where,omitempty"`

	schema Schema
}

// Schema returns the ordered output columns computed at validation
// time. Callers must not mutate the returned slice.
func (v *ViewDefinition) Schema() Schema {
	return v.schema
}

// Constant is a named literal substituted into path expressions before
// compilation. Exactly one value[Type] member is set in the source
// JSON; Literal holds that value already rendered in FHIRPath literal
// syntax per the encoding table in spec §3.
type Constant struct {
	Name    string
	Literal string // rendered FHIRPath literal, e.g. "'p1'", "@2020-01-01", "5"
	Type    string // the FHIR type named by the set value[Type] member
}

// UnmarshalJSON extracts the constant's name and its single set
// value[Type] member. Go's json package has no direct way to express
// "exactly one of these keys is present", so this walks the decoded map
// looking for the one "value"-prefixed key.
func (c *Constant) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if nameRaw, ok := raw["name"]; ok {
		json.Unmarshal(nameRaw, &c.Name)
	}
	valueType, valueRaw, err := extractValueMember(raw)
	if err != nil {
		return err
	}
	c.Type = valueType
	lit, err := renderLiteral(valueType, valueRaw)
	if err != nil {
		return err
	}
	c.Literal = lit
	return nil
}

// Select is a node of the (recursive) row-generation tree: its own
// columns, nested selects, an optional row-multiplying iterator
// (forEach/forEachOrNull), and unionAll branches.
type Select struct {
	Column        []Column `json:"column,omitempty"`
	Select        []Select `json:"select,omitempty"`
	ForEach       string   `json:"forEach,omitempty"`
	ForEachOrNull string   `json:"forEachOrNull,omitempty"`
	UnionAll      []Select `json:"unionAll,omitempty"`

	forEachExpr fhirpath.Expr // compiled ForEach or ForEachOrNull, whichever is set
}

// Column is one output cell definition: a path to evaluate, the output
// name, and its declared or inferred FHIR type.
type Column struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Collection  bool   `json:"collection,omitempty"`
	Description string `json:"description,omitempty"`

	expr fhirpath.Expr
}

// Where is a boolean predicate gating whether a resource contributes
// any rows at all.
type Where struct {
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`

	expr fhirpath.Expr
}

// Schema is the ordered, flattened list of output columns computed by
// walking the Select tree (spec §4.1 step 5).
type Schema []SchemaColumn

// SchemaColumn describes one output column's name, type, and
// collection-ness, independent of which Select/unionAll branch it came
// from.
type SchemaColumn struct {
	Name       string
	Type       string
	Collection bool
}

// IndexOf returns the position of name in the schema, or -1 if absent.
func (s Schema) IndexOf(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Expr returns the column's compiled path expression, ready to
// evaluate against a focus sequence. It is only valid on a Column
// obtained from a successfully parsed ViewDefinition.
func (c Column) Expr() fhirpath.Expr {
	return c.expr
}

// Expr returns the where clause's compiled predicate expression.
func (w Where) Expr() fhirpath.Expr {
	return w.expr
}

// ForEachExpr returns the compiled forEach or forEachOrNull expression,
// or nil if this Select has neither. IsForEachOrNull reports which
// form it was, since both compile the same way but differ in row
// generation semantics (spec §4.3: empty result drops the row for
// forEach, but emits one null-valued row for forEachOrNull).
func (s Select) ForEachExpr() fhirpath.Expr {
	return s.forEachExpr
}

// IsForEachOrNull reports whether this Select's iterator was declared
// with forEachOrNull rather than forEach.
func (s Select) IsForEachOrNull() bool {
	return s.ForEachOrNull != ""
}

// HasForEach reports whether this Select declares either form of
// iterator.
func (s Select) HasForEach() bool {
	return s.forEachExpr != nil
}
