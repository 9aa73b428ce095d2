package rowgen

import (
	"github.com/gofhir/sqlonfhir/fhirpath"
	"github.com/gofhir/sqlonfhir/fhirvalue"
	"github.com/gofhir/sqlonfhir/viewdef"
)

// partialRow accumulates column values by output name while descending
// the Select tree, before being assembled into a schema-ordered Row.
type partialRow map[string]Value

func clonePartialRow(p partialRow) partialRow {
	out := make(partialRow, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func mergeRow(a, b partialRow) partialRow {
	out := clonePartialRow(a)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// cartesian computes the cross product of two partial-row sets: every
// row of a paired with every row of b (spec §8's sibling-column
// multiplication law). An empty operand collapses the whole product to
// empty, matching forEach's "empty iteration drops the row" rule
// propagating up through sibling selects.
func cartesian(a, b []partialRow) []partialRow {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]partialRow, 0, len(a)*len(b))
	for _, ra := range a {
		for _, rb := range b {
			out = append(out, mergeRow(ra, rb))
		}
	}
	return out
}

// Project runs a ViewDefinition against one resource (spec §6
// "ViewDefinition::apply(resource) -> rows", §4.3). A resource whose
// resourceType doesn't match the view's declared resource contributes
// zero rows rather than an error; an unsatisfied where predicate does
// the same. A malformed navigation (e.g. a where clause landing on a
// non-boolean value) surfaces as an error instead of being swallowed.
func Project(vd *viewdef.ViewDefinition, resource fhirvalue.Resource) ([]*Row, error) {
	if resource.ResourceType() != vd.Resource {
		return nil, nil
	}

	root := fhirpath.Sequence{resource.Node}

	pass, err := evalWhereClauses(vd.Where, root)
	if err != nil {
		return nil, err
	}
	if !pass {
		return nil, nil
	}

	partials, err := generateSelectList(vd.Select, rootContext(root))
	if err != nil {
		return nil, err
	}

	schema := vd.Schema()
	rows := make([]*Row, 0, len(partials))
	for _, p := range partials {
		row := newRow(schema)
		for name, v := range p {
			row.set(name, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// evalWhereClauses ANDs every where predicate together against focus.
// An empty list is vacuously true (spec §4.3: absent where behaves
// exactly like no filter at all).
func evalWhereClauses(wheres []viewdef.Where, focus fhirpath.Sequence) (bool, error) {
	for i := range wheres {
		seq, err := fhirpath.Evaluate(wheres[i].Expr(), focus)
		if err != nil {
			return false, err
		}
		b, err := fhirpath.CoerceBoolean(seq)
		if err != nil {
			return false, err
		}
		if !b {
			return false, nil
		}
	}
	return true, nil
}

// generateSelectList produces the cross product of every sibling
// Select's row set.
func generateSelectList(selects []viewdef.Select, ctx evalContext) ([]partialRow, error) {
	rows := []partialRow{{}}
	for i := range selects {
		sub, err := generateSelect(&selects[i], ctx)
		if err != nil {
			return nil, err
		}
		rows = cartesian(rows, sub)
		if len(rows) == 0 {
			return nil, nil
		}
	}
	return rows, nil
}

// generateSelect expands one Select node's iteration (forEach,
// forEachOrNull, or the single implicit iteration when neither is
// set) and vertically concatenates the row set each iteration's body
// produces.
func generateSelect(s *viewdef.Select, ctx evalContext) ([]partialRow, error) {
	iterations, err := iterationContexts(s, ctx)
	if err != nil {
		return nil, err
	}

	var rows []partialRow
	for _, iterCtx := range iterations {
		body, err := generateSelectBody(s, iterCtx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, body...)
	}
	return rows, nil
}

// iterationContexts computes the set of child focuses a Select's body
// runs under (spec §4.3):
//   - no forEach/forEachOrNull: exactly the incoming context, unchanged.
//   - an already-null incoming context: exactly one null context,
//     regardless of this select's own iterator, since an ancestor has
//     already determined there is nothing here to iterate.
//   - forEach over an empty sequence: zero contexts, dropping the row.
//   - forEachOrNull over an empty sequence: exactly one null context,
//     so the row survives with every descendant column absent.
//   - either form over a non-empty sequence: one context per element.
func iterationContexts(s *viewdef.Select, ctx evalContext) ([]evalContext, error) {
	if !s.HasForEach() {
		return []evalContext{ctx}, nil
	}
	if ctx.isNull {
		return []evalContext{nullContext()}, nil
	}

	seq, err := fhirpath.Evaluate(s.ForEachExpr(), ctx.focus)
	if err != nil {
		return nil, err
	}
	if len(seq) == 0 {
		if s.IsForEachOrNull() {
			return []evalContext{nullContext()}, nil
		}
		return nil, nil
	}

	out := make([]evalContext, len(seq))
	for i, elem := range seq {
		out[i] = evalContext{focus: fhirpath.Sequence{elem}}
	}
	return out, nil
}

// generateSelectBody evaluates one Select's own columns, cross-joins
// them against its nested selects' row sets, and appends its unionAll
// branches' rows (their schemas were already verified equal at parse
// time) as further columns of the same row shape.
func generateSelectBody(s *viewdef.Select, ctx evalContext) ([]partialRow, error) {
	own, err := evalColumns(s.Column, ctx)
	if err != nil {
		return nil, err
	}
	rows := []partialRow{own}

	if len(s.Select) > 0 {
		nested, err := generateSelectList(s.Select, ctx)
		if err != nil {
			return nil, err
		}
		rows = cartesian(rows, nested)
		if len(rows) == 0 {
			return nil, nil
		}
	}

	if len(s.UnionAll) > 0 {
		unioned, err := generateUnion(s.UnionAll, ctx)
		if err != nil {
			return nil, err
		}
		rows = cartesian(rows, unioned)
	}

	return rows, nil
}

// generateUnion vertically concatenates the row sets of every unionAll
// branch, in branch order.
func generateUnion(branches []viewdef.Select, ctx evalContext) ([]partialRow, error) {
	var rows []partialRow
	for i := range branches {
		branchRows, err := generateSelect(&branches[i], ctx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, branchRows...)
	}
	return rows, nil
}

// evalColumns evaluates one Select's own columns against ctx,
// producing exactly one partial row: unlike forEach, a multi-valued
// column path never multiplies rows — it silently keeps only the
// first element unless the column is declared collection:true (spec
// §4.3's documented quirk).
func evalColumns(columns []viewdef.Column, ctx evalContext) (partialRow, error) {
	row := make(partialRow, len(columns))
	for i := range columns {
		col := columns[i]
		if ctx.isNull {
			row[col.Name] = Value{}
			continue
		}
		seq, err := fhirpath.Evaluate(col.Expr(), ctx.focus)
		if err != nil {
			return nil, err
		}
		row[col.Name] = columnValue(col, seq)
	}
	return row, nil
}

func columnValue(col viewdef.Column, seq fhirpath.Sequence) Value {
	if col.Collection {
		return Value{Present: true, Collection: true, Elements: []fhirvalue.Node(seq)}
	}
	if len(seq) == 0 {
		return Value{}
	}
	return Value{Present: true, Node: seq[0]}
}
