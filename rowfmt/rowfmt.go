// Package rowfmt shapes rowgen.Row values into the plain
// map[string]any/[]any structures encoding/json already knows how to
// marshal, the way the teacher's CLI shaped a validation Result into
// its own ValidationOutput/IssueOutput JSON structs before printing.
package rowfmt

import "github.com/gofhir/sqlonfhir/rowgen"

// ToMap flattens a Row into an ordered-insertion map keyed by column
// name: an absent cell becomes nil, a collection cell becomes a slice
// of its elements' raw JSON values, and every other cell becomes its
// single element's raw JSON value.
func ToMap(row *rowgen.Row) map[string]any {
	schema := row.Schema()
	out := make(map[string]any, len(schema))
	for _, col := range schema {
		v, ok := row.Get(col.Name)
		if !ok || !v.Present {
			out[col.Name] = nil
			continue
		}
		if v.Collection {
			elems := make([]any, len(v.Elements))
			for i, e := range v.Elements {
				elems[i] = e.Raw()
			}
			out[col.Name] = elems
			continue
		}
		out[col.Name] = v.Node.Raw()
	}
	return out
}

// ToMaps flattens every row in rows, preserving order.
func ToMaps(rows []*rowgen.Row) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		out[i] = ToMap(row)
	}
	return out
}
