package viewdef

import (
	"github.com/gofhir/sqlonfhir/fhirpath"
	"github.com/gofhir/sqlonfhir/issue"
)

// validateAndSetUp runs the algorithm from spec §4.1: field checks,
// constant table construction, recursive constant substitution and
// compilation of every path, and schema computation. It mutates vd in
// place (compiling every Column/Where/forEach expression, filling
// vd.schema) and is only ever called once, from Parse/ParseFile.
func (vd *ViewDefinition) validateAndSetUp(opts *ParseOptions) error {
	if vd.Resource == "" {
		return issue.New(issue.InvalidViewDefinition, "resource is required")
	}
	if opts.CheckName && !isSQLName(vd.Name) {
		return issue.New(issue.InvalidViewDefinition, "name %q is not a valid identifier", vd.Name)
	}
	if err := validateFHIRVersions(vd.FhirVersion); err != nil {
		return err
	}

	table, err := buildConstantTable(vd.Constant)
	if err != nil {
		return err
	}

	var cache *fhirpath.CompileCache
	if opts.ExpressionCacheSize > 0 {
		cache = fhirpath.NewCompileCache(opts.ExpressionCacheSize)
	}

	for i := range vd.Where {
		w := &vd.Where[i]
		crumb := issue.Breadcrumb("where", indexTag(i))
		substituted, err := substituteConstants(w.Path, table)
		if err != nil {
			return err
		}
		expr, err := compileExpr(cache, substituted)
		if err != nil {
			return issue.Wrap(issue.ParseError, crumb, err)
		}
		w.expr = expr
	}

	seen := make(map[string]bool)
	schema, err := compileSelectList(vd.Select, vd.Resource, table, cache, seen, "select")
	if err != nil {
		return err
	}
	if len(schema) == 0 {
		return issue.New(issue.InvalidViewDefinition, "view produces an empty schema")
	}

	vd.schema = schema
	return nil
}

func compileExpr(cache *fhirpath.CompileCache, src string) (fhirpath.Expr, error) {
	if cache != nil {
		return cache.Compile(src)
	}
	return fhirpath.Parse(src)
}

// compileSelectList compiles a list of sibling Selects, appending their
// schemas horizontally (spec §4.1 step 5: "add own columns first, then
// descend into nested select children").
func compileSelectList(selects []Select, resourceType string, table map[string]Constant, cache *fhirpath.CompileCache, seen map[string]bool, crumb string) (Schema, error) {
	var schema Schema
	for i := range selects {
		sub, err := compileSelect(&selects[i], resourceType, table, cache, seen, issue.Breadcrumb(crumb, indexTag(i)))
		if err != nil {
			return nil, err
		}
		schema = append(schema, sub...)
	}
	return schema, nil
}

// compileSelect compiles one Select node: its own columns, then its
// nested select children, then its unionAll branches, and finally its
// forEach/forEachOrNull iterator expression (which doesn't itself
// contribute schema columns).
func compileSelect(s *Select, resourceType string, table map[string]Constant, cache *fhirpath.CompileCache, seen map[string]bool, crumb string) (Schema, error) {
	if s.ForEach != "" && s.ForEachOrNull != "" {
		return nil, issue.At(issue.InvalidViewDefinition, crumb, "forEach and forEachOrNull are mutually exclusive")
	}

	var schema Schema

	for ci := range s.Column {
		col := &s.Column[ci]
		colCrumb := issue.Breadcrumb(crumb, "column", indexTag(ci))
		if !isSQLName(col.Name) {
			return nil, issue.At(issue.InvalidViewDefinition, colCrumb, "column name %q is not a valid identifier", col.Name)
		}
		if seen[col.Name] {
			return nil, issue.At(issue.InvalidViewDefinition, colCrumb, "duplicate column name %q", col.Name)
		}
		seen[col.Name] = true

		if col.Path == "" {
			return nil, issue.At(issue.InvalidViewDefinition, colCrumb, "column %q has an empty path", col.Name)
		}
		substituted, err := substituteConstants(col.Path, table)
		if err != nil {
			return nil, err
		}
		expr, err := compileExpr(cache, substituted)
		if err != nil {
			return nil, issue.Wrap(issue.ParseError, colCrumb, err)
		}
		col.expr = expr

		colType := col.Type
		if colType == "" {
			colType = inferColumnType(resourceType, col.Path)
		}
		schema = append(schema, SchemaColumn{Name: col.Name, Type: colType, Collection: col.Collection})
	}

	nested, err := compileSelectList(s.Select, resourceType, table, cache, seen, issue.Breadcrumb(crumb, "select"))
	if err != nil {
		return nil, err
	}
	schema = append(schema, nested...)

	if len(s.UnionAll) > 0 {
		unionSchema, err := compileUnionAllBranches(s.UnionAll, resourceType, table, cache, seen, crumb)
		if err != nil {
			return nil, err
		}
		schema = append(schema, unionSchema...)
	}

	iterPath := s.ForEach
	if s.ForEachOrNull != "" {
		iterPath = s.ForEachOrNull
	}
	if iterPath != "" {
		substituted, err := substituteConstants(iterPath, table)
		if err != nil {
			return nil, err
		}
		expr, err := compileExpr(cache, substituted)
		if err != nil {
			return nil, issue.Wrap(issue.ParseError, crumb, err)
		}
		s.forEachExpr = expr
	}

	return schema, nil
}

// compileUnionAllBranches compiles each unionAll branch and verifies
// they all produce the same schema (spec §3 "unionAll branches have
// schema-equal columns"). The first branch's column names are the ones
// that permanently occupy the global name space; later branches are
// validated against a snapshot of the pre-union name set so their
// (necessarily identical) names aren't flagged as duplicates of the
// first branch.
func compileUnionAllBranches(branches []Select, resourceType string, table map[string]Constant, cache *fhirpath.CompileCache, seen map[string]bool, crumb string) (Schema, error) {
	preUnion := cloneSeenSet(seen)

	first, err := compileSelect(&branches[0], resourceType, table, cache, seen, issue.Breadcrumb(crumb, "unionAll", indexTag(0)))
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(branches); i++ {
		trial := cloneSeenSet(preUnion)
		branchCrumb := issue.Breadcrumb(crumb, "unionAll", indexTag(i))
		branchSchema, err := compileSelect(&branches[i], resourceType, table, cache, trial, branchCrumb)
		if err != nil {
			return nil, err
		}
		if !schemasEqual(first, branchSchema) {
			return nil, issue.At(issue.InvalidViewDefinition, branchCrumb, "unionAll branch schema does not match the first branch")
		}
	}

	return first, nil
}

func cloneSeenSet(seen map[string]bool) map[string]bool {
	out := make(map[string]bool, len(seen))
	for k, v := range seen {
		out[k] = v
	}
	return out
}

func schemasEqual(a, b Schema) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
