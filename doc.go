// Package sqlonfhir implements a SQL-on-FHIR v2 ViewDefinition engine:
// parsing ViewDefinition resources, evaluating their column/where/
// forEach paths against FHIR resources with a restricted FHIRPath
// dialect, and projecting the result into flat, tabular rows.
//
// # Quick Start
//
//	engine := sqlonfhir.New()
//
//	view, err := engine.ParseView(viewDefinitionJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rows, err := engine.Apply(view, patientJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, row := range rows {
//	    id, _ := row.Get("id")
//	    fmt.Println(id.Node.ToDisplayString())
//	}
//
// # Batch Projection
//
// worker.Pool and worker.BatchProjector run one ViewDefinition over
// many resources concurrently, safe because a parsed ViewDefinition is
// immutable (spec §3, §5).
//
// # Functional Options
//
//	engine := sqlonfhir.New(
//	    sqlonfhir.WithWorkerCount(runtime.NumCPU()),
//	    sqlonfhir.WithExpressionCache(5000),
//	)
//
// # Architecture
//
//   - fhirvalue: the Resource Model, a typed navigation layer over
//     decoded FHIR JSON.
//   - fhirpath: the restricted FHIRPath dialect evaluator.
//   - viewdef: the ViewDefinition Model & Parser.
//   - rowgen: the Row Generator, expanding a parsed ViewDefinition's
//     Select tree into rows for one resource.
//   - issue: the shared, closed error taxonomy every layer reports
//     through.
package sqlonfhir
