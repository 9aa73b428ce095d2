// Package worker runs one immutable ViewDefinition over many resources
// concurrently: spec §5's "safe to use from any number of parallel
// evaluators" concurrency model realised as a fixed-size goroutine pool
// over a compiled projection function.
//
// Example usage:
//
//	pool := worker.NewPool(func(resource []byte) ([]*rowgen.Row, error) {
//	    res, err := fhirvalue.NewResource(resource)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return rowgen.Project(view, res)
//	}, 4)
//
//	for _, resource := range resources {
//	    pool.Submit(worker.Job{ID: "job-1", Resource: resource})
//	}
//
//	batch := pool.CloseAndWait()
//	for _, result := range batch.Results {
//	    if result.Error != nil {
//	        // handle error
//	    }
//	    // process result.Rows
//	}
//
// The Results channel is closed only by Close or CloseAndWait. Submit
// blocks once the job queue and the result buffer (each 2×workers
// deep) are full and nothing is reading Results.
package worker
