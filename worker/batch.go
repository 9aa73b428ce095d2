package worker

import (
	"context"
	"runtime"
	"sync"

	"github.com/gofhir/sqlonfhir/rowgen"
)

// BatchProjector provides a simple interface for batch projection: run
// one ViewDefinition over many resources, without the caller managing
// a Pool's lifecycle directly.
type BatchProjector struct {
	project BatchProjectFunc
	workers int
}

// BatchProjectFunc is the function signature for projecting a single
// resource.
type BatchProjectFunc func(ctx context.Context, resource []byte) ([]*rowgen.Row, error)

// NewBatchProjector creates a new batch projector.
func NewBatchProjector(project BatchProjectFunc, workers int) *BatchProjector {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchProjector{
		project: project,
		workers: workers,
	}
}

// ProjectBatch projects multiple resources, preserving input order in
// the returned BatchResult. Three or more resources are projected in
// parallel; one or two are projected sequentially.
func (bp *BatchProjector) ProjectBatch(ctx context.Context, resources [][]byte) *BatchResult {
	if len(resources) == 0 {
		return &BatchResult{Results: make([]*JobResult, 0)}
	}

	if len(resources) <= 2 {
		return bp.projectSequential(ctx, resources)
	}

	return bp.projectParallel(ctx, resources)
}

func (bp *BatchProjector) projectSequential(ctx context.Context, resources [][]byte) *BatchResult {
	results := make([]*JobResult, 0, len(resources))

	for _, resource := range resources {
		select {
		case <-ctx.Done():
			return &BatchResult{
				Results:       results,
				TotalJobs:     len(resources),
				CompletedJobs: len(results),
			}
		default:
		}

		rows, err := bp.project(ctx, resource)
		results = append(results, &JobResult{Rows: rows, Error: err})
	}

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(resources),
		CompletedJobs: len(results),
		FailedJobs:    failed,
	}
}

func (bp *BatchProjector) projectParallel(ctx context.Context, resources [][]byte) *BatchResult {
	numWorkers := bp.workers
	if numWorkers > len(resources) {
		numWorkers = len(resources)
	}

	jobs := make(chan indexedResource, len(resources))
	resultsChan := make(chan *indexedResult, len(resources))

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				rows, err := bp.project(ctx, job.resource)
				resultsChan <- &indexedResult{index: job.index, rows: rows, err: err}
			}
		}()
	}

	go func() {
		for i, resource := range resources {
			select {
			case <-ctx.Done():
				break
			case jobs <- indexedResource{index: i, resource: resource}:
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]*JobResult, len(resources))
	completed := 0
	failed := 0

	for ir := range resultsChan {
		results[ir.index] = &JobResult{Rows: ir.rows, Error: ir.err}
		completed++
		if ir.err != nil {
			failed++
		}
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(resources),
		CompletedJobs: completed,
		FailedJobs:    failed,
	}
}

type indexedResource struct {
	index    int
	resource []byte
}

type indexedResult struct {
	index int
	rows  []*rowgen.Row
	err   error
}

// ProjectBatchSimple is a convenience function for one-off batch
// projection without constructing a BatchProjector explicitly.
func ProjectBatchSimple(ctx context.Context, project BatchProjectFunc, resources [][]byte) *BatchResult {
	bp := NewBatchProjector(project, runtime.NumCPU())
	return bp.ProjectBatch(ctx, resources)
}
