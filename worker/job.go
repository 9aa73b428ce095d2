package worker

import "github.com/gofhir/sqlonfhir/rowgen"

// Job represents one resource to project through a fixed
// ViewDefinition, submitted to a Pool.
type Job struct {
	// ID is a caller-supplied identifier for this job, echoed back on
	// the JobResult so results can be matched to submissions.
	ID string

	// Resource is the FHIR resource to project (as JSON bytes).
	Resource []byte
}

// JobResult is the outcome of projecting one Job's resource.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Rows holds the projected rows, nil if Error is set or the
	// resource's resourceType didn't match the view.
	Rows []*rowgen.Row

	// Error contains any error that occurred during projection.
	Error error

	// Duration is the time taken to project (in nanoseconds).
	Duration int64
}

// BatchResult aggregates results from multiple jobs.
type BatchResult struct {
	// Results contains all job results.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs completed (including errors).
	CompletedJobs int

	// FailedJobs is the number of jobs that failed with an error.
	FailedJobs int

	// TotalDuration is the total time for all projections (in
	// nanoseconds).
	TotalDuration int64
}

// HasErrors reports whether any job result failed.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// RowCount returns the total number of rows produced across every job
// result in the batch.
func (br *BatchResult) RowCount() int {
	count := 0
	for _, r := range br.Results {
		count += len(r.Rows)
	}
	return count
}
