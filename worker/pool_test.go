package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofhir/sqlonfhir/rowgen"
)

func countingProject(calls *atomic.Int32, delay time.Duration, err error) ProjectFunc {
	return func(resource []byte) ([]*rowgen.Row, error) {
		calls.Add(1)
		if delay > 0 {
			time.Sleep(delay)
		}
		if err != nil {
			return nil, err
		}
		return nil, nil
	}
}

func TestPoolNewPoolDefaultsWorkers(t *testing.T) {
	pool := NewPool(countingProject(new(atomic.Int32), 0, nil), 0)
	defer pool.Close()

	if pool.workers <= 0 {
		t.Fatalf("expected default worker count, got %d", pool.workers)
	}
}

func TestPoolNewPoolExplicitWorkers(t *testing.T) {
	pool := NewPool(countingProject(new(atomic.Int32), 0, nil), 3)
	defer pool.Close()

	if pool.workers != 3 {
		t.Fatalf("workers = %d, want 3", pool.workers)
	}
}

func TestPoolSubmitAndCloseAndWait(t *testing.T) {
	var calls atomic.Int32
	pool := NewPool(countingProject(&calls, 0, nil), 2)

	for i := 0; i < 5; i++ {
		if !pool.Submit(Job{ID: "job", Resource: []byte("{}")}) {
			t.Fatalf("expected submit to succeed")
		}
	}

	result := pool.CloseAndWait()
	if result.TotalJobs != 5 || result.CompletedJobs != 5 {
		t.Fatalf("got %+v", result)
	}
	if calls.Load() != 5 {
		t.Fatalf("got %d calls, want 5", calls.Load())
	}
}

func TestPoolPropagatesErrors(t *testing.T) {
	var calls atomic.Int32
	failure := errors.New("boom")
	pool := NewPool(countingProject(&calls, 0, failure), 1)

	pool.Submit(Job{ID: "job"})
	result := pool.CloseAndWait()

	if !result.HasErrors() {
		t.Fatalf("expected HasErrors to be true")
	}
	if result.FailedJobs != 1 {
		t.Fatalf("got FailedJobs=%d, want 1", result.FailedJobs)
	}
}

func TestPoolSubmitAfterCloseFails(t *testing.T) {
	pool := NewPool(countingProject(new(atomic.Int32), 0, nil), 1)
	pool.Close()

	if pool.Submit(Job{ID: "late"}) {
		t.Fatalf("expected submit after close to fail")
	}
}

func TestPoolNoProjectorConfigured(t *testing.T) {
	pool := NewPool(nil, 1)
	pool.Submit(Job{ID: "job"})
	result := pool.CloseAndWait()

	if len(result.Results) != 1 || result.Results[0].Error != ErrNoProjector {
		t.Fatalf("got %+v", result.Results)
	}
}

func TestBatchProjectorProjectBatchPreservesOrder(t *testing.T) {
	project := func(ctx context.Context, resource []byte) ([]*rowgen.Row, error) {
		return nil, nil
	}
	bp := NewBatchProjector(project, 4)

	resources := make([][]byte, 10)
	for i := range resources {
		resources[i] = []byte("{}")
	}

	result := bp.ProjectBatch(context.Background(), resources)
	if result.TotalJobs != 10 || result.CompletedJobs != 10 {
		t.Fatalf("got %+v", result)
	}
}

func TestBatchProjectorEmptyInput(t *testing.T) {
	bp := NewBatchProjector(func(ctx context.Context, resource []byte) ([]*rowgen.Row, error) {
		return nil, nil
	}, 2)

	result := bp.ProjectBatch(context.Background(), nil)
	if result.TotalJobs != 0 {
		t.Fatalf("got %+v", result)
	}
}

func TestBatchProjectorSequentialForSmallInput(t *testing.T) {
	var calls atomic.Int32
	bp := NewBatchProjector(func(ctx context.Context, resource []byte) ([]*rowgen.Row, error) {
		calls.Add(1)
		return nil, nil
	}, 4)

	result := bp.ProjectBatch(context.Background(), [][]byte{[]byte("{}"), []byte("{}")})
	if result.TotalJobs != 2 || calls.Load() != 2 {
		t.Fatalf("got %+v, calls=%d", result, calls.Load())
	}
}
