package sqlonfhir

import (
	"time"

	"github.com/gofhir/sqlonfhir/fhirvalue"
	"github.com/gofhir/sqlonfhir/rowgen"
	"github.com/gofhir/sqlonfhir/viewdef"
)

// Engine parses ViewDefinitions and projects resources against them,
// sharing one expression cache size and one Metrics instance across
// every call. An Engine has no mutable per-call state beyond the
// Metrics counters, so it is safe to share across goroutines (spec
// §5).
type Engine struct {
	opts    *Options
	metrics *Metrics
}

// New creates an Engine with the given options applied over the
// defaults.
func New(opts ...Option) *Engine {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Engine{
		opts:    options,
		metrics: NewMetrics(),
	}
}

// Metrics returns the engine's shared metrics collector.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// ParseView parses and validates a ViewDefinition using this engine's
// configured name-checking strictness and expression cache size,
// unless overridden by an explicit viewdef.Option.
func (e *Engine) ParseView(jsonText []byte, opts ...viewdef.Option) (*viewdef.ViewDefinition, error) {
	allOpts := append([]viewdef.Option{
		viewdef.WithCheckName(e.opts.StrictNames),
		viewdef.WithExpressionCacheSize(e.opts.ExpressionCacheSize),
	}, opts...)
	return viewdef.Parse(jsonText, allOpts...)
}

// Apply projects one FHIR resource (as JSON bytes) through a parsed
// ViewDefinition, recording the call in the engine's Metrics (spec §6
// "ViewDefinition::apply(resource) -> rows").
func (e *Engine) Apply(view *viewdef.ViewDefinition, resourceJSON []byte) ([]*rowgen.Row, error) {
	start := time.Now()
	resource, err := fhirvalue.NewResource(resourceJSON)
	if err != nil {
		e.metrics.RecordProjection(time.Since(start), 0, err)
		return nil, err
	}

	rows, err := rowgen.Project(view, resource)
	e.metrics.RecordProjection(time.Since(start), len(rows), err)
	return rows, err
}

// ApplyResource projects an already-decoded fhirvalue.Resource, for
// callers that decoded a Bundle themselves and want to project one
// entry without re-marshaling it back to JSON.
func (e *Engine) ApplyResource(view *viewdef.ViewDefinition, resource fhirvalue.Resource) ([]*rowgen.Row, error) {
	start := time.Now()
	rows, err := rowgen.Project(view, resource)
	e.metrics.RecordProjection(time.Since(start), len(rows), err)
	return rows, err
}
