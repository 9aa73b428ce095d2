package sqlonfhir

import "runtime"

// Option configures an Engine.
type Option func(*Options)

// Options holds engine-wide configuration: how many ViewDefinitions'
// worth of compiled expressions to cache, how batch projection is
// parallelised, and how strictly ViewDefinition names are checked.
// Per-ViewDefinition parse behavior (WithCheckName,
// WithExpressionCacheSize) lives in viewdef.Option instead — these
// options are the ones that make sense once, for a whole engine
// instance shared across many ViewDefinitions.
type Options struct {
	// WorkerCount is the batch-projection worker count held in the
	// engine's configuration. Defaults to runtime.NumCPU(). No Engine
	// method reads it; worker.Pool and worker.BatchProjector take their
	// own worker count.
	WorkerCount int

	// ExpressionCacheSize is the default fhirpath.CompileCache capacity
	// applied to ViewDefinitions parsed through the Engine, unless a
	// caller passes its own viewdef.Option to override it.
	ExpressionCacheSize int

	// EnablePooling is a pooling flag held in the engine's
	// configuration. No Engine method reads it: issue.Breadcrumb builds
	// breadcrumbs through the pooled pool.JoinPath whatever its value.
	EnablePooling bool

	// StrictNames rejects ViewDefinitions whose name isn't a valid SQL
	// identifier, forwarded to viewdef.WithCheckName.
	StrictNames bool
}

// DefaultOptions returns the default engine configuration.
func DefaultOptions() *Options {
	return &Options{
		WorkerCount:         runtime.NumCPU(),
		ExpressionCacheSize: 2000,
		EnablePooling:       true,
		StrictNames:         true,
	}
}

// WithWorkerCount sets Options.WorkerCount. Values <= 0 are ignored, leaving the default (runtime.NumCPU()).
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithExpressionCache sets the default FHIRPath expression cache size.
func WithExpressionCache(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ExpressionCacheSize = size
		}
	}
}

// WithPooling sets Options.EnablePooling.
func WithPooling(enable bool) Option {
	return func(o *Options) {
		o.EnablePooling = enable
	}
}

// WithStrictNames enables or disables ViewDefinition name validation.
func WithStrictNames(enable bool) Option {
	return func(o *Options) {
		o.StrictNames = enable
	}
}

// FastOptions returns options tuned for throughput: a large expression
// cache and pooling enabled, name checking relaxed for pre-vetted
// ViewDefinitions.
func FastOptions() []Option {
	return []Option{
		WithExpressionCache(5000),
		WithPooling(true),
		WithStrictNames(false),
	}
}

// StrictOptions returns options tuned for authoring: name checking
// enabled so malformed ViewDefinitions fail fast at parse time.
func StrictOptions() []Option {
	return []Option{
		WithStrictNames(true),
	}
}
