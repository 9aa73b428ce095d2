package viewdef

// Option configures Parse/ParseFile. Modelled on the teacher's
// functional-options pattern (root package's Option func(*Options)):
// a closure type plus With* constructors, so new knobs can be added
// without breaking existing call sites.
type Option func(*ParseOptions)

// ParseOptions holds validation behaviour toggles for a single Parse
// call.
type ParseOptions struct {
	// CheckName enables sql-name validation of ViewDefinition.Name
	// (spec §4.1 step 2, "production mode"). Disabling it is useful for
	// tooling that inspects informally-named draft ViewDefinitions.
	CheckName bool

	// ExpressionCacheSize bounds the shared compiled-expression cache
	// (spec §9 "Expression caching"). Zero disables caching.
	ExpressionCacheSize int
}

// DefaultParseOptions returns the default configuration: name checking
// on, a modestly sized expression cache.
func DefaultParseOptions() *ParseOptions {
	return &ParseOptions{
		CheckName:           true,
		ExpressionCacheSize: 512,
	}
}

// WithCheckName toggles sql-name validation of the ViewDefinition name.
func WithCheckName(enable bool) Option {
	return func(o *ParseOptions) {
		o.CheckName = enable
	}
}

// WithExpressionCacheSize overrides the compiled-expression cache
// capacity.
func WithExpressionCacheSize(size int) Option {
	return func(o *ParseOptions) {
		o.ExpressionCacheSize = size
	}
}

func buildOptions(opts ...Option) *ParseOptions {
	o := DefaultParseOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}
