package graphembed

// Options configures the pipeline facade.
type Options struct {
	// Logger receives structured pipeline progress.
	Logger *Logger

	// Workers is the propagation worker count per relation.
	// Defaults to runtime.GOMAXPROCS(0).
	Workers int

	// MaxConcurrentRelations caps how many relations are processed at
	// once by Run. Defaults to the number of relations (no cap).
	MaxConcurrentRelations int
}

// Option customizes pipeline options.
type Option func(*Options)

// WithLogger sets the structured logger.
func WithLogger(l *Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithWorkers sets the propagation worker count per relation.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithMaxConcurrentRelations caps the number of relations processed
// concurrently by Run.
func WithMaxConcurrentRelations(n int) Option {
	return func(o *Options) {
		o.MaxConcurrentRelations = n
	}
}
