package parjoin

// Option configures a join, following the functional-options pattern.
type Option func(*config)

type config struct {
	logger Logger
}

func newConfig(opts []Option) config {
	cfg := config{logger: defaultLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger overrides the logger used by a single join, instead of the
// package-level default set via SetLogger.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
