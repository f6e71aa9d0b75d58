package engine

import "go.uber.org/zap"

// ============================================================================
// ENGINE OPTIONS — Functional options for engine entry points
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger  *zap.Logger
	Compare CompareFunc // cell comparator used by SortRows
}

// WithLogger routes engine debug events to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithCompare replaces the natural cell ordering used for table sorting.
// The function returns <0, 0, >0 for ascending order; descending keys
// negate it.
func WithCompare(fn CompareFunc) Option {
	return func(c *config) {
		if fn != nil {
			c.Compare = fn
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger:  zap.NewNop(),
		Compare: NaturalCompare,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
