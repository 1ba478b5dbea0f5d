package priority

import (
	"github.com/davidvella/minpq/metrics"
	"go.uber.org/zap"
)

// DefaultCapacity is the initial capacity hint of the backing sequence.
const DefaultCapacity = 16

// options defines all configuration options for a queue.
type options struct {
	capacity int
	logger   *zap.Logger
	registry *metrics.Registry
}

// Option is a function that configures the queue options.
type Option func(*options)

// WithCapacity sets the initial capacity hint of the backing sequence.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLogger sets the logger used to report misuse. A nil logger disables
// logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records queue operations in r.
func WithMetrics(r *metrics.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		capacity: DefaultCapacity,
		logger:   zap.NewNop(),
	}
}
