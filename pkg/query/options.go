package query

import (
	"github.com/Sternrassler/pokedex-client/pkg/cache"
	"github.com/Sternrassler/pokedex-client/pkg/logging"
	"github.com/rs/zerolog"
)

type options struct {
	policy    cache.Policy
	hasPolicy bool
	logger    zerolog.Logger
}

// Option configures a coordinator.
type Option func(*options)

// WithPolicy overrides the coordinator's freshness and eviction windows.
func WithPolicy(p cache.Policy) Option {
	return func(o *options) {
		o.policy = p
		o.hasPolicy = true
	}
}

// WithLogger sets the coordinator logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(defaultPolicy cache.Policy, opts []Option) options {
	o := options{logger: logging.NewLogger("query")}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasPolicy {
		o.policy = defaultPolicy
	}
	return o
}
