package prompt

import (
	"github.com/modekit/modekit/pkg/internal"
)

// Deps holds the collaborators injected into the storage gateway, catalog
// cache, and manager: a clock for backup naming and staleness checks, and a
// fetcher for remote document and catalog retrieval.
type Deps struct {
	Clock   internal.Clock
	Fetcher Fetcher
}

// ApplyDefaults populates conservative defaults on the receiver. Safe to
// call on a nil receiver (no-op).
func (deps *Deps) ApplyDefaults() {
	if deps == nil {
		return
	}
	if deps.Clock == nil {
		deps.Clock = internal.RealClock{}
	}
	if deps.Fetcher == nil {
		deps.Fetcher = NewHTTPFetcher(nil)
	}
}

// Option is a functional option type for configuring a Deps value.
type Option = func(*Deps)

// WithClock returns an Option that injects the provided Clock.
func WithClock(clock internal.Clock) Option {
	return func(deps *Deps) { deps.Clock = clock }
}

// WithFetcher returns an Option that injects the provided Fetcher.
func WithFetcher(fetcher Fetcher) Option {
	return func(deps *Deps) { deps.Fetcher = fetcher }
}

// NewDeps constructs a Deps value from the provided functional options with
// defaults filled in. Nil options are ignored.
func NewDeps(opts ...Option) *Deps {
	deps := &Deps{}
	for _, o := range opts {
		if o == nil {
			continue
		}
		o(deps)
	}
	deps.ApplyDefaults()
	return deps
}
