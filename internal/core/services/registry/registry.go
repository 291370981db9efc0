// Package registry owns codec backend lifecycle: lazy construction, a
// ready cache of at most one live instance per algorithm, and single-flight
// de-duplication of concurrent first-use initialization. The registry is
// an explicitly owned object injected into whatever composes the system —
// never an ambient singleton.
package registry

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/iamNilotpal/press/internal/adapters/codec"
	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/pkg/errors"
	"github.com/iamNilotpal/press/pkg/logger"
)

// Registry caches one ready codec per algorithm. Concurrent requests for
// the same uninitialized algorithm collapse onto a single construction; a
// failed construction propagates to every waiter and leaves the cache
// clean so a later call may retry.
type Registry struct {
	opts *domain.Options
	log  *zap.SugaredLogger

	mu     sync.RWMutex
	ready  map[domain.Algorithm]ports.Codec
	flight singleflight.Group
	closed bool
}

// New creates a registry. opts may be nil; log may be nil (discarded).
func New(opts *domain.Options, log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		opts:  opts,
		log:   log,
		ready: make(map[domain.Algorithm]ports.Codec),
	}
}

// Get returns the ready codec for the algorithm, constructing it on first
// use. The context bounds how long a caller waits on an in-flight
// construction; cancellation abandons the wait, not the construction.
func (r *Registry) Get(ctx context.Context, algo domain.Algorithm) (ports.Codec, error) {
	if !algo.IsValid() {
		return nil, errors.New(errors.KindInvalidInput, algo.String(), "get backend: unsupported algorithm")
	}

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, errors.New(errors.KindBackendInit, algo.String(), "get backend: registry closed")
	}
	if c, ok := r.ready[algo]; ok {
		r.mu.RUnlock()
		return c, nil
	}
	r.mu.RUnlock()

	ch := r.flight.DoChan(string(algo), func() (any, error) {
		// A flight that lost the race to a just-completed one reuses its
		// result instead of constructing a duplicate.
		r.mu.RLock()
		if c, ok := r.ready[algo]; ok {
			r.mu.RUnlock()
			return c, nil
		}
		r.mu.RUnlock()

		c, err := codec.New(algo, r.opts)
		if err != nil {
			r.log.Warnw("codec init failed", "algorithm", algo.String(), "error", err)
			return nil, err
		}

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			c.Close()
			return nil, errors.New(errors.KindBackendInit, algo.String(), "get backend: registry closed")
		}
		r.ready[algo] = c
		r.mu.Unlock()

		r.log.Infow("codec ready", "algorithm", algo.String())
		return c, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(ports.Codec), nil
	case <-ctx.Done():
		return nil, errors.Wrap(errors.KindBackendInit, algo.String(), "get backend", ctx.Err())
	}
}

// Preload constructs the backend ahead of first use, discarding the
// result. Eliminates first-call latency.
func (r *Registry) Preload(ctx context.Context, algo domain.Algorithm) error {
	_, err := r.Get(ctx, algo)
	return err
}

// IsReady reports whether the algorithm's backend is cached and ready,
// without triggering initialization.
func (r *Registry) IsReady(algo domain.Algorithm) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ready[algo]
	return ok
}

// Close tears down every cached codec and marks the registry unusable.
// This is the documented teardown path (and the reset path in tests).
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs error
	for algo, c := range r.ready {
		errs = multierr.Append(errs, c.Close())
		delete(r.ready, algo)
	}
	return errs
}
