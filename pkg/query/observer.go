package query

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sternrassler/pokedex-client/pkg/cache"
)

// listeners is a set of change callbacks.
type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

func (l *listeners) add(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

func (l *listeners) notify() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// observer binds one cache key at a time to a State and keeps the state in
// sync with the store. Every input change bumps the generation; results of
// earlier generations are dropped on arrival.
type observer[T any] struct {
	store *cache.Store
	opts  options

	mu         sync.Mutex
	configured bool
	enabled    bool
	key        cache.Key
	keyString  string
	fetch      func(ctx context.Context) (T, error)
	gen        uint64
	state      State[T]

	listeners listeners
	wg        sync.WaitGroup
}

func newObserver[T any](store *cache.Store, opts options) *observer[T] {
	return &observer[T]{store: store, opts: opts}
}

// State returns a snapshot of the current state.
func (o *observer[T]) State() State[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Enabled reports whether the query is active.
func (o *observer[T]) Enabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.enabled
}

// Subscribe registers fn to be called after every state change.
// The returned function removes the subscription.
func (o *observer[T]) Subscribe(fn func()) func() {
	return o.listeners.add(fn)
}

// Wait blocks until every fetch started so far has been applied or discarded.
func (o *observer[T]) Wait() {
	o.wg.Wait()
}

// Refetch forces a network request for the current input, bypassing
// freshness. It is a no-op while the query is disabled.
func (o *observer[T]) Refetch(ctx context.Context) {
	o.mu.Lock()
	if !o.enabled {
		o.mu.Unlock()
		return
	}
	o.loadLocked(ctx, true)
	o.mu.Unlock()

	o.listeners.notify()
}

// configure points the observer at key. Nothing happens when neither the key
// nor the enabled flag changed.
func (o *observer[T]) configure(ctx context.Context, key cache.Key, enabled bool, fetch func(ctx context.Context) (T, error)) {
	keyString := key.String()

	o.mu.Lock()
	if o.configured && o.enabled == enabled && o.keyString == keyString {
		o.mu.Unlock()
		return
	}

	// The enabled observer holds its key so the entry outlives its GCTime
	// while shown.
	if enabled {
		o.store.Acquire(key)
	}
	if o.configured && o.enabled {
		o.store.Release(o.key)
	}

	o.configured = true
	o.gen++
	o.key = key
	o.keyString = keyString
	o.enabled = enabled
	o.fetch = fetch

	if !enabled {
		o.state = State[T]{}
	} else {
		o.loadLocked(ctx, false)
	}
	o.mu.Unlock()

	o.listeners.notify()
}

// loadLocked serves the cached value when possible and starts a fetch
// when the value is missing, stale or force is set.
func (o *observer[T]) loadLocked(ctx context.Context, force bool) {
	if force {
		o.state.IsFetching = true
		if !o.state.HasData {
			o.state.Status = StatusLoading
			o.state.Err = nil
		}
		o.startLocked(ctx)
		return
	}

	if v, fresh, ok := o.store.Lookup(o.key); ok {
		if data, typed := v.(T); typed {
			o.state = State[T]{Data: data, HasData: true, Status: StatusSuccess}
			if fresh {
				return
			}
			o.state.IsFetching = true
			o.startLocked(ctx)
			return
		}
	}

	o.state = State[T]{Status: StatusLoading, IsFetching: true}
	o.startLocked(ctx)
}

func (o *observer[T]) startLocked(ctx context.Context) {
	gen := o.gen
	key := o.key
	fetch := o.fetch

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		v, err := o.store.Fetch(ctx, key, o.opts.policy, func(ctx context.Context) (any, error) {
			data, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			return data, nil
		})
		o.resolve(gen, key, v, err)
	}()
}

func (o *observer[T]) resolve(gen uint64, key cache.Key, v any, err error) {
	o.mu.Lock()
	if gen != o.gen {
		current := o.gen
		o.mu.Unlock()

		staleResponses.WithLabelValues(key.Kind).Inc()
		o.opts.logger.Debug().
			Str("key", key.String()).
			Uint64("generation", gen).
			Uint64("current_generation", current).
			Msg("Discarding stale response")
		return
	}

	o.state.IsFetching = false
	switch data, typed := v.(T); {
	case err != nil:
		o.state.Status = StatusError
		o.state.Err = err
		o.opts.logger.Warn().Err(err).Str("key", key.String()).Msg("Query fetch failed")
	case !typed:
		o.state.Status = StatusError
		o.state.Err = fmt.Errorf("query %s: unexpected cached type %T", key.Kind, v)
	default:
		o.state = State[T]{Data: data, HasData: true, Status: StatusSuccess}
	}
	o.mu.Unlock()

	o.listeners.notify()
}
