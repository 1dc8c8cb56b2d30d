package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a key from the network.
type FetchFunc func(ctx context.Context) (any, error)

// Store is an in-memory query cache. One Store is shared by every
// coordinator of a process; it is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]*Entry

	// observers counts holds per key, including keys without an entry yet
	observers map[string]int

	group  singleflight.Group
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now (for testing).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries:   make(map[string]*Entry),
		observers: make(map[string]int),
		now:       time.Now,
		logger:    logging.NewLogger("query-cache"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns the cached value for key and whether it is still fresh.
// ok is false on a miss or when the entry was evicted for disuse.
// A successful lookup counts as use of the entry.
func (s *Store) Lookup(key Key) (value any, fresh bool, ok bool) {
	cacheKey := key.String()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[cacheKey]
	if !exists {
		CacheMisses.Inc()
		s.logger.Debug().Str("key", cacheKey).Msg("Cache miss")
		return nil, false, false
	}

	if entry.IsEvictable(now) {
		s.evictLocked(cacheKey)
		CacheMisses.Inc()
		return nil, false, false
	}

	entry.LastAccess = now
	fresh = entry.IsFresh(now)
	if fresh {
		CacheHits.WithLabelValues("fresh").Inc()
	} else {
		CacheHits.WithLabelValues("stale").Inc()
	}

	s.logger.Debug().
		Str("key", cacheKey).
		Bool("fresh", fresh).
		Dur("age", entry.Age(now)).
		Msg("Cache hit")

	return entry.Value, fresh, true
}

// Peek returns a copy of the entry for key without counting it as use.
func (s *Store) Peek(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key.String()]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Set stores value under key, stamping it as fetched now.
func (s *Store) Set(key Key, policy Policy, value any) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	cacheKey := key.String()
	s.entries[cacheKey] = &Entry{
		Value:      value,
		UpdatedAt:  now,
		LastAccess: now,
		Observers:  s.observers[cacheKey],
		Policy:     policy,
	}
	CacheEntries.Set(float64(len(s.entries)))
}

// Fetch runs fn and stores its result under key. Concurrent calls for the
// same key share one execution of fn and receive the same result.
//
// fn runs on a context detached from ctx's cancellation, so a caller that
// stops waiting does not fail the others. Errors are returned, not cached.
func (s *Store) Fetch(ctx context.Context, key Key, policy Policy, fn FetchFunc) (any, error) {
	cacheKey := key.String()
	shared := context.WithoutCancel(ctx)

	leader := false
	ch := s.group.DoChan(cacheKey, func() (any, error) {
		leader = true

		value, err := fn(shared)
		if err != nil {
			FetchErrors.WithLabelValues(key.Kind).Inc()
			return nil, err
		}
		s.Set(key, policy, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if !leader {
			DedupedFetches.Inc()
			s.logger.Debug().Str("key", cacheKey).Msg("Joined in-flight fetch")
		}
		return res.Val, res.Err
	}
}

// Acquire registers an observer of key. An entry that already outlived its
// disuse window is evicted first. An observed entry is never evicted; its
// disuse window starts when the last observer calls Release.
func (s *Store) Acquire(key Key) {
	cacheKey := key.String()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[cacheKey]
	if ok && entry.IsEvictable(now) {
		s.evictLocked(cacheKey)
		ok = false
	}

	s.observers[cacheKey]++
	if ok {
		entry.Observers = s.observers[cacheKey]
	}
}

// Release removes an observer registered with Acquire. Releasing a key
// without observers is a no-op.
func (s *Store) Release(key Key) {
	cacheKey := key.String()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.observers[cacheKey]
	if n == 0 {
		return
	}
	n--
	if n == 0 {
		delete(s.observers, cacheKey)
	} else {
		s.observers[cacheKey] = n
	}

	if entry, ok := s.entries[cacheKey]; ok {
		entry.Observers = n
		if n == 0 {
			entry.LastAccess = now
		}
	}
}

// Remove deletes the entry for key.
func (s *Store) Remove(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key.String())
	CacheEntries.Set(float64(len(s.entries)))
}

// Len returns the number of entries, evictable ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep evicts every unobserved entry unused for its GCTime and returns
// how many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for cacheKey, entry := range s.entries {
		if entry.IsEvictable(now) {
			s.evictLocked(cacheKey)
			evicted++
		}
	}
	return evicted
}

// Run sweeps the store every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug().Int("evicted", n).Msg("Cache sweep")
			}
		}
	}
}

func (s *Store) evictLocked(cacheKey string) {
	delete(s.entries, cacheKey)
	CacheEvictions.Inc()
	CacheEntries.Set(float64(len(s.entries)))
	s.logger.Debug().Str("key", cacheKey).Msg("Cache entry evicted")
}
