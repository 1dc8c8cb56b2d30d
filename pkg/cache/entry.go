package cache

import (
	"time"
)

// Policy controls how long an entry is served without a network call and
// how long it survives without being used.
type Policy struct {
	// StaleTime is the freshness window after a successful fetch
	StaleTime time.Duration

	// GCTime is the disuse period after which the entry is evicted
	GCTime time.Duration
}

// Policies used by the list and detail coordinators.
var (
	ListPolicy   = Policy{StaleTime: 5 * time.Minute, GCTime: 10 * time.Minute}
	DetailPolicy = Policy{StaleTime: 10 * time.Minute, GCTime: 15 * time.Minute}
)

// Entry is one cached result.
type Entry struct {
	// Value is the decoded result; never mutated after it is stored
	Value any

	// UpdatedAt is when the value was fetched
	UpdatedAt time.Time

	// LastAccess is when the entry was last read, written or released by
	// its last observer
	LastAccess time.Time

	// Observers is the number of active coordinators bound to the key
	Observers int

	Policy Policy
}

// IsFresh reports whether the entry is inside its freshness window at now.
func (e *Entry) IsFresh(now time.Time) bool {
	return now.Sub(e.UpdatedAt) < e.Policy.StaleTime
}

// IsEvictable reports whether the entry is unobserved and has been unused
// for at least GCTime.
func (e *Entry) IsEvictable(now time.Time) bool {
	return e.Observers == 0 && now.Sub(e.LastAccess) >= e.Policy.GCTime
}

// Age returns the time since the value was fetched.
// Returns 0 if UpdatedAt lies in the future.
func (e *Entry) Age(now time.Time) time.Duration {
	age := now.Sub(e.UpdatedAt)
	if age < 0 {
		return 0
	}
	return age
}
