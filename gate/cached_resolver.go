package gate

import (
	"context"
	"sync"
	"time"
)

// CachedResolver memoizes another resolver for ttl so that each request
// does not hit the database for the same user.
type CachedResolver[U comparable] struct {
	inner ProfileResolver[U]
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[U]cachedProfile
}

type cachedProfile struct {
	profile   Profile
	expiresAt time.Time
}

// NewCachedResolver wraps inner with a TTL cache.
func NewCachedResolver[U comparable](inner ProfileResolver[U], ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[U]cachedProfile),
	}
}

// Resolve returns the cached profile while fresh, else asks inner.
// Errors are not cached.
func (r *CachedResolver[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	r.mu.RLock()
	e, ok := r.entries[user]
	r.mu.RUnlock()
	if ok && r.now().Before(e.expiresAt) {
		return e.profile, nil
	}

	profile, err := r.inner.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.entries[user] = cachedProfile{profile: profile, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return profile, nil
}

// Invalidate drops the entry of one user, e.g. after a profile change.
func (r *CachedResolver[U]) Invalidate(user U) {
	r.mu.Lock()
	delete(r.entries, user)
	r.mu.Unlock()
}

// InvalidateAll empties the cache.
func (r *CachedResolver[U]) InvalidateAll() {
	r.mu.Lock()
	r.entries = make(map[U]cachedProfile)
	r.mu.Unlock()
}
