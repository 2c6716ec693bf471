package memory

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold is the entry count above which Revoke drops expired entries.
const sweepThreshold = 1024

// Revocations is an in-process refresh-token denylist. Expired entries are
// dropped when checked and swept from Revoke once the map grows past
// sweepThreshold.
type Revocations struct {
	mu        sync.Mutex
	entries   map[string]time.Time
	threshold int
	now       func() time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{entries: make(map[string]time.Time), threshold: sweepThreshold, now: time.Now}
}

func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until, ok := r.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !r.now().Before(until) {
		delete(r.entries, tokenID)
		return false, nil
	}
	return true, nil
}

func (r *Revocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if len(r.entries) >= r.threshold {
		r.sweep(now)
	}
	r.entries[tokenID] = now.Add(ttl)
	return nil
}

// Len reports the number of stored entries, expired or not.
func (r *Revocations) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Revocations) sweep(now time.Time) {
	for id, until := range r.entries {
		if !now.Before(until) {
			delete(r.entries, id)
		}
	}
}
