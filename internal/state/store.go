package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/claimdeck/internal/claims"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Claims              []claims.Claim
	HasData             bool
	Version             uint64 // bumped on every successful update
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
//
// The stored claims slice is never mutated after Update installs it, so
// Snapshot hands out the same slice until the next successful update. Its
// identity doubles as a change marker for memoized consumers; callers must
// not write through it.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update installs a freshly fetched collection. When err is non-nil the
// previous collection is kept and the failure is recorded. A collection
// equal to the current one keeps the current slice and Version.
func (s *Store) Update(items []claims.Claim, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if !s.snapshot.HasData || !slices.Equal(s.snapshot.Claims, items) {
		s.snapshot.Claims = cloneClaims(items)
		s.snapshot.Version++
	}
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot header. Claims is shared;
// see Store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneClaims(items []claims.Claim) []claims.Claim {
	if items == nil {
		return []claims.Claim{}
	}
	return slices.Clone(items)
}
