package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/claimdeck/internal/claims"
)

func TestStore_UpdateClonesInput(t *testing.T) {
	var s Store

	items := []claims.Claim{{ID: "1"}, {ID: "2"}}

	before := time.Now()
	s.Update(items, nil)

	snap := s.Snapshot()
	if !snap.HasData || snap.Version != 1 {
		t.Fatalf("snapshot = HasData %v Version %d, want true/1", snap.HasData, snap.Version)
	}
	if len(snap.Claims) != 2 || snap.Claims[0].ID != "1" {
		t.Fatalf("snapshot claims = %#v, want 2 items", snap.Claims)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// The caller keeps ownership of the slice it passed in.
	items[0].ID = "999"
	if s.Snapshot().Claims[0].ID != "1" {
		t.Fatalf("Update should clone claims; got id %q want 1", s.Snapshot().Claims[0].ID)
	}
}

func TestStore_SnapshotSharesCollectionUntilNextUpdate(t *testing.T) {
	var s Store
	s.Update([]claims.Claim{{ID: "1"}}, nil)

	a := s.Snapshot()
	b := s.Snapshot()
	if &a.Claims[0] != &b.Claims[0] {
		t.Fatalf("Snapshot should return the same collection between updates")
	}

	s.Update([]claims.Claim{{ID: "1"}}, nil)
	same := s.Snapshot()
	if &a.Claims[0] != &same.Claims[0] || same.Version != 1 {
		t.Fatalf("an unchanged collection should keep its slice and version")
	}

	s.Update([]claims.Claim{{ID: "1", Status: "Approved"}}, nil)
	c := s.Snapshot()
	if &a.Claims[0] == &c.Claims[0] {
		t.Fatalf("Update should install a new collection")
	}
	if c.Version != 2 {
		t.Fatalf("Version = %d, want 2", c.Version)
	}
}

func TestStore_EmptyCollectionIsData(t *testing.T) {
	var s Store
	s.Update(nil, nil)
	snap := s.Snapshot()
	if !snap.HasData || snap.Claims == nil || len(snap.Claims) != 0 {
		t.Fatalf("snapshot = %#v, want HasData with empty claims", snap)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]claims.Claim{{ID: "1"}}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if !snap.HasData || len(snap.Claims) != 1 || snap.Claims[0].ID != "1" {
		t.Fatalf("claims changed on error: got %#v want %#v", snap.Claims, prev.Claims)
	}
	if snap.Version != prev.Version {
		t.Fatalf("Version = %d, want %d after failure", snap.Version, prev.Version)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store = %d failures offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	for i, wantOffline := range []bool{false, true, true} {
		s.Update(nil, errors.New("fail"))
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != i+1 {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i+1)
		}
		if snap.IsOffline() != wantOffline {
			t.Fatalf("IsOffline() = %v after %d failures, want %v", snap.IsOffline(), i+1, wantOffline)
		}
	}

	s.Update([]claims.Claim{}, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success = %d failures offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}
}
