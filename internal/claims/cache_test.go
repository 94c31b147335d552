package claims

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	mu         sync.Mutex
	items      []Claim
	listCalls  int
	claimCalls int
	err        error
}

func (f *fakeSource) FetchClaims(context.Context) ([]Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Claim, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeSource) FetchClaim(_ context.Context, id string) (Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimCalls++
	for _, c := range f.items {
		if c.ID == id {
			return c, nil
		}
	}
	return Claim{}, ErrNotFound
}

func TestCachedSource_ServesFromCacheUntilInvalidated(t *testing.T) {
	src := &fakeSource{items: []Claim{{ID: "1", Number: "CL-1"}, {ID: "2", Number: "CL-2"}}}
	cached := NewCachedSource(src, time.Minute, time.Hour)
	ctx := context.Background()

	first, err := cached.FetchClaims(ctx)
	if err != nil {
		t.Fatalf("FetchClaims returned error: %v", err)
	}
	first[0].Number = "mutated"

	second, err := cached.FetchClaims(ctx)
	if err != nil {
		t.Fatalf("FetchClaims returned error: %v", err)
	}
	if src.listCalls != 1 {
		t.Fatalf("listCalls = %d, want 1", src.listCalls)
	}
	if second[0].Number != "CL-1" {
		t.Fatalf("cached claim = %q, want CL-1 (caller mutation leaked)", second[0].Number)
	}

	claim, err := cached.FetchClaim(ctx, "2")
	if err != nil {
		t.Fatalf("FetchClaim returned error: %v", err)
	}
	if claim.Number != "CL-2" || src.claimCalls != 0 {
		t.Fatalf("FetchClaim = %#v after %d source calls, want CL-2 from cache", claim, src.claimCalls)
	}

	cached.Invalidate()
	if _, err := cached.FetchClaims(ctx); err != nil {
		t.Fatalf("FetchClaims returned error: %v", err)
	}
	if src.listCalls != 2 {
		t.Fatalf("listCalls after Invalidate = %d, want 2", src.listCalls)
	}
}

func TestCachedSource_RefreshIsThrottled(t *testing.T) {
	src := &fakeSource{items: []Claim{{ID: "1"}}}
	cached := NewCachedSource(src, time.Minute, time.Hour)
	ctx := context.Background()

	if _, err := cached.Refresh(ctx); err != nil {
		t.Fatalf("first Refresh returned error: %v", err)
	}
	if _, err := cached.Refresh(ctx); !errors.Is(err, ErrThrottled) {
		t.Fatalf("second Refresh error = %v, want ErrThrottled", err)
	}
	if src.listCalls != 1 {
		t.Fatalf("listCalls = %d, want 1", src.listCalls)
	}
}

func TestCachedSource_ErrorsAreNotCached(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{err: boom}
	cached := NewCachedSource(src, time.Minute, time.Hour)

	if _, err := cached.FetchClaims(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("FetchClaims error = %v, want boom", err)
	}
	src.err = nil
	src.items = []Claim{{ID: "1"}}
	items, err := cached.FetchClaims(context.Background())
	if err != nil || len(items) != 1 {
		t.Fatalf("FetchClaims = %v, %v; want 1 item", items, err)
	}
}

func TestCachedSource_FetchClaimMissPropagatesNotFound(t *testing.T) {
	cached := NewCachedSource(&fakeSource{}, time.Minute, time.Hour)
	if _, err := cached.FetchClaim(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FetchClaim error = %v, want ErrNotFound", err)
	}
}

func TestCachedSource_RefetchClaimBypassesCache(t *testing.T) {
	src := &fakeSource{items: []Claim{{ID: "1", Number: "CL-1", Status: "Submitted"}}}
	cached := NewCachedSource(src, time.Minute, time.Hour)
	ctx := context.Background()

	if _, err := cached.FetchClaims(ctx); err != nil {
		t.Fatalf("FetchClaims returned error: %v", err)
	}
	src.mu.Lock()
	src.items[0].Status = "Approved"
	src.mu.Unlock()

	claim, err := cached.RefetchClaim(ctx, "1")
	if err != nil {
		t.Fatalf("RefetchClaim returned error: %v", err)
	}
	if claim.Status != "Approved" || src.claimCalls != 1 {
		t.Fatalf("RefetchClaim = %#v after %d source calls, want fresh Approved claim", claim, src.claimCalls)
	}
	if got, _ := cached.FetchClaim(ctx, "1"); got.Status != "Approved" {
		t.Fatalf("cache not updated by RefetchClaim: %#v", got)
	}

	src.mu.Lock()
	src.items = nil
	src.mu.Unlock()
	if _, err := cached.RefetchClaim(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("RefetchClaim error = %v, want ErrNotFound", err)
	}
	if _, err := cached.FetchClaim(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("evicted claim still served from cache: %v", err)
	}
}
