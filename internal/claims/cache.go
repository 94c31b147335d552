package claims

import (
	"context"
	"errors"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ErrThrottled is returned by Refresh when manual refreshes arrive faster
// than the configured rate.
var ErrThrottled = errors.New("refresh throttled")

const (
	listKey        = "claims"
	claimKeyPrefix = "claim:"

	DefaultCacheTTL     = 5 * time.Minute
	DefaultRefreshEvery = 2 * time.Second
)

// CachedSource puts a TTL cache in front of another Source and rate limits
// forced refreshes.
type CachedSource struct {
	src     Source
	cache   *gocache.Cache
	limiter *rate.Limiter
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps src. Non-positive durations fall back to the
// defaults; refreshEvery bounds how often Refresh may bypass the cache.
func NewCachedSource(src Source, ttl, refreshEvery time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if refreshEvery <= 0 {
		refreshEvery = DefaultRefreshEvery
	}
	return &CachedSource{
		src:     src,
		cache:   gocache.New(ttl, ttl*2),
		limiter: rate.NewLimiter(rate.Every(refreshEvery), 1),
	}
}

// FetchClaims returns the cached collection when fresh, otherwise fetches
// and caches it. Callers receive their own copy.
func (s *CachedSource) FetchClaims(ctx context.Context) ([]Claim, error) {
	if cached, ok := s.cache.Get(listKey); ok {
		return slices.Clone(cached.([]Claim)), nil
	}
	return s.load(ctx)
}

// FetchClaim serves a single claim from the cache or the wrapped source.
func (s *CachedSource) FetchClaim(ctx context.Context, id string) (Claim, error) {
	key := claimKeyPrefix + id
	if cached, ok := s.cache.Get(key); ok {
		return cached.(Claim), nil
	}
	claim, err := s.src.FetchClaim(ctx, id)
	if err != nil {
		return Claim{}, err
	}
	s.cache.SetDefault(key, claim)
	return claim, nil
}

// RefetchClaim reads one claim from the wrapped source, bypassing the
// cache, and stores the result. A claim the source no longer knows is
// evicted.
func (s *CachedSource) RefetchClaim(ctx context.Context, id string) (Claim, error) {
	key := claimKeyPrefix + id
	claim, err := s.src.FetchClaim(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.cache.Delete(key)
		}
		return Claim{}, err
	}
	s.cache.SetDefault(key, claim)
	return claim, nil
}

// Refresh drops cached data and refetches the collection. It returns
// ErrThrottled without touching the cache when called too often.
func (s *CachedSource) Refresh(ctx context.Context) ([]Claim, error) {
	if !s.limiter.Allow() {
		return nil, ErrThrottled
	}
	s.Invalidate()
	return s.load(ctx)
}

// Invalidate removes every cached entry.
func (s *CachedSource) Invalidate() {
	s.cache.Flush()
}

func (s *CachedSource) load(ctx context.Context) ([]Claim, error) {
	items, err := s.src.FetchClaims(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(listKey, slices.Clone(items))
	for _, c := range items {
		if c.ID != "" {
			s.cache.SetDefault(claimKeyPrefix+c.ID, c)
		}
	}
	return items, nil
}
