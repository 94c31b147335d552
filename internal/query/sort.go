package query

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/five82/claimdeck/internal/claims"
)

// SortOption names an ordering of the claims collection.
type SortOption string

const (
	SortCreatedNewest SortOption = "created-newest"
	SortCreatedOldest SortOption = "created-oldest"
	SortAmountHighest SortOption = "amount-highest"
	SortAmountLowest  SortOption = "amount-lowest"
	SortTotalHighest  SortOption = "total-highest"
	SortTotalLowest   SortOption = "total-lowest"

	DefaultSort = SortCreatedNewest
)

var sortLabels = map[SortOption]string{
	SortCreatedNewest: "Created date (newest first)",
	SortCreatedOldest: "Created date (oldest first)",
	SortAmountHighest: "Claim amount (highest)",
	SortAmountLowest:  "Claim amount (lowest)",
	SortTotalHighest:  "Total amount (highest)",
	SortTotalLowest:   "Total amount (lowest)",
}

// SortOptions lists every known option in menu order.
func SortOptions() []SortOption {
	return []SortOption{
		SortCreatedNewest,
		SortCreatedOldest,
		SortAmountHighest,
		SortAmountLowest,
		SortTotalHighest,
		SortTotalLowest,
	}
}

// ParseSortOption accepts an option name in any case.
func ParseSortOption(value string) (SortOption, error) {
	opt := SortOption(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := sortLabels[opt]; !ok {
		return "", fmt.Errorf("unknown sort option %q", value)
	}
	return opt, nil
}

// Valid reports whether o is a known option.
func (o SortOption) Valid() bool {
	_, ok := sortLabels[o]
	return ok
}

// Label is the human-readable name of o.
func (o SortOption) Label() string {
	if label, ok := sortLabels[o]; ok {
		return label
	}
	return string(o)
}

// Next cycles through SortOptions, wrapping at the end.
func (o SortOption) Next() SortOption {
	opts := SortOptions()
	i := slices.Index(opts, o)
	return opts[(i+1)%len(opts)]
}

// Ascending reports whether o orders smallest or oldest first.
func (o SortOption) Ascending() bool {
	return o == SortCreatedOldest || o == SortAmountLowest || o == SortTotalLowest
}

type sortKeyFunc func(claims.Claim) float64

func (o SortOption) key() sortKeyFunc {
	switch o {
	case SortCreatedNewest, SortCreatedOldest:
		return createdKey
	case SortAmountHighest, SortAmountLowest:
		return claims.Claim.AmountValue
	case SortTotalHighest, SortTotalLowest:
		return claims.Claim.TotalValue
	default:
		return nil
	}
}

func createdKey(c claims.Claim) float64 {
	t, ok := c.CreatedTime()
	if !ok {
		return math.NaN()
	}
	return float64(t.UnixMilli())
}

// SortClaims returns a sorted copy of items; items is never reordered. The
// sort is stable. Unparseable keys order before every number ascending and
// after every number descending. An unknown option returns an unsorted copy.
func SortClaims[T claims.Record](items []T, opt SortOption) []T {
	out := slices.Clone(items)
	keyOf := opt.key()
	if keyOf == nil || len(out) < 2 {
		return out
	}

	type keyed struct {
		key  float64
		item T
	}
	decorated := make([]keyed, len(out))
	for i, item := range out {
		decorated[i] = keyed{key: keyOf(item.Fields()), item: item}
	}
	asc := opt.Ascending()
	slices.SortStableFunc(decorated, func(a, b keyed) int {
		if asc {
			return cmp.Compare(a.key, b.key)
		}
		return cmp.Compare(b.key, a.key)
	})
	for i := range decorated {
		out[i] = decorated[i].item
	}
	return out
}
