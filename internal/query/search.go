package query

import (
	"strings"

	"github.com/five82/claimdeck/internal/claims"
)

// Search keeps items whose number, holder or policy number contains term,
// ignoring case. A blank term returns items itself.
func Search[T claims.Record](items []T, term string) []T {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesTerm(item.Fields(), needle) {
			out = append(out, item)
		}
	}
	return out
}

func matchesTerm(c claims.Claim, needle string) bool {
	return strings.Contains(strings.ToLower(c.Number), needle) ||
		strings.Contains(strings.ToLower(c.Holder), needle) ||
		strings.Contains(strings.ToLower(c.PolicyNumber), needle)
}
