package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/claimdeck/internal/claims"
)

func TestPipeline_OrderIsFilterSortSearch(t *testing.T) {
	p := NewPipeline[claims.Claim]()
	got := p.Run(sampleClaims(), Query{
		Statuses: NewStatusSet("Approved", "Submitted"),
		Sort:     SortAmountLowest,
		Term:     "tl-",
	})
	assert.Equal(t, []string{"4", "3", "1"}, ids(got))
}

func TestPipeline_MemoizesUnchangedStages(t *testing.T) {
	p := NewPipeline[claims.Claim]()
	items := sampleClaims()
	q := Query{Sort: SortCreatedNewest}

	first := p.Run(items, q)
	second := p.Run(items, q)
	require.NotEmpty(t, second)
	assert.Same(t, &first[0], &second[0])
	assert.Equal(t, 1, p.filter.runs)
	assert.Equal(t, 1, p.sort.runs)
	assert.Equal(t, 1, p.search.runs)

	q.Term = "CL"
	p.Run(items, q)
	assert.Equal(t, 1, p.filter.runs, "filter is reused when only the term changes")
	assert.Equal(t, 1, p.sort.runs, "sort is reused when only the term changes")
	assert.Equal(t, 2, p.search.runs)

	q.Term = " cl "
	p.Run(items, q)
	assert.Equal(t, 2, p.search.runs, "equivalent terms share a memo entry")

	q.Statuses = NewStatusSet("Approved")
	p.Run(items, q)
	assert.Equal(t, 2, p.filter.runs)
	assert.Equal(t, 2, p.sort.runs)
	assert.Equal(t, 3, p.search.runs)

	p.Run(append([]claims.Claim(nil), items...), q)
	assert.Equal(t, 3, p.filter.runs, "a new source slice invalidates every stage")
}

func TestPipeline_ShrinkingFilter(t *testing.T) {
	items := make([]claims.Claim, 100)
	for i := range items {
		status := "Submitted"
		if i%10 == 0 {
			status = "Approved"
		}
		items[i] = claims.Claim{ID: string(rune('A' + i%26)), Status: status}
	}
	p := NewPipeline[claims.Claim]()
	assert.Len(t, p.Run(items, Query{}), 100)
	assert.Len(t, p.Run(items, Query{Statuses: NewStatusSet("Approved")}), 10)
}

func TestQueryActive(t *testing.T) {
	assert.False(t, Query{Sort: SortTotalHighest, Term: "  "}.Active())
	assert.True(t, Query{Term: "a"}.Active())
	assert.True(t, Query{Statuses: NewStatusSet("Approved")}.Active())
}
