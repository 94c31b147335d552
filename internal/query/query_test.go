package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/claimdeck/internal/claims"
)

func sampleClaims() []claims.Claim {
	return []claims.Claim{
		{ID: "1", Number: "CL-001", Holder: "Ada Lovelace", PolicyNumber: "TL-10001", Status: "Approved", Amount: "1500.00", ProcessingFee: "75.00", CreatedAt: "2024-01-03T10:00:00Z"},
		{ID: "2", Number: "CL-002", Holder: "Grace Hopper", PolicyNumber: "TL-10002", Status: "Rejected", Amount: "200.00", ProcessingFee: "10.00", CreatedAt: "2024-01-01T10:00:00Z"},
		{ID: "3", Number: "CL-003", Holder: "Alan Turing", PolicyNumber: "TL-20003", Status: "Submitted", Amount: "900.00", ProcessingFee: "900.00", CreatedAt: "2024-01-05T10:00:00Z"},
		{ID: "4", Number: "CL-004", Holder: "Edsger Dijkstra", PolicyNumber: "TL-20004", Status: "Approved", Amount: "200.00", ProcessingFee: "5.00", CreatedAt: "2024-01-02T10:00:00Z"},
		{ID: "5", Number: "CL-005", Holder: "Barbara Liskov", PolicyNumber: "TL-30005", Status: "Processed", Amount: "oops", ProcessingFee: "1.00", CreatedAt: "never"},
	}
}

func ids[T claims.Record](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Fields().ID
	}
	return out
}

func TestFilterByStatus(t *testing.T) {
	items := sampleClaims()

	t.Run("empty selection returns input itself", func(t *testing.T) {
		got := FilterByStatus(items, NewStatusSet())
		require.Len(t, got, len(items))
		assert.Same(t, &items[0], &got[0])
	})

	t.Run("stable subsequence", func(t *testing.T) {
		got := FilterByStatus(items, NewStatusSet("Approved", "Processed"))
		assert.Equal(t, []string{"1", "4", "5"}, ids(got))
	})

	t.Run("unknown labels match nothing", func(t *testing.T) {
		got := FilterByStatus(items, NewStatusSet("Archived"))
		assert.Empty(t, got)
	})

	t.Run("blank labels are ignored", func(t *testing.T) {
		set := NewStatusSet("", "  ", "Rejected", "Rejected")
		assert.Len(t, set, 1)
		assert.Equal(t, []string{"2"}, ids(FilterByStatus(items, set)))
	})
}

func TestStatusSetHelpers(t *testing.T) {
	set := NewStatusSet("b", "a")
	assert.Equal(t, []string{"a", "b"}, set.Labels())
	assert.Equal(t, NewStatusSet("a", "b").Key(), set.Key())

	clone := set.Clone()
	clone.Toggle("a")
	clone.Toggle("c")
	assert.True(t, set.Has("a"))
	assert.False(t, set.Has("c"))
	assert.Equal(t, []string{"b", "c"}, clone.Labels())
}

func TestAvailableStatuses(t *testing.T) {
	assert.Equal(t,
		[]string{"Approved", "Processed", "Rejected", "Submitted"},
		AvailableStatuses(sampleClaims()))
	assert.Empty(t, AvailableStatuses[claims.Claim](nil))
}

func TestSortClaims(t *testing.T) {
	items := sampleClaims()
	before := append([]claims.Claim(nil), items...)

	tests := []struct {
		opt  SortOption
		want []string
	}{
		{SortCreatedNewest, []string{"3", "1", "4", "2", "5"}},
		{SortCreatedOldest, []string{"5", "2", "4", "1", "3"}},
		{SortAmountHighest, []string{"1", "3", "2", "4", "5"}},
		{SortAmountLowest, []string{"5", "2", "4", "3", "1"}},
		{SortTotalHighest, []string{"3", "1", "2", "4", "5"}},
		{SortTotalLowest, []string{"5", "4", "2", "1", "3"}},
		{SortOption("bogus"), []string{"1", "2", "3", "4", "5"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.opt), func(t *testing.T) {
			got := SortClaims(items, tt.opt)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, before, items, "input must not be reordered")
			assert.NotSame(t, &items[0], &got[0], "result is a copy")
		})
	}
}

func TestSortClaims_AmountHighestIsNonIncreasing(t *testing.T) {
	var items []claims.Claim
	for i := 0; i < 50; i++ {
		items = append(items, claims.Claim{ID: fmt.Sprint(i), Amount: fmt.Sprintf("%d.%02d", (i*37)%101, i%100)})
	}
	got := SortClaims(items, SortAmountHighest)
	for i := 0; i+1 < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].AmountValue(), got[i+1].AmountValue())
	}
}

func TestSortClaims_StableOnTies(t *testing.T) {
	items := []claims.Claim{
		{ID: "a", Amount: "10"},
		{ID: "b", Amount: "10"},
		{ID: "c", Amount: "10"},
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(SortClaims(items, SortAmountHighest)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(SortClaims(items, SortAmountLowest)))
}

func TestParseSortOption(t *testing.T) {
	opt, err := ParseSortOption(" Amount-Highest ")
	require.NoError(t, err)
	assert.Equal(t, SortAmountHighest, opt)
	assert.Equal(t, "Claim amount (highest)", opt.Label())

	_, err = ParseSortOption("alphabetical")
	assert.Error(t, err)

	assert.Equal(t, SortCreatedNewest, SortTotalLowest.Next())
	assert.Equal(t, SortCreatedOldest, SortCreatedNewest.Next())
	assert.Len(t, SortOptions(), 6)
}

func TestNextSortForColumn(t *testing.T) {
	tests := []struct {
		column  Column
		current SortOption
		want    SortOption
	}{
		{ColumnClaimAmount, SortAmountHighest, SortAmountLowest},
		{ColumnClaimAmount, SortAmountLowest, SortAmountHighest},
		{ColumnClaimAmount, SortCreatedNewest, SortAmountHighest},
		{ColumnTotalAmount, SortTotalHighest, SortTotalLowest},
		{ColumnTotalAmount, SortAmountHighest, SortTotalHighest},
		{ColumnCreatedDate, SortCreatedNewest, SortCreatedOldest},
		{ColumnCreatedDate, SortCreatedOldest, SortCreatedNewest},
		{ColumnHolder, SortCreatedNewest, SortCreatedOldest},
		{ColumnHolder, SortTotalLowest, SortCreatedNewest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextSortForColumn(tt.column, tt.current), "%s from %s", tt.column, tt.current)
	}

	assert.True(t, SortActiveFor(ColumnTotalAmount, SortTotalLowest))
	assert.False(t, SortActiveFor(ColumnHolder, SortCreatedNewest))
	assert.Equal(t, "↑", SortArrow(SortAmountLowest))
	assert.Equal(t, "↓", SortArrow(SortCreatedNewest))
	assert.False(t, ColumnProcessingFee.Sortable())
}

func TestSearch(t *testing.T) {
	items := sampleClaims()

	got := Search(items, "  ")
	require.Len(t, got, len(items))
	assert.Same(t, &items[0], &got[0], "blank term returns input itself")

	assert.Equal(t, []string{"3"}, ids(Search(items, "  TURING ")), "holder match is case-insensitive")
	assert.Equal(t, []string{"3", "4"}, ids(Search(items, "tl-2")))
	assert.Equal(t, []string{"5"}, ids(Search(items, "cl-005")))
	assert.Empty(t, Search(items, "zzz"))

	for _, term := range []string{"a", "TL", "0", "x"} {
		assert.LessOrEqual(t, len(Search(items, term)), len(items))
	}
}

func TestExpr(t *testing.T) {
	items := sampleClaims()

	expr, err := ParseExpr("total > 1000 && status == 'Approved'")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(Filter(items, nil, expr)))

	expr, err = ParseExpr("amount >= 200")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids(Filter(items, NewStatusSet("Approved", "Processed"), expr)),
		"status membership applies before the expression")

	nilExpr, err := ParseExpr("   ")
	require.NoError(t, err)
	assert.Nil(t, nilExpr)
	assert.True(t, nilExpr.Match(items[0]))

	_, err = ParseExpr("amount >")
	assert.Error(t, err)

	_, err = ParseExpr("secret == 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")

	nonBool, err := ParseExpr("amount + 1")
	require.NoError(t, err)
	assert.False(t, nonBool.Match(items[0]))
}
