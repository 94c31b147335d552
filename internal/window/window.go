// Package window computes which slice of a long collection has to be
// materialized for a given scroll offset, for linear rows and for wrapped
// grids.
package window

// DefaultRowBuffer is the number of rows kept materialized above and below
// the viewport in linear layouts.
const DefaultRowBuffer = 10

// gridRowBuffer is the row slack, in whole rows, added to the grid viewport.
const gridRowBuffer = 2

// Range is a half-open index range [Start, End) into the current collection.
type Range struct {
	Start int
	End   int
}

// Len is the number of items in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range selects nothing.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Contains reports whether i falls inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// RowParams describes a linear layout.
type RowParams struct {
	ItemHeight      int
	ContainerHeight int
	Buffer          int
	Total           int
}

func (p RowParams) normalized() RowParams {
	if p.ItemHeight < 1 {
		p.ItemHeight = 1
	}
	if p.ContainerHeight < 0 {
		p.ContainerHeight = 0
	}
	if p.Buffer < 0 {
		p.Buffer = 0
	}
	if p.Total < 0 {
		p.Total = 0
	}
	return p
}

// Rows returns the window for a linear layout scrolled to scrollTop.
//
//	visibleStart = scrollTop / h
//	visibleEnd   = min(visibleStart + ceil(container/h) + buffer, total)
//	start        = max(0, visibleStart - buffer)
//	end          = min(total, visibleEnd + buffer)
//
// When scrollTop lies past the collection, start is pulled back so the
// window never inverts.
func Rows(scrollTop int, p RowParams) Range {
	p = p.normalized()
	if scrollTop < 0 {
		scrollTop = 0
	}
	if p.Total == 0 {
		return Range{}
	}
	visibleStart := scrollTop / p.ItemHeight
	visibleEnd := min(visibleStart+ceilDiv(p.ContainerHeight, p.ItemHeight)+p.Buffer, p.Total)
	start := max(0, visibleStart-p.Buffer)
	end := min(p.Total, visibleEnd+p.Buffer)
	if start > end {
		start = max(0, p.Total-ceilDiv(p.ContainerHeight, p.ItemHeight)-p.Buffer)
	}
	return Range{Start: start, End: end}
}

// RowSpacers returns the blank extent to reserve before and after the
// materialized rows so the full collection height is preserved.
func RowSpacers(r Range, p RowParams) (before, after int) {
	p = p.normalized()
	before = max(0, r.Start) * p.ItemHeight
	after = max(0, p.Total-r.End) * p.ItemHeight
	return before, after
}

// RowContentHeight is the full scrollable height of a linear layout.
func RowContentHeight(p RowParams) int {
	p = p.normalized()
	return p.Total * p.ItemHeight
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
