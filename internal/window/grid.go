package window

// GridParams describes a wrapped grid. ItemHeight is the height of one grid
// row; PerRow is the number of items in each row.
type GridParams struct {
	ItemHeight      int
	PerRow          int
	ContainerHeight int
	Total           int
}

func (p GridParams) normalized() GridParams {
	if p.ItemHeight < 1 {
		p.ItemHeight = 1
	}
	if p.PerRow < 1 {
		p.PerRow = 1
	}
	if p.ContainerHeight < 0 {
		p.ContainerHeight = 0
	}
	if p.Total < 0 {
		p.Total = 0
	}
	return p
}

// TotalRows is the number of grid rows needed for every item.
func (p GridParams) TotalRows() int {
	p = p.normalized()
	return ceilDiv(p.Total, p.PerRow)
}

// Grid returns the row-aligned window for a grid scrolled to scrollTop.
// Buffering is done in whole rows before converting to item indices, so
// Start is always a multiple of PerRow and End is either a multiple of
// PerRow or Total.
//
//	currentRow  = scrollTop / h
//	visibleRows = ceil(container/h) + 2
//	startRow    = max(0, currentRow - 1)
//	endRow      = startRow + visibleRows
//	start, end  = startRow*perRow, min(endRow*perRow, total)
func Grid(scrollTop int, p GridParams) Range {
	p = p.normalized()
	if scrollTop < 0 {
		scrollTop = 0
	}
	if p.Total == 0 {
		return Range{}
	}
	currentRow := scrollTop / p.ItemHeight
	visibleRows := ceilDiv(p.ContainerHeight, p.ItemHeight) + gridRowBuffer
	startRow := max(0, currentRow-1)
	if totalRows := p.TotalRows(); startRow >= totalRows {
		startRow = max(0, totalRows-visibleRows)
	}
	endRow := startRow + visibleRows
	return Range{
		Start: startRow * p.PerRow,
		End:   min(endRow*p.PerRow, p.Total),
	}
}

// GridSpacers returns the blank extent before and after the materialized
// rows, in the same unit as ItemHeight.
func GridSpacers(r Range, p GridParams) (before, after int) {
	p = p.normalized()
	totalRows := p.TotalRows()
	startRow := max(0, r.Start) / p.PerRow
	endRow := ceilDiv(max(0, r.End), p.PerRow)
	before = startRow * p.ItemHeight
	after = max(0, totalRows-endRow) * p.ItemHeight
	return before, after
}

// GridContentHeight is the full scrollable height of a grid layout.
func GridContentHeight(p GridParams) int {
	p = p.normalized()
	return p.TotalRows() * p.ItemHeight
}
