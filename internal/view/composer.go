package view

import (
	"github.com/five82/claimdeck/internal/window"
)

// Frame is everything a renderer needs for one pass.
type Frame struct {
	Mode Mode
	// Range is the active mode's window.
	Range window.Range
	// Linear and Grid are both windows; Grid is empty outside grid mode.
	Linear window.Range
	Grid   window.Range

	Before        int
	After         int
	ItemHeight    int
	PerRow        int
	ContentHeight int
	Offset        int
	Total         int
}

// Composer owns the view mode and an independent scroller per mode.
type Composer struct {
	mode   Mode
	layout Layout
	linear window.Scroller
	grid   window.Scroller
}

// NewComposer starts in mode with layout.
func NewComposer(mode Mode, layout Layout) *Composer {
	if mode != ModeGrid {
		mode = ModeLinear
	}
	return &Composer{mode: mode, layout: layout}
}

// Mode is the active layout mode.
func (c *Composer) Mode() Mode { return c.mode }

// SetMode switches modes. Each mode keeps its own offset.
func (c *Composer) SetMode(mode Mode) {
	if mode != ModeGrid {
		mode = ModeLinear
	}
	c.mode = mode
}

// Toggle flips the mode and returns the new one.
func (c *Composer) Toggle() Mode {
	c.mode = c.mode.Other()
	return c.mode
}

// Layout returns the current geometry.
func (c *Composer) Layout() Layout { return c.layout }

// SetLayout replaces the geometry, e.g. after a resize.
func (c *Composer) SetLayout(layout Layout) { c.layout = layout }

// Offset reports the stored scroll offset for mode.
func (c *Composer) Offset(mode Mode) int {
	return c.scroller(mode).Offset()
}

// ScrollBy moves the active mode's offset.
func (c *Composer) ScrollBy(delta int) {
	c.scroller(c.mode).By(delta)
}

// ScrollTo sets the active mode's offset.
func (c *Composer) ScrollTo(offset int) {
	c.scroller(c.mode).Set(offset)
}

// ResetScroll returns both modes to the top.
func (c *Composer) ResetScroll() {
	c.linear.Set(0)
	c.grid.Set(0)
}

func (c *Composer) scroller(mode Mode) *window.Scroller {
	if mode == ModeGrid {
		return &c.grid
	}
	return &c.linear
}

// Compose clamps both offsets to a collection of total items and computes
// the windows. dense selects the compact item heights used while filters or
// search are active.
func (c *Composer) Compose(total int, dense bool) Frame {
	total = max(0, total)
	rp := c.layout.rowParams(total, dense)
	gp := c.layout.gridParams(total, dense)

	c.linear.Clamp(window.MaxScroll(window.RowContentHeight(rp), c.layout.ContainerHeight))
	c.grid.Clamp(window.MaxScroll(window.GridContentHeight(gp), c.layout.ContainerHeight))

	f := Frame{
		Mode:   c.mode,
		Linear: window.Rows(c.linear.Offset(), rp),
		Total:  total,
	}
	if c.mode == ModeGrid {
		f.Grid = window.Grid(c.grid.Offset(), gp)
		f.Range = f.Grid
		f.Before, f.After = window.GridSpacers(f.Grid, gp)
		f.ItemHeight = max(1, gp.ItemHeight)
		f.PerRow = max(1, gp.PerRow)
		f.ContentHeight = window.GridContentHeight(gp)
		f.Offset = c.grid.Offset()
		return f
	}
	f.Range = f.Linear
	f.Before, f.After = window.RowSpacers(f.Linear, rp)
	f.ItemHeight = max(1, rp.ItemHeight)
	f.PerRow = 1
	f.ContentHeight = window.RowContentHeight(rp)
	f.Offset = c.linear.Offset()
	return f
}

// Reveal scrolls the active mode the minimum distance needed to show item
// index entirely.
func (c *Composer) Reveal(index, total int, dense bool) {
	if index < 0 || index >= total {
		return
	}
	var top, height int
	if c.mode == ModeGrid {
		gp := c.layout.gridParams(total, dense)
		height = max(1, gp.ItemHeight)
		top = (index / max(1, gp.PerRow)) * height
	} else {
		height = max(1, c.layout.rowHeight(dense))
		top = index * height
	}
	s := c.scroller(c.mode)
	switch {
	case top < s.Offset():
		s.Set(top)
	case top+height > s.Offset()+c.layout.ContainerHeight:
		s.Set(top + height - c.layout.ContainerHeight)
	}
}

// FirstVisible is the index of the first item whose top edge is at or
// below the active offset.
func (f Frame) FirstVisible() int {
	if f.Total == 0 {
		return 0
	}
	row := ceilDiv(f.Offset, max(1, f.ItemHeight))
	return min(f.Total-1, row*max(1, f.PerRow))
}

// Slice returns the part of items covered by the frame's active range,
// clamped to len(items).
func Slice[T any](items []T, f Frame) []T {
	start := min(max(0, f.Range.Start), len(items))
	end := min(max(start, f.Range.End), len(items))
	return items[start:end]
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
