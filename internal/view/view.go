// Package view owns the layout mode and per-mode scroll state, and turns a
// collection length into the window that should be rendered.
package view

import (
	"fmt"
	"strings"

	"github.com/five82/claimdeck/internal/window"
)

// Mode selects the layout.
type Mode string

const (
	ModeLinear Mode = "linear"
	ModeGrid   Mode = "grid"
)

// ParseMode accepts "linear"/"list"/"table" and "grid"/"cards".
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "linear", "list", "table":
		return ModeLinear, nil
	case "grid", "cards", "card":
		return ModeGrid, nil
	default:
		return "", fmt.Errorf("unknown view mode %q", value)
	}
}

// Other returns the opposite mode.
func (m Mode) Other() Mode {
	if m == ModeGrid {
		return ModeLinear
	}
	return ModeGrid
}

// Layout carries the geometry both windows are computed from. Heights share
// a single unit, pixels or terminal lines.
type Layout struct {
	ContainerHeight int
	RowHeight       int
	DenseRowHeight  int
	CardHeight      int
	DenseCardHeight int
	PerRow          int
	Buffer          int
}

// DefaultLayout matches a 600px viewport with 64/48px rows and
// 240/200px cards, three per row.
func DefaultLayout() Layout {
	return Layout{
		ContainerHeight: 600,
		RowHeight:       64,
		DenseRowHeight:  48,
		CardHeight:      240,
		DenseCardHeight: 200,
		PerRow:          3,
		Buffer:          window.DefaultRowBuffer,
	}
}

func (l Layout) rowHeight(dense bool) int {
	if dense && l.DenseRowHeight > 0 {
		return l.DenseRowHeight
	}
	return l.RowHeight
}

func (l Layout) cardHeight(dense bool) int {
	if dense && l.DenseCardHeight > 0 {
		return l.DenseCardHeight
	}
	return l.CardHeight
}

func (l Layout) rowParams(total int, dense bool) window.RowParams {
	return window.RowParams{
		ItemHeight:      l.rowHeight(dense),
		ContainerHeight: l.ContainerHeight,
		Buffer:          l.Buffer,
		Total:           total,
	}
}

func (l Layout) gridParams(total int, dense bool) window.GridParams {
	return window.GridParams{
		ItemHeight:      l.cardHeight(dense),
		PerRow:          l.PerRow,
		ContainerHeight: l.ContainerHeight,
		Total:           total,
	}
}
