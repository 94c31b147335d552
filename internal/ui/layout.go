package ui

import (
	"github.com/five82/claimdeck/internal/view"
	"github.com/five82/claimdeck/internal/window"
)

// Terminal geometry. Heights are in lines and feed the same window math
// the composer uses for any unit.
const (
	rowLines       = 2
	denseRowLines  = 1
	cardLines      = 7
	denseCardLines = 6
	cardWidth      = 34

	// header, command bar, query bar, list header, footer
	chromeLines = 5
)

// layoutFor derives the composer geometry for a terminal of width x height.
// Both modes share one container height.
func layoutFor(width, height int) view.Layout {
	return view.Layout{
		ContainerHeight: max(1, height-chromeLines),
		RowHeight:       rowLines,
		DenseRowHeight:  denseRowLines,
		CardHeight:      cardLines,
		DenseCardHeight: denseCardLines,
		PerRow:          cardsPerRow(width),
		Buffer:          window.DefaultRowBuffer,
	}
}

func cardsPerRow(width int) int {
	return max(1, width/cardWidth)
}

// viewportLines cuts the rendered window down to the visible lines. lines
// holds only the items in f.Range, so the first one sits f.Before lines
// below the top of the content.
func viewportLines(lines []string, f view.Frame, height int) []string {
	height = max(0, height)
	start := min(max(0, f.Offset-f.Before), len(lines))
	end := min(start+height, len(lines))
	out := make([]string, 0, height)
	out = append(out, lines[start:end]...)
	for len(out) < height {
		out = append(out, "")
	}
	return out
}

// scrollPercent reports how far through the content the viewport is.
func scrollPercent(f view.Frame, container int) int {
	maxScroll := window.MaxScroll(f.ContentHeight, container)
	if maxScroll == 0 {
		return 100
	}
	return min(100, f.Offset*100/maxScroll)
}
