package ui

import (
	"fmt"
	"strings"

	"github.com/five82/claimdeck/internal/export"
	"github.com/five82/claimdeck/internal/format"
	"github.com/five82/claimdeck/internal/query"
	"github.com/five82/claimdeck/internal/view"
)

// columnWidths are fixed cell widths; the holder column takes what is left.
var columnWidths = map[query.Column]int{
	query.ColumnNumber:        12,
	query.ColumnStatus:        11,
	query.ColumnPolicyNumber:  12,
	query.ColumnClaimAmount:   14,
	query.ColumnProcessingFee: 15,
	query.ColumnTotalAmount:   14,
	query.ColumnIncidentDate:  15,
	query.ColumnCreatedDate:   15,
}

const (
	minHolderWidth = 12
	cellGap        = 2
)

func rightAligned(c query.Column) bool {
	switch c {
	case query.ColumnClaimAmount, query.ColumnProcessingFee, query.ColumnTotalAmount:
		return true
	}
	return false
}

// columnLayout assigns a width to each shown column for a table of width
// cells.
func columnLayout(cols []query.Column, width int) []int {
	widths := make([]int, len(cols))
	used := 0
	holder := -1
	for i, c := range cols {
		if c == query.ColumnHolder {
			holder = i
			continue
		}
		widths[i] = columnWidths[c]
		used += widths[i]
	}
	used += cellGap * max(0, len(cols)-1)
	if holder >= 0 {
		widths[holder] = max(minHolderWidth, width-used)
	}
	return widths
}

func cellValue(c format.FormattedClaim, col query.Column) string {
	return export.Value(c, col)
}

func fitCell(value string, width int, right bool) string {
	value = truncate(value, width)
	if right {
		return padLeft(value, width)
	}
	return padRight(value, width)
}

// renderColumnHeader renders the table header with sort indicators and the
// digit that sorts by each column.
func (m Model) renderColumnHeader() string {
	styles := m.theme.Styles()
	cols := m.shownColumns()
	widths := columnLayout(cols, m.width-2)

	cells := make([]string, len(cols))
	for i, c := range cols {
		label := c.Label()
		if query.SortActiveFor(c, m.sortOpt) {
			label += " " + query.SortArrow(m.sortOpt)
		}
		if c.Sortable() && i < 9 {
			label = fmt.Sprintf("%d %s", i+1, label)
		}
		cells[i] = fitCell(label, widths[i], rightAligned(c))
	}
	line := " " + strings.Join(cells, strings.Repeat(" ", cellGap))
	return styles.ColumnHeader.Render(clip(line, m.width))
}

// renderRow renders one claim as rowLines lines, or a single line when
// dense.
func (m Model) renderRow(c format.FormattedClaim, selected, dense bool) []string {
	styles := m.theme.Styles()
	cols := m.shownColumns()
	widths := columnLayout(cols, m.width-2)

	plain := make([]string, len(cols))
	styled := make([]string, len(cols))
	for i, col := range cols {
		cell := fitCell(cellValue(c, col), widths[i], rightAligned(col))
		plain[i] = cell
		switch col {
		case query.ColumnStatus:
			styled[i] = styles.StatusText(c.Status).Render(cell)
		case query.ColumnNumber:
			styled[i] = styles.AccentText.Render(cell)
		default:
			styled[i] = styles.Text.Render(cell)
		}
	}
	gap := strings.Repeat(" ", cellGap)

	lines := make([]string, 0, rowLines)
	if selected {
		line := padRight(clip(" "+strings.Join(plain, gap), m.width), m.width)
		lines = append(lines, styles.Selected.Render(line))
	} else {
		lines = append(lines, clip(" "+strings.Join(styled, gap), m.width))
	}
	if dense {
		return lines
	}

	sub := "   " + truncate(rowSubtitle(c), max(0, m.width-4))
	if selected {
		lines = append(lines, styles.Selected.Render(padRight(sub, m.width)))
	} else {
		lines = append(lines, styles.FaintText.Render(sub))
	}
	return lines
}

// rowSubtitle is the secondary line shown under each claim in the
// roomier layout.
func rowSubtitle(c format.FormattedClaim) string {
	var parts []string
	if name := strings.TrimSpace(c.InsuredName); name != "" {
		parts = append(parts, "insured "+name)
	}
	parts = append(parts, "incident "+c.FormattedIncidentDate)
	if desc := strings.TrimSpace(c.Description); desc != "" {
		parts = append(parts, desc)
	}
	return strings.Join(parts, " · ")
}

// renderLinear renders the rows of the frame's range and cuts them to the
// viewport.
func (m Model) renderLinear(f view.Frame, dense bool, height int) []string {
	items := view.Slice(m.visible, f)
	lines := make([]string, 0, len(items)*rowLines)
	for i, c := range items {
		lines = append(lines, m.renderRow(c, f.Range.Start+i == m.selected, dense)...)
	}
	return viewportLines(lines, f, height)
}
