package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/claimdeck/internal/format"
	"github.com/five82/claimdeck/internal/view"
)

// renderCard draws one claim as a bordered card exactly height lines tall.
// The compact card drops the created-date line.
func (m Model) renderCard(c format.FormattedClaim, selected, dense bool, width, height int) []string {
	styles := m.theme.Styles()
	inner := max(1, width-4)

	status := format.StatusLabel(c.Status)
	number := truncate(c.Number, max(1, inner-lipgloss.Width(status)-3))
	head := padRight(styles.AccentText.Bold(true).Render(number), inner-lipgloss.Width(status)-2) +
		styles.StatusStyle(c.Status).Render(status)

	body := []string{
		head,
		styles.Text.Render(truncate(c.Holder, inner)),
		styles.MutedText.Render(truncate("Policy "+c.PolicyNumber, inner)),
		styles.Text.Render(truncate(c.FormattedClaimAmount+"  total "+c.FormattedTotalAmount, inner)),
	}
	if !dense {
		body = append(body, styles.FaintText.Render(truncate("Created "+c.FormattedCreatedDate, inner)))
	}

	border := m.theme.Border
	if selected {
		border = m.theme.BorderFocus
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(width - 2).
		Height(max(1, height-2)).
		Render(strings.Join(body, "\n"))
	return fitLines(card, height)
}

// renderGrid lays out the frame's range row by row and cuts it to the
// viewport.
func (m Model) renderGrid(f view.Frame, dense bool, height int) []string {
	items := view.Slice(m.visible, f)
	per := max(1, f.PerRow)
	itemHeight := max(1, f.ItemHeight)
	lines := make([]string, 0, (len(items)/per+1)*itemHeight)

	for rowStart := 0; rowStart < len(items); rowStart += per {
		rowEnd := min(rowStart+per, len(items))
		blocks := make([]string, 0, per*2)
		for i := rowStart; i < rowEnd; i++ {
			card := m.renderCard(items[i], f.Range.Start+i == m.selected, dense, cardWidth-1, itemHeight)
			if i > rowStart {
				blocks = append(blocks, " ")
			}
			blocks = append(blocks, strings.Join(card, "\n"))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
		lines = append(lines, fitLines(row, itemHeight)...)
	}
	return viewportLines(lines, f, height)
}

// renderGridHeader takes the line the list view uses for column headers.
func (m Model) renderGridHeader(f view.Frame) string {
	styles := m.theme.Styles()
	line := fmt.Sprintf(" %d per row · sorted by %s", max(1, f.PerRow), strings.ToLower(m.sortOpt.Label()))
	return styles.ColumnHeader.Render(clip(line, m.width))
}
