package ui

import (
	"fmt"
	"strings"

	"github.com/five82/claimdeck/internal/query"
)

// renderStatusFilter renders the status checklist. Statuses come from the
// loaded claims, so a label that no claim carries never shows up unless it
// is already selected.
func (m Model) renderStatusFilter() string {
	styles := m.theme.Styles()
	choices := m.statusChoices()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Filter by status"))
	b.WriteString("\n\n")
	if len(choices) == 0 {
		b.WriteString(styles.MutedText.Render("No statuses loaded yet"))
		b.WriteString("\n")
	}
	for i, label := range choices {
		check := "[ ]"
		if m.statuses.Has(label) {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, styles.StatusText(label).Render(label))
		if i == m.statusCursor {
			line = styles.AccentText.Render("›") + " " + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("space toggle · c clear · enter/esc close"))
	return m.renderModal(b.String(), 44)
}

// renderColumnPicker renders the column visibility checklist. The last
// shown column cannot be hidden.
func (m Model) renderColumnPicker() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Columns"))
	b.WriteString("\n\n")
	for i, c := range query.Columns() {
		check := "[x]"
		if m.hidden[c] {
			check = "[ ]"
		}
		line := check + " " + c.Label()
		if i == m.columnCursor {
			line = styles.AccentText.Render("›") + " " + styles.Text.Render(line)
		} else {
			line = "  " + styles.MutedText.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("space toggle · enter/esc close"))
	return m.renderModal(b.String(), 40)
}
