package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/claimdeck/internal/view"
)

// renderMain stacks header, command bar, query bar, list and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderQueryBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("claimdeck", styles.Logo)}

	snap := m.snapshot
	switch {
	case !snap.HasData && snap.LastError == nil:
		parts = append(parts, bg.Render("Connecting to claims API...", styles.WarningText.Bold(true)))
	case snap.LastError != nil:
		parts = append(parts,
			bg.Render("API "+classifyConnectionError(snap.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
	default:
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	if snap.HasData {
		parts = append(parts,
			bg.Render("Claims:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(snap.Claims)), styles.Text))
		if m.dense() {
			parts = append(parts,
				bg.Render("Shown:", styles.MutedText)+bg.Space()+
					bg.Render(fmt.Sprintf("%d", len(m.visible)), styles.InfoText))
		}
	}
	if !snap.LastUpdated.IsZero() {
		parts = append(parts,
			bg.Render("Updated", styles.FaintText)+bg.Space()+
				bg.Render(snap.LastUpdated.Format("15:04:05"), styles.MutedText))
	}
	if m.config != nil && m.width >= 100 {
		parts = append(parts, bg.Render(truncateMiddle(m.config.APIURL, 40), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(clip(bg.Join(parts, "  "), m.width-2))
}

// classifyConnectionError shortens transport errors for the header.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "returned status"):
		return "HTTP ERROR"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	// Hints that do not fit are dropped whole rather than cut mid-word.
	var parts []string
	used := 1
	for _, h := range m.keys.ShortHelp() {
		help := h.Help()
		w := len([]rune(help.Key)) + len([]rune(help.Desc)) + 3
		if len(parts) > 0 {
			w += 2
		}
		if used+w > m.width {
			break
		}
		used += w
		parts = append(parts,
			bg.Render("<"+help.Key+">", styles.AccentText)+bg.Space()+
				bg.Render(help.Desc, styles.MutedText))
	}
	return bg.FillLine(" "+bg.Join(parts, "  "), m.width)
}

// renderQueryBar shows the search input and the active query.
func (m Model) renderQueryBar() string {
	styles := m.theme.Styles()

	var parts []string
	switch {
	case m.searching:
		parts = append(parts, m.searchInput.View())
	case m.debouncer.Term() != "":
		parts = append(parts, styles.AccentText.Render("/ "+m.debouncer.Term()))
	default:
		parts = append(parts, styles.FaintText.Render("/ search"))
	}
	if m.debouncer.Searching() {
		parts = append(parts, styles.WarningText.Render("searching…"))
	}

	parts = append(parts,
		styles.MutedText.Render("Sort:")+" "+styles.Text.Render(m.sortOpt.Label()))

	if labels := m.statuses.Labels(); len(labels) > 0 {
		parts = append(parts,
			styles.MutedText.Render("Status:")+" "+styles.InfoText.Render(strings.Join(labels, ", ")))
	}
	if m.where != nil {
		parts = append(parts,
			styles.MutedText.Render("Where:")+" "+styles.InfoText.Render(m.where.String()))
	}

	mode := "list"
	if m.composer.Mode() == view.ModeGrid {
		mode = "grid"
	}
	parts = append(parts, styles.FaintText.Render("["+mode+"]"))

	return clip(" "+strings.Join(parts, "   "), m.width)
}

// renderContent renders the list area, including the column header in
// linear mode, padded to the container height.
func (m Model) renderContent() string {
	height := m.composer.Layout().ContainerHeight
	f := m.frame()

	var lines []string
	if f.Mode == view.ModeGrid {
		lines = append(lines, m.renderGridHeader(f))
	} else {
		lines = append(lines, m.renderColumnHeader())
	}

	if msg := m.emptyMessage(); msg != "" {
		styles := m.theme.Styles()
		box := lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
		return strings.Join(append(lines, box), "\n")
	}

	dense := m.dense()
	if f.Mode == view.ModeGrid {
		lines = append(lines, m.renderGrid(f, dense, height)...)
	} else {
		lines = append(lines, m.renderLinear(f, dense, height)...)
	}
	return strings.Join(lines, "\n")
}

// emptyMessage explains an empty list, or returns "" when there is
// something to draw.
func (m Model) emptyMessage() string {
	snap := m.snapshot
	switch {
	case !snap.HasData && snap.LastError != nil:
		return "Error loading claims: " + snap.LastError.Error()
	case !snap.HasData:
		return "Loading claims..."
	case len(m.all) == 0:
		return "No claims yet."
	case len(m.visible) > 0:
		return ""
	case m.debouncer.Settled() != "":
		return fmt.Sprintf("No claims match %q. Try adjusting your search.", strings.TrimSpace(m.debouncer.Settled()))
	default:
		return "No claims match the selected filters. Press x to clear them."
	}
}

// renderFooter shows counts, the rendered window and the scroll position.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	f := m.frame()
	total := len(m.visible)
	parts := []string{
		bg.Render(m.formatter.Count(total, "claim"), styles.Text),
	}
	if total > 0 {
		parts = append(parts,
			bg.Render(fmt.Sprintf("item %d", m.selected+1), styles.MutedText),
			bg.Render(fmt.Sprintf("window %d-%d", f.Range.Start+1, f.Range.End), styles.FaintText),
			bg.Render(fmt.Sprintf("%d%%", scrollPercent(f, m.composer.Layout().ContainerHeight)), styles.FaintText),
		)
	}
	if m.notice != "" {
		parts = append(parts, bg.Render(m.notice, styles.WarningText))
	}
	return bg.FillLine(" "+bg.Join(parts, "  "), m.width)
}
