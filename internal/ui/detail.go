package ui

import (
	"errors"
	"strings"

	"github.com/five82/claimdeck/internal/claims"
	"github.com/five82/claimdeck/internal/format"
)

// detailFields lists the label/value pairs shown for a claim.
func detailFields(c format.FormattedClaim) [][2]string {
	created, createdOK := c.CreatedTime()
	incident, incidentOK := c.IncidentTime()
	fields := [][2]string{
		{"Claim", c.Number},
		{"Status", format.StatusLabel(c.Status)},
		{"Holder", c.Holder},
		{"Policy #", c.PolicyNumber},
	}
	if strings.TrimSpace(c.InsuredName) != "" {
		fields = append(fields, [2]string{"Insured", c.InsuredName})
	}
	fields = append(fields,
		[2]string{"Claim amount", c.FormattedClaimAmount},
		[2]string{"Processing fee", c.FormattedProcessingFee},
		[2]string{"Total", c.FormattedTotalAmount},
		[2]string{"Incident", c.FormattedIncidentDate + "  " + format.Absolute(incident, incidentOK)},
		[2]string{"Created", c.FormattedCreatedDate + "  " + format.Absolute(created, createdOK)},
	)
	return fields
}

// renderDetail renders the claim detail overlay.
func (m Model) renderDetail() string {
	if m.detail == nil {
		return m.renderMain()
	}
	styles := m.theme.Styles()
	c := m.detail.claim

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Claim " + c.Number))
	b.WriteString("  ")
	b.WriteString(styles.StatusStyle(c.Status).Render(format.StatusLabel(c.Status)))
	b.WriteString("\n\n")

	for _, f := range detailFields(c) {
		b.WriteString(styles.MutedText.Render(padRight(f[0], 16)))
		b.WriteString(styles.Text.Render(f[1]))
		b.WriteString("\n")
	}

	if desc := strings.TrimSpace(c.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.detail.loading:
		b.WriteString(styles.FaintText.Render("Refreshing..."))
	case errors.Is(m.detail.err, claims.ErrNotFound):
		b.WriteString(styles.WarningText.Render("This claim no longer exists on the server"))
	case m.detail.err != nil:
		b.WriteString(styles.DangerText.Render("Could not refresh: " + m.detail.err.Error()))
	default:
		b.WriteString(styles.FaintText.Render("esc to close"))
	}
	return m.renderModal(b.String(), 64)
}
