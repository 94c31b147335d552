// Package export writes formatted claims as CSV, NDJSON or a plain text
// table.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/claimdeck/internal/format"
	"github.com/five82/claimdeck/internal/query"
)

// Format names an output encoding.
type Format string

const (
	FormatTable  Format = "table"
	FormatCSV    Format = "csv"
	FormatNDJSON Format = "ndjson"
)

// ParseFormat accepts table, csv, ndjson (or jsonl).
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, csv or ndjson)", value)
	}
}

// Write encodes items in the given format. cols selects and orders the
// columns for table and CSV output; nil means every column.
func Write(w io.Writer, f Format, items []format.FormattedClaim, cols []query.Column) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, items, cols)
	case FormatNDJSON:
		return WriteNDJSON(w, items)
	case FormatTable, "":
		return WriteTable(w, items, cols)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// Value is the display text of one column of c.
func Value(c format.FormattedClaim, col query.Column) string {
	switch col {
	case query.ColumnNumber:
		return c.Number
	case query.ColumnStatus:
		return format.StatusLabel(c.Status)
	case query.ColumnHolder:
		return c.Holder
	case query.ColumnPolicyNumber:
		return c.PolicyNumber
	case query.ColumnClaimAmount:
		return c.FormattedClaimAmount
	case query.ColumnProcessingFee:
		return c.FormattedProcessingFee
	case query.ColumnTotalAmount:
		return c.FormattedTotalAmount
	case query.ColumnIncidentDate:
		return c.FormattedIncidentDate
	case query.ColumnCreatedDate:
		return c.FormattedCreatedDate
	}
	return ""
}

// WriteCSV writes a header row of column labels followed by one row per
// claim.
func WriteCSV(w io.Writer, items []format.FormattedClaim, cols []query.Column) error {
	cols = columnsOrAll(cols)
	cw := csv.NewWriter(w)
	if err := cw.Write(labels(cols)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range items {
		if err := cw.Write(row(c, cols)); err != nil {
			return fmt.Errorf("write csv row %s: %w", c.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNDJSON writes one JSON object per line carrying both the raw claim
// fields and their formatted forms.
func WriteNDJSON(w io.Writer, items []format.FormattedClaim) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, c := range items {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encode claim %s: %w", c.ID, err)
		}
	}
	return bw.Flush()
}

// WriteTable renders a bordered text table. An empty collection still gets
// its header.
func WriteTable(w io.Writer, items []format.FormattedClaim, cols []query.Column) error {
	cols = columnsOrAll(cols)
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, row(c, cols))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(labels(cols)...).
		Rows(rows...)
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

func columnsOrAll(cols []query.Column) []query.Column {
	if len(cols) == 0 {
		return query.Columns()
	}
	return cols
}

func labels(cols []query.Column) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = col.Label()
	}
	return out
}

func row(c format.FormattedClaim, cols []query.Column) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = Value(c, col)
	}
	return out
}
