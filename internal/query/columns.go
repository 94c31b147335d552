package query

// Column identifies a field shown in the linear table.
type Column string

const (
	ColumnNumber        Column = "number"
	ColumnStatus        Column = "status"
	ColumnHolder        Column = "holder"
	ColumnPolicyNumber  Column = "policyNumber"
	ColumnClaimAmount   Column = "claimAmount"
	ColumnProcessingFee Column = "processingFee"
	ColumnTotalAmount   Column = "totalAmount"
	ColumnIncidentDate  Column = "incidentDate"
	ColumnCreatedDate   Column = "createdDate"
)

var columnLabels = map[Column]string{
	ColumnNumber:        "Claim ID",
	ColumnStatus:        "Status",
	ColumnHolder:        "Holder",
	ColumnPolicyNumber:  "Policy #",
	ColumnClaimAmount:   "Claim Amount",
	ColumnProcessingFee: "Processing Fee",
	ColumnTotalAmount:   "Total Amount",
	ColumnIncidentDate:  "Incident Date",
	ColumnCreatedDate:   "Created Date",
}

// Columns lists every table column in display order.
func Columns() []Column {
	return []Column{
		ColumnNumber,
		ColumnStatus,
		ColumnHolder,
		ColumnPolicyNumber,
		ColumnClaimAmount,
		ColumnProcessingFee,
		ColumnTotalAmount,
		ColumnIncidentDate,
		ColumnCreatedDate,
	}
}

// Label is the column header text.
func (c Column) Label() string {
	if label, ok := columnLabels[c]; ok {
		return label
	}
	return string(c)
}

// Sortable reports whether activating the header changes the sort.
func (c Column) Sortable() bool {
	return c != ColumnProcessingFee
}

// NextSortForColumn returns the sort that activating column's header should
// apply. Amount, total and created headers toggle their own direction; the
// remaining sortable headers toggle the created order.
func NextSortForColumn(column Column, current SortOption) SortOption {
	switch column {
	case ColumnClaimAmount:
		if current == SortAmountHighest {
			return SortAmountLowest
		}
		return SortAmountHighest
	case ColumnTotalAmount:
		if current == SortTotalHighest {
			return SortTotalLowest
		}
		return SortTotalHighest
	default:
		if current == SortCreatedNewest {
			return SortCreatedOldest
		}
		return SortCreatedNewest
	}
}

// SortActiveFor reports whether current orders by column.
func SortActiveFor(column Column, current SortOption) bool {
	switch column {
	case ColumnClaimAmount:
		return current == SortAmountHighest || current == SortAmountLowest
	case ColumnTotalAmount:
		return current == SortTotalHighest || current == SortTotalLowest
	case ColumnCreatedDate:
		return current == SortCreatedNewest || current == SortCreatedOldest
	default:
		return false
	}
}

// SortArrow is the header indicator for current.
func SortArrow(current SortOption) string {
	if current.Ascending() {
		return "↑"
	}
	return "↓"
}
