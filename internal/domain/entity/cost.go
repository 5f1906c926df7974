package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostRecord is one (time-period, linked-account, service) cost group as returned
// by Cost Explorer. Immutable once produced by the stream.
type CostRecord struct {
	PeriodStart   string          `json:"time_period_start"`
	LinkedAccount string          `json:"linked_account"`
	Service       string          `json:"service"`
	Amount        decimal.Decimal `json:"amount"`
}

// ReportRow is a CostRecord selected for display, with the amount formatted
// to five decimal places.
type ReportRow struct {
	PeriodStart   string `json:"time_period_start"`
	LinkedAccount string `json:"linked_account"`
	Service       string `json:"service"`
	Amount        string `json:"amount"`
}

// Row converts a record into its display form.
func (r CostRecord) Row() ReportRow {
	return ReportRow{
		PeriodStart:   r.PeriodStart,
		LinkedAccount: r.LinkedAccount,
		Service:       r.Service,
		Amount:        r.Amount.StringFixed(5),
	}
}

// Report is the final output of one invocation: the selected rows plus the
// running total over every record that survived the threshold. When the top-K
// selection truncated the result set, Total still covers the discarded records,
// so it can exceed the sum of Rows.
type Report struct {
	Rows      []ReportRow     `json:"rows"`
	Total     decimal.Decimal `json:"total"`
	Truncated bool            `json:"truncated,omitempty"`
}

// CostQuery describes one report invocation against Cost Explorer.
type CostQuery struct {
	Profile   string
	Start     time.Time
	End       time.Time
	Threshold decimal.Decimal
}
