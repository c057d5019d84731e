package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/totegamma/chitfund/payout"
)

// MemberPayout is the full pipeline result for one member: tier, step
// populations of the downline and the payout they earn.
type MemberPayout struct {
	MemberID     string        `json:"memberId"`
	Amount       float64       `json:"subscriptionAmount"`
	Tier         payout.Tier   `json:"tier"`
	DownlineSize int           `json:"downlineSize"`
	StepCounts   []int         `json:"stepCounts"`
	Payout       payout.Result `json:"payout"`
}

// ReportItem is one member's line in a batch report. Skipped items carry
// the error that excluded them and contribute nothing to the totals.
type ReportItem struct {
	MemberID     string           `json:"memberId"`
	Status       ReportItemStatus `json:"status"`
	Tier         string           `json:"tier,omitempty"`
	BaseRate     float64          `json:"baseRate,omitempty"`
	DownlineSize int              `json:"downlineSize"`
	TotalPayout  decimal.Decimal  `json:"totalPayout"`
	Error        string           `json:"error,omitempty"`
}

// Report aggregates payouts over many members. Amounts are rounded to two
// decimals; tax is left to downstream reporting.
type Report struct {
	ID          string          `json:"id"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Items       []ReportItem    `json:"items"`
	Processed   int             `json:"processed"`
	Skipped     int             `json:"skipped"`
	TotalPayout decimal.Decimal `json:"totalPayout"`
}

// ReportSummary is the event published once a report is built.
type ReportSummary struct {
	ReportID    string          `json:"reportId"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Processed   int             `json:"processed"`
	Skipped     int             `json:"skipped"`
	TotalPayout decimal.Decimal `json:"totalPayout"`
}

func (r Report) Summary() ReportSummary {
	return ReportSummary{
		ReportID:    r.ID,
		GeneratedAt: r.GeneratedAt,
		Processed:   r.Processed,
		Skipped:     r.Skipped,
		TotalPayout: r.TotalPayout,
	}
}
