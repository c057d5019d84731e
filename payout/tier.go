// Package payout holds the club tier table and the step payout formulas.
package payout

import "slices"

// Tier is a named subscription bracket carrying a base rate.
type Tier struct {
	Name      string  `json:"tierName"`
	BaseRate  float64 `json:"baseRate"`
	MinAmount float64 `json:"minAmount"`
}

const (
	TierDiamond     = "DIAMOND"
	TierChairman    = "CHAIRMAN"
	TierRegional    = "REGIONAL"
	TierManager     = "MANAGER"
	TierDevelopment = "DEVELOPMENT"
	TierExecutive   = "EXECUTIVE"
)

// tiers is ordered by descending MinAmount; the first match wins.
var tiers = []Tier{
	{Name: TierDiamond, BaseRate: 1000, MinAmount: 1_000_000},
	{Name: TierChairman, BaseRate: 500, MinAmount: 500_000},
	{Name: TierRegional, BaseRate: 300, MinAmount: 300_000},
	{Name: TierManager, BaseRate: 200, MinAmount: 200_000},
	{Name: TierDevelopment, BaseRate: 100, MinAmount: 100_000},
	{Name: TierExecutive, BaseRate: 50, MinAmount: 50_000},
}

// ResolveTier classifies a subscription amount. Amounts below the lowest
// bracket still resolve to EXECUTIVE.
func ResolveTier(amount float64) Tier {
	for _, t := range tiers {
		if amount >= t.MinAmount {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// Tiers returns the bracket table, highest first.
func Tiers() []Tier {
	return slices.Clone(tiers)
}
