package payout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveTier(t *testing.T) {
	t.Parallel()
	cases := []struct {
		amount float64
		name   string
		rate   float64
	}{
		{5_000_000, TierDiamond, 1000},
		{1_000_000, TierDiamond, 1000},
		{999_999.99, TierChairman, 500},
		{500_000, TierChairman, 500},
		{300_000, TierRegional, 300},
		{299_999, TierManager, 200},
		{200_000, TierManager, 200},
		{100_000, TierDevelopment, 100},
		{50_000, TierExecutive, 50},
		{49_999, TierExecutive, 50},
		{0, TierExecutive, 50},
		{-10, TierExecutive, 50},
	}
	for _, tc := range cases {
		tier := ResolveTier(tc.amount)
		require.Equal(t, tc.name, tier.Name, "amount %v", tc.amount)
		require.Equal(t, tc.rate, tier.BaseRate, "amount %v", tc.amount)
	}
}

func TestTiers_ReturnsCopy(t *testing.T) {
	t.Parallel()
	list := Tiers()
	require.Len(t, list, 6)
	list[0].BaseRate = 1

	require.Equal(t, 1000.0, ResolveTier(2_000_000).BaseRate)
}
