package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableIsValid(t *testing.T) {
	require.NoError(t, DefaultTable().Validate())
}

func TestAssignCoversEveryScore(t *testing.T) {
	table := DefaultTable()

	prevRank := -1
	prevDiscount := -1
	for score := 0; score <= 100; score++ {
		a := table.Assign(score)

		assert.NotEmpty(t, a.Tier, "score %d produced an empty tier", score)
		assert.NotEmpty(t, a.Headline, "score %d produced an empty headline", score)
		assert.GreaterOrEqual(t, a.Tier.Rank(), prevRank, "tier rank dropped at score %d", score)
		assert.GreaterOrEqual(t, a.DiscountPct, prevDiscount, "discount dropped at score %d", score)

		prevRank = a.Tier.Rank()
		prevDiscount = a.DiscountPct
	}
}

func TestAssignThresholdBoundaries(t *testing.T) {
	table := DefaultTable()

	cases := []struct {
		score       int
		tier        Tier
		discountPct int
	}{
		{0, TierNone, 0},
		{39, TierNone, 0},
		{40, TierBronze, 15},
		{59, TierBronze, 15},
		{60, TierSilver, 20},
		{79, TierSilver, 20},
		{80, TierGold, 30},
		{94, TierGold, 30},
		{95, TierPlatinum, 40},
		{97, TierPlatinum, 40},
		{100, TierPlatinum, 40},
	}

	for _, tc := range cases {
		a := table.Assign(tc.score)
		assert.Equal(t, tc.tier, a.Tier, "score %d", tc.score)
		assert.Equal(t, tc.discountPct, a.DiscountPct, "score %d", tc.score)
	}
}

func TestAssignClampsOutOfRangeScores(t *testing.T) {
	table := DefaultTable()

	low := table.Assign(-25)
	assert.Equal(t, TierNone, low.Tier)
	assert.Equal(t, 0, low.DiscountPct)

	high := table.Assign(250)
	assert.Equal(t, TierPlatinum, high.Tier)
	assert.Equal(t, 40, high.DiscountPct)
}

func TestRankOrdersTiers(t *testing.T) {
	assert.Equal(t, 0, TierNone.Rank())
	assert.Equal(t, 1, TierBronze.Rank())
	assert.Equal(t, 2, TierSilver.Rank())
	assert.Equal(t, 3, TierGold.Rank())
	assert.Equal(t, 4, TierPlatinum.Rank())
	assert.Equal(t, 0, Tier("bogus").Rank())
}

func TestBandsReturnsACopy(t *testing.T) {
	table := DefaultTable()

	bands := table.Bands()
	require.Len(t, bands, 5)
	bands[0].DiscountPct = 99

	assert.Equal(t, 0, table.Assign(0).DiscountPct)
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	cases := []struct {
		name  string
		bands []Band
	}{
		{"empty", nil},
		{"does not start at zero", []Band{
			{MinScore: 10, Tier: TierNone, DiscountPct: 0},
		}},
		{"thresholds not increasing", []Band{
			{MinScore: 0, Tier: TierNone, DiscountPct: 0},
			{MinScore: 0, Tier: TierBronze, DiscountPct: 15},
		}},
		{"discount decreases", []Band{
			{MinScore: 0, Tier: TierNone, DiscountPct: 10},
			{MinScore: 50, Tier: TierBronze, DiscountPct: 5},
		}},
		{"rank does not increase", []Band{
			{MinScore: 0, Tier: TierBronze, DiscountPct: 10},
			{MinScore: 50, Tier: TierBronze, DiscountPct: 15},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := &Table{bands: tc.bands}
			assert.Error(t, table.Validate())
		})
	}
}
