// Package tier provides the discount tier ladder and the score-to-tier
// assignment table. Assignment is a pure table lookup: every integer score in
// [0,100] maps to exactly one tier, and tier rank never decreases as the
// score increases.
package tier

import "fmt"

// Tier is a discrete discount level earned from a challenge score
type Tier string

const (
	TierNone     Tier = "none"
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Rank orders tiers from none (0) upwards for monotonicity checks
func (t Tier) Rank() int {
	switch t {
	case TierBronze:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	case TierPlatinum:
		return 4
	default:
		return 0
	}
}

// Assignment is the full reward attached to a score: the tier, its fixed
// discount percentage, and the headline shown on the result screen.
type Assignment struct {
	Tier        Tier   `json:"tier"`
	DiscountPct int    `json:"discountPct"`
	Headline    string `json:"headline"`
}

// Band is one row of the threshold table: scores in [MinScore, next MinScore)
// earn this tier. The final band is closed at 100.
type Band struct {
	MinScore    int
	Tier        Tier
	DiscountPct int
	Headline    string
}

// Table is the immutable, ordered, non-overlapping threshold table
type Table struct {
	bands []Band
}

// DefaultTable returns the standard discount ladder
func DefaultTable() *Table {
	return &Table{bands: []Band{
		{MinScore: 0, Tier: TierNone, DiscountPct: 0, Headline: "Thanks for playing — keep building"},
		{MinScore: 40, Tier: TierBronze, DiscountPct: 15, Headline: "Participant reward unlocked: 15% off"},
		{MinScore: 60, Tier: TierSilver, DiscountPct: 20, Headline: "Solid work — 20% off unlocked"},
		{MinScore: 80, Tier: TierGold, DiscountPct: 30, Headline: "Top performer — 30% off unlocked"},
		{MinScore: 95, Tier: TierPlatinum, DiscountPct: 40, Headline: "Elite finish — maximum 40% off unlocked"},
	}}
}

// Assign maps a score value to its tier assignment. Scores outside [0,100]
// are clamped first so the mapping stays total for any caller.
func (t *Table) Assign(scoreValue int) Assignment {
	if scoreValue < 0 {
		scoreValue = 0
	}
	if scoreValue > 100 {
		scoreValue = 100
	}

	band := t.bands[0]
	for _, candidate := range t.bands {
		if scoreValue >= candidate.MinScore {
			band = candidate
		}
	}

	return Assignment{
		Tier:        band.Tier,
		DiscountPct: band.DiscountPct,
		Headline:    band.Headline,
	}
}

// Bands exposes a copy of the threshold table for dashboards and tests
func (t *Table) Bands() []Band {
	out := make([]Band, len(t.bands))
	copy(out, t.bands)
	return out
}

// Validate checks the table invariants: non-empty, starting at zero, strictly
// increasing thresholds, and non-decreasing discounts and ranks.
func (t *Table) Validate() error {
	if len(t.bands) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	if t.bands[0].MinScore != 0 {
		return fmt.Errorf("tier table must start at score 0, got %d", t.bands[0].MinScore)
	}
	for i := 1; i < len(t.bands); i++ {
		prev, cur := t.bands[i-1], t.bands[i]
		if cur.MinScore <= prev.MinScore {
			return fmt.Errorf("tier thresholds must strictly increase: %d after %d", cur.MinScore, prev.MinScore)
		}
		if cur.DiscountPct < prev.DiscountPct {
			return fmt.Errorf("tier discounts must not decrease: %d%% after %d%%", cur.DiscountPct, prev.DiscountPct)
		}
		if cur.Tier.Rank() <= prev.Tier.Rank() {
			return fmt.Errorf("tier ranks must strictly increase: %s after %s", cur.Tier, prev.Tier)
		}
	}
	return nil
}
