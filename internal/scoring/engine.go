// Package scoring aggregates per-agent event counts into a weighted composite
// score, level and rank, and maintains the separate additive XP/streak
// ledger. The weighted score is derived on every read from append-only data;
// only the XP ledger is a genuine mutable accumulator.
package scoring

import "math"

// Score weights. Sales dominate by design of the commission model;
// appointments are the leading indicator, processed calls the baseline grind.
const (
	weightSale        = 500
	weightAppointment = 50
	weightProcessed   = 1
)

// Efficiency bonus: an agent converting strictly more than 15% of a
// meaningful call volume into appointments earns a 10% multiplier.
const (
	bonusMinProcessed   = 10
	bonusConversionRate = 0.15
	bonusMultiplier     = 1.1
)

// Rank tier names, monotonic on level with no gaps.
const (
	RankRookie = "Rookie"
	RankHunter = "Hunter"
	RankMaster = "Master"
	RankElite  = "Elite"
	RankLegend = "Legend"
)

// Counts are one agent's event counts over the scoring window.
type Counts struct {
	Sales        int // approved sales only
	Appointments int // leads in appointment status assigned to the agent
	Processed    int // completed activity entries
}

// ConversionRate returns appointments/processed, or 0 when nothing was
// processed. Never NaN.
func (c Counts) ConversionRate() float64 {
	if c.Processed == 0 {
		return 0
	}
	return float64(c.Appointments) / float64(c.Processed)
}

// Weighted computes the composite score for the given counts, including the
// efficiency bonus when it applies.
func Weighted(c Counts) int {
	score := c.Sales*weightSale + c.Appointments*weightAppointment + c.Processed*weightProcessed

	if c.Processed > bonusMinProcessed && c.ConversionRate() > bonusConversionRate {
		score = int(math.Round(float64(score) * bonusMultiplier))
	}
	return score
}

// Level derives the display level from a weighted score.
func Level(score int) int {
	return score/100 + 1
}

// Rank maps a level onto its tier name.
func Rank(level int) string {
	switch {
	case level < 10:
		return RankRookie
	case level < 25:
		return RankHunter
	case level < 50:
		return RankMaster
	case level < 100:
		return RankElite
	default:
		return RankLegend
	}
}

// xpPerLevel is the flat XP cost of each ledger level.
const xpPerLevel = 1000

// XPLevel derives the ledger level from total XP.
func XPLevel(totalXP int64) int {
	return int(totalXP/xpPerLevel) + 1
}
