package engine

import "github.com/shopspring/decimal"

// =============================================================================
// READINESS SCORER - Four raw metrics to one 0-100 score
// =============================================================================

// Readiness status thresholds. The partition is exact: 39 is RED, 40 is
// YELLOW, 69 is YELLOW, 70 is GREEN.
const (
	GreenThreshold  = 70
	YellowThreshold = 40
)

var (
	four = decimal.NewFromInt(4)
	ten  = decimal.NewFromInt(10)
)

// ReadinessScore converts the four 0-10 metrics into an integer 0-100 score:
//
//	score = round( (mood + (10 - stress) + sleep + physical) / 4 * 10 )
//
// Mood, sleep and physical are "higher is better"; stress is inverted.
// Metrics outside 0-10 are clamped so the score stays within bounds.
func ReadinessScore(mood, stress, sleep, physical int) int {
	sum := clampMetric(mood) + (10 - clampMetric(stress)) + clampMetric(sleep) + clampMetric(physical)
	score := decimal.NewFromInt(int64(sum)).Div(four).Mul(ten).Round(0)
	return int(score.IntPart())
}

// StatusForScore maps a 0-100 score to its tri-state readiness status.
func StatusForScore(score int) ReadinessStatus {
	switch {
	case score >= GreenThreshold:
		return StatusGreen
	case score >= YellowThreshold:
		return StatusYellow
	default:
		return StatusRed
	}
}

// Score returns the check-in's derived readiness score.
func (c *CheckIn) Score() int {
	return ReadinessScore(c.Mood, c.Stress, c.Sleep, c.PhysicalHealth)
}

// Status returns the check-in's derived readiness status.
func (c *CheckIn) Status() ReadinessStatus {
	return StatusForScore(c.Score())
}

func clampMetric(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
