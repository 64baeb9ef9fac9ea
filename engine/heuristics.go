package engine

import "github.com/shopspring/decimal"

// =============================================================================
// ATTENTION HEURISTICS - Threshold checks over engine outputs
// =============================================================================

// AttentionScoreFloor is the composite score below which a team is flagged.
const AttentionScoreFloor = 70

// SuddenChangeDrop is the minimum drop (in readiness points) from a member's
// trailing average that flags a sudden change.
const SuddenChangeDrop = 30

// suddenChangeWindowDays is the trailing window the drop is measured against.
const suddenChangeWindowDays = 7

// needsAttention flags a period report when the composite score is below the
// floor or any check-in in the window came back RED. This is a plain
// threshold check layered on the report, not part of the core computation.
func needsAttention(report *PeriodReport) bool {
	if report.Grade != nil && report.Grade.Score < AttentionScoreFloor {
		return true
	}
	return report.Histogram.Red > 0
}

// DetectSuddenChange reports whether the member's readiness on day d dropped
// SuddenChangeDrop or more points below their trailing 7-day average. A
// member with no check-in on d, or no prior scores in the window, is never
// flagged.
func DetectSuddenChange(snap *Snapshot, memberID MemberID, d Day) bool {
	today := snap.CheckInOn(memberID, d)
	if today == nil {
		return false
	}

	sum := decimal.Zero
	count := 0
	for back := 1; back <= suddenChangeWindowDays; back++ {
		if ci := snap.CheckInOn(memberID, d.AddDays(-back)); ci != nil {
			sum = sum.Add(decimal.NewFromInt(int64(ci.Score())))
			count++
		}
	}
	if count == 0 {
		return false
	}

	trailing := sum.Div(decimal.NewFromInt(int64(count)))
	drop := trailing.Sub(decimal.NewFromInt(int64(today.Score())))
	return drop.GreaterThanOrEqual(decimal.NewFromInt(SuddenChangeDrop))
}
