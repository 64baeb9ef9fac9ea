package engine

import "github.com/shopspring/decimal"

// =============================================================================
// DAILY AGGREGATOR - One team, one day
// =============================================================================

var oneHundred = decimal.NewFromInt(100)

// ComputeDailySummary folds the day's expected set and check-ins into one
// DailySummary. The computation is deterministic: identical inputs always
// yield an identical summary, so the materialized cache can be rebuilt at any
// time and recomputing twice is a no-op.
func ComputeDailySummary(snap *Snapshot, d Day) DailySummary {
	es := ComputeExpectedSet(snap, d)
	return summarizeDay(snap, es)
}

// summarizeDay builds the summary from an already-computed expected set, so
// the period reducer can share one partition per day with attendance marking.
func summarizeDay(snap *Snapshot, es ExpectedSet) DailySummary {
	d := es.Day
	summary := DailySummary{
		TeamID:    snap.Team.ID,
		Date:      d,
		IsWorkDay: es.IsWorkDay,
		IsHoliday: es.IsHoliday,
		OnLeave:   len(es.Exempted) + len(es.ExemptedCheckedIn),
	}

	// Total members = worker-role members tracked by this date (effective
	// start reached), independent of the day being counted.
	cal := snap.Calendar()
	for _, m := range snap.Members {
		if !m.Role.CountsTowardAttendance() {
			continue
		}
		if d.Before(cal.DayOf(m.JoinedAt).AddDays(1)) {
			continue
		}
		summary.TotalMembers++
	}

	// Histogram and readiness average cover every worker check-in that
	// occurred on d, whether or not the member was expected. A check-in on an
	// exempted day still contributes its readiness score.
	scoreSum := decimal.Zero
	scoreCount := 0
	checkedIn := 0
	for _, m := range snap.Members {
		if !m.Role.CountsTowardAttendance() {
			continue
		}
		ci := snap.CheckInOn(m.ID, d)
		if ci == nil {
			continue
		}
		summary.Histogram.Record(ci.Status())
		scoreSum = scoreSum.Add(decimal.NewFromInt(int64(ci.Score())))
		scoreCount++
	}
	for _, m := range es.Expected {
		if snap.CheckInOn(m.ID, d) != nil {
			checkedIn++
		}
	}
	checkedIn += len(es.ExemptedCheckedIn)
	summary.CheckedIn = checkedIn

	if scoreCount > 0 {
		avg := scoreSum.Div(decimal.NewFromInt(int64(scoreCount))).Round(0)
		summary.AvgReadiness = IntPtr(int(avg.IntPart()))
	}

	summary.Expected = es.ExpectedCount()
	summary.ComplianceRate = complianceRate(checkedIn, summary.Expected)
	return summary
}

// complianceRate returns round(min(100, checkedIn/expected*100)), or nil when
// expected is zero. Nil means "no data" and must never collapse to 0 or 100.
func complianceRate(checkedIn, expected int) *int {
	if expected <= 0 {
		return nil
	}
	rate := decimal.NewFromInt(int64(checkedIn)).
		Div(decimal.NewFromInt(int64(expected))).
		Mul(oneHundred)
	if rate.GreaterThan(oneHundred) {
		rate = oneHundred
	}
	return IntPtr(int(rate.Round(0).IntPart()))
}

// ComputeDailySummaries produces one summary per day of the period, walking
// day by day so large windows never materialize an unbounded day list.
func ComputeDailySummaries(snap *Snapshot, p Period) []DailySummary {
	summaries := make([]DailySummary, 0, p.Length())
	p.EachDay(func(d Day) {
		summaries = append(summaries, ComputeDailySummary(snap, d))
	})
	return summaries
}
