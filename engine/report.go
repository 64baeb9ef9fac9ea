/*
report.go - Period Reducer: daily summaries to period statistics

PURPOSE:
  Folds a team's day-by-day summaries over [start, end] into the period
  report: compliance, readiness, histogram, per-member statistics and grade.

TWO RULES HERE ARE LOAD-BEARING:

  1. Period compliance uses sum-of-counts, never an average of daily
     percentages. Averaging percentages misweights days with few expected
     members; two report views computing it differently is exactly the
     numeric mismatch this engine exists to eliminate.

  2. Period readiness is member-first: average each member's own scores,
     then average those averages with equal per-member weight. Members below
     the onboarding threshold are excluded from readiness (one early
     unrepresentative score must not skew the team) but still appear in all
     attendance figures.

SEE ALSO:
  - daily.go: the per-day summaries this reduces
  - grade.go: letter grade mapping over the period composite
*/
package engine

import "github.com/shopspring/decimal"

// OnboardingThreshold is the minimum lifetime check-in count before a
// member's readiness average participates in period readiness.
const OnboardingThreshold = 3

// MemberPeriodStats is one member's slice of the period report.
type MemberPeriodStats struct {
	MemberID      MemberID
	Name          string
	CheckIns      int
	AvgReadiness  *int
	AvgAttendance *int
	// Onboarding is true while the member's lifetime check-in count is below
	// the threshold; their readiness is then excluded from the team average.
	Onboarding bool
}

// PeriodReport is the full team report for one window.
type PeriodReport struct {
	TeamID         TeamID
	Period         Period
	ExpectedTotal  int
	CheckedInTotal int
	ComplianceRate *int
	AvgReadiness   *int
	Histogram      StatusHistogram
	Grade          *Grade
	Days           []DailySummary
	Members        []MemberPeriodStats
	NeedsAttention bool
}

// ComputePeriodReport reduces the window to period statistics. The requested
// period is validated against the configured maximum (0 = default) and its
// start is clamped to the team's creation date: a team is never reported on
// before it existed.
func ComputePeriodReport(snap *Snapshot, p Period, maxRangeDays int) (*PeriodReport, error) {
	if err := CheckRange(p, maxRangeDays); err != nil {
		return nil, err
	}
	clamped := p.ClampStart(snap.Calendar().DayOf(snap.Team.CreatedAt))
	if !clamped.IsValid() {
		// Team created after the window ends: nothing to report on. The report
		// echoes the requested window but contains no days, so no member can
		// be expected before the team existed.
		return &PeriodReport{TeamID: snap.Team.ID, Period: p}, nil
	}
	p = clamped

	report := &PeriodReport{
		TeamID: snap.Team.ID,
		Period: p,
	}

	type memberAccum struct {
		scoreSum decimal.Decimal
		scores   int
		attSum   int
		attDays  int
		checkIns int
	}
	accums := make(map[MemberID]*memberAccum, len(snap.Members))
	for _, m := range snap.Members {
		if m.Role.CountsTowardAttendance() {
			accums[m.ID] = &memberAccum{scoreSum: decimal.Zero}
		}
	}

	cal := snap.Calendar()

	// One pass per day: partition once, then feed both the daily summary and
	// the per-member attendance/readiness accumulators from the same set.
	p.EachDay(func(d Day) {
		es := ComputeExpectedSet(snap, d)
		summary := summarizeDay(snap, es)
		report.Days = append(report.Days, summary)

		if es.Counted() {
			report.ExpectedTotal += summary.Expected
			report.CheckedInTotal += summary.CheckedIn
		}
		report.Histogram.Add(summary.Histogram)

		for _, m := range snap.Members {
			acc := accums[m.ID]
			if acc == nil {
				continue
			}
			ci := snap.CheckInOn(m.ID, d)
			if ci != nil {
				acc.checkIns++
				acc.scoreSum = acc.scoreSum.Add(decimal.NewFromInt(int64(ci.Score())))
				acc.scores++
			}
			mark := markFor(snap, cal, es, m, d, ci)
			if mark.Score != nil {
				acc.attSum += *mark.Score
				acc.attDays++
			}
		}
	})

	// Period compliance: sum of counts over counted days.
	report.ComplianceRate = complianceRate(report.CheckedInTotal, report.ExpectedTotal)

	// Period readiness: equal-weight average of per-member averages, skipping
	// members still onboarding.
	memberAvgSum := decimal.Zero
	memberAvgCount := 0
	for _, m := range snap.Members {
		acc := accums[m.ID]
		if acc == nil {
			continue
		}
		stats := MemberPeriodStats{
			MemberID:   m.ID,
			Name:       m.Name,
			CheckIns:   acc.checkIns,
			Onboarding: m.TotalCheckIns < OnboardingThreshold,
		}
		if acc.scores > 0 {
			avg := acc.scoreSum.Div(decimal.NewFromInt(int64(acc.scores)))
			stats.AvgReadiness = IntPtr(int(avg.Round(0).IntPart()))
			if !stats.Onboarding {
				memberAvgSum = memberAvgSum.Add(avg)
				memberAvgCount++
			}
		}
		if acc.attDays > 0 {
			stats.AvgAttendance = IntPtr(roundRatio(acc.attSum, acc.attDays))
		}
		report.Members = append(report.Members, stats)
	}
	if memberAvgCount > 0 {
		avg := memberAvgSum.Div(decimal.NewFromInt(int64(memberAvgCount))).Round(0)
		report.AvgReadiness = IntPtr(int(avg.IntPart()))
	}

	report.Grade = ComputeGrade(report.AvgReadiness, report.ComplianceRate, report.Histogram.Total())
	report.NeedsAttention = needsAttention(report)
	return report, nil
}

// markFor classifies one member's attendance for one day of the window.
// Non-counted days and days before the member's effective start are excused.
func markFor(snap *Snapshot, cal *Calendar, es ExpectedSet, m Member, d Day, ci *CheckIn) AttendanceMark {
	if !es.Counted() || d.Before(cal.DayOf(m.JoinedAt).AddDays(1)) {
		return AttendanceMark{Status: AttendanceExcused}
	}
	exempted := snap.IsExempted(m.ID, d)
	if ci != nil {
		t := ci.SubmittedAt
		return ClassifyAttendance(cal, d, snap.Team.ShiftStart, snap.Team.GraceMinutes, &t, exempted)
	}
	return ClassifyAttendance(cal, d, snap.Team.ShiftStart, snap.Team.GraceMinutes, nil, exempted)
}

func roundRatio(sum, count int) int {
	return int(decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(count))).
		Round(0).IntPart())
}
