package engine

import "github.com/shopspring/decimal"

// =============================================================================
// OVERVIEW REDUCER - Organization-wide rollup and trend classification
// =============================================================================

// Trend classifies a team's current composite against the immediately
// preceding period of equal length.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// trendBand is the +/- score band inside which a change counts as stable.
const trendBand = 2

// Thresholds for the organization rollup.
const (
	AtRiskScore   = 70
	CriticalScore = 60
)

// TeamPeriodStats is one team's contribution to an overview: its current
// period report plus the composite from the preceding equal-length period.
type TeamPeriodStats struct {
	TeamID        TeamID
	Name          string
	MemberCount   int
	Current       *PeriodReport
	PreviousGrade *Grade
}

// TeamOverview is one team's row in the rolled-up overview.
type TeamOverview struct {
	TeamID         TeamID
	Name           string
	MemberCount    int
	Score          *int
	Grade          string
	Trend          Trend
	ComplianceRate *int
	NeedsAttention bool
}

// Overview is the organization-wide summary. AvgScore and AvgGrade cover only
// teams that produced a grade; both are empty/nil when no team has data.
type Overview struct {
	TeamCount     int
	MemberCount   int
	AvgScore      *int
	AvgGrade      string
	AtRiskCount   int
	CriticalCount int
	PerTeam       []TeamOverview
}

// ClassifyTrend compares the current composite to the previous period's.
// Changes within the stable band, and teams missing either composite, are
// stable: a trend claim needs data on both sides.
func ClassifyTrend(current, previous *Grade) Trend {
	if current == nil || previous == nil {
		return TrendStable
	}
	diff := current.Score - previous.Score
	switch {
	case diff > trendBand:
		return TrendImproving
	case diff < -trendBand:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// ComputeOverview rolls N teams' period statistics into the organization
// summary. The per-team numbers are taken from the same period reports the
// team views render, so the two can never disagree.
func ComputeOverview(teams []TeamPeriodStats) Overview {
	overview := Overview{TeamCount: len(teams)}

	scoreSum := decimal.Zero
	scored := 0
	for _, t := range teams {
		row := TeamOverview{
			TeamID:      t.TeamID,
			Name:        t.Name,
			MemberCount: t.MemberCount,
			Trend:       TrendStable,
		}
		overview.MemberCount += t.MemberCount

		if t.Current != nil {
			row.ComplianceRate = t.Current.ComplianceRate
			row.NeedsAttention = t.Current.NeedsAttention
			if g := t.Current.Grade; g != nil {
				row.Score = IntPtr(g.Score)
				row.Grade = g.Summary
				row.Trend = ClassifyTrend(g, t.PreviousGrade)

				scoreSum = scoreSum.Add(decimal.NewFromInt(int64(g.Score)))
				scored++
				if g.Score < AtRiskScore {
					overview.AtRiskCount++
				}
				if g.Score < CriticalScore {
					overview.CriticalCount++
				}
			}
		}
		overview.PerTeam = append(overview.PerTeam, row)
	}

	if scored > 0 {
		avg := scoreSum.Div(decimal.NewFromInt(int64(scored))).Round(0)
		overview.AvgScore = IntPtr(int(avg.IntPart()))
		overview.AvgGrade = SummaryGradeForScore(*overview.AvgScore)
	}
	return overview
}
