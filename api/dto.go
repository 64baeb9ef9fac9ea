/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's internal model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NULLABILITY:
  Nullable engine values (compliance, readiness, grade) stay nullable on the
  wire: a day with no expected members serializes compliance_rate as null,
  never as 0 or 100.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/schedule.go: ScheduleJSON type embedded in team requests
*/
package api

import (
	"github.com/warp/wellness-engine/engine"
	"github.com/warp/wellness-engine/factory"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateTeamRequest creates a team from a schedule definition.
type CreateTeamRequest struct {
	ID       string               `json:"id"`
	Schedule factory.ScheduleJSON `json:"schedule"`
}

// CreateMemberRequest adds a member to a team.
type CreateMemberRequest struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// SubmitCheckInRequest records one wellness check-in.
type SubmitCheckInRequest struct {
	MemberID       string `json:"member_id"`
	SubmittedAt    string `json:"submitted_at"` // RFC3339; empty = now
	Mood           int    `json:"mood"`
	Stress         int    `json:"stress"`
	Sleep          int    `json:"sleep"`
	PhysicalHealth int    `json:"physical_health"`
}

// CreateExemptionRequest opens a leave record (always Pending).
type CreateExemptionRequest struct {
	MemberID  string  `json:"member_id"`
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date,omitempty"`
}

// CreateHolidayRequest adds a company holiday.
type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TeamDTO represents a team in API responses.
type TeamDTO struct {
	ID           string   `json:"id"`
	OrgID        string   `json:"org_id"`
	Name         string   `json:"name"`
	WorkDays     []string `json:"work_days"`
	ShiftStart   string   `json:"shift_start"`
	ShiftEnd     string   `json:"shift_end"`
	GraceMinutes int      `json:"grace_minutes"`
	IsActive     bool     `json:"is_active"`
	CreatedAt    string   `json:"created_at"`
}

// ExemptionDTO represents a leave record.
type ExemptionDTO struct {
	ID        string  `json:"id"`
	MemberID  string  `json:"member_id"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date,omitempty"`
}

// DailySummaryDTO is one team-day aggregate row.
type DailySummaryDTO struct {
	TeamID         string                 `json:"team_id"`
	Date           string                 `json:"date"`
	IsWorkDay      bool                   `json:"is_work_day"`
	IsHoliday      bool                   `json:"is_holiday"`
	TotalMembers   int                    `json:"total_members"`
	OnLeave        int                    `json:"on_leave"`
	Expected       int                    `json:"expected"`
	CheckedIn      int                    `json:"checked_in"`
	Histogram      engine.StatusHistogram `json:"status_histogram"`
	AvgReadiness   *int                   `json:"avg_readiness"`
	ComplianceRate *int                   `json:"compliance_rate"`
}

// MemberStatsDTO is one member's slice of a period report.
type MemberStatsDTO struct {
	MemberID      string `json:"member_id"`
	Name          string `json:"name"`
	CheckIns      int    `json:"check_ins"`
	AvgReadiness  *int   `json:"avg_readiness"`
	AvgAttendance *int   `json:"avg_attendance"`
	Onboarding    bool   `json:"onboarding"`
}

// PeriodReportDTO is the full team report for one window.
type PeriodReportDTO struct {
	TeamID         string                 `json:"team_id"`
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	ExpectedTotal  int                    `json:"expected_total"`
	CheckedInTotal int                    `json:"checked_in_total"`
	ComplianceRate *int                   `json:"compliance_rate"`
	AvgReadiness   *int                   `json:"avg_readiness"`
	Histogram      engine.StatusHistogram `json:"status_histogram"`
	Grade          *engine.Grade          `json:"grade"`
	TrendSeries    []DailySummaryDTO      `json:"trend_series"`
	Members        []MemberStatsDTO       `json:"members"`
	NeedsAttention bool                   `json:"needs_attention"`
}

// TeamOverviewDTO is one team's row in the organization overview.
type TeamOverviewDTO struct {
	TeamID         string `json:"team_id"`
	Name           string `json:"name"`
	MemberCount    int    `json:"member_count"`
	Score          *int   `json:"score"`
	Grade          string `json:"grade,omitempty"`
	Trend          string `json:"trend"`
	ComplianceRate *int   `json:"compliance_rate"`
	NeedsAttention bool   `json:"needs_attention"`
}

// OverviewDTO is the organization-wide rollup.
type OverviewDTO struct {
	TeamCount     int               `json:"team_count"`
	MemberCount   int               `json:"member_count"`
	AvgScore      *int              `json:"avg_score"`
	AvgGrade      string            `json:"avg_grade,omitempty"`
	AtRiskCount   int               `json:"at_risk_count"`
	CriticalCount int               `json:"critical_count"`
	PerTeam       []TeamOverviewDTO `json:"per_team"`
}

// SuddenChangeDTO reports a member's sudden readiness drop check.
type SuddenChangeDTO struct {
	MemberID     string `json:"member_id"`
	Date         string `json:"date"`
	SuddenChange bool   `json:"sudden_change"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toTeamDTO(t engine.Team) TeamDTO {
	codes := t.WorkDays.Codes()
	days := make([]string, len(codes))
	for i, c := range codes {
		days[i] = string(c)
	}
	return TeamDTO{
		ID:           string(t.ID),
		OrgID:        string(t.OrgID),
		Name:         t.Name,
		WorkDays:     days,
		ShiftStart:   t.ShiftStart.String(),
		ShiftEnd:     t.ShiftEnd.String(),
		GraceMinutes: t.GraceMinutes,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt.Format("2006-01-02"),
	}
}

func toExemptionDTO(e engine.Exemption) ExemptionDTO {
	dto := ExemptionDTO{
		ID:        string(e.ID),
		MemberID:  string(e.MemberID),
		Type:      string(e.Type),
		Status:    string(e.Status),
		StartDate: e.StartDate.String(),
	}
	if e.EndDate != nil {
		s := e.EndDate.String()
		dto.EndDate = &s
	}
	return dto
}

func toDailySummaryDTO(s engine.DailySummary) DailySummaryDTO {
	return DailySummaryDTO{
		TeamID:         string(s.TeamID),
		Date:           s.Date.String(),
		IsWorkDay:      s.IsWorkDay,
		IsHoliday:      s.IsHoliday,
		TotalMembers:   s.TotalMembers,
		OnLeave:        s.OnLeave,
		Expected:       s.Expected,
		CheckedIn:      s.CheckedIn,
		Histogram:      s.Histogram,
		AvgReadiness:   s.AvgReadiness,
		ComplianceRate: s.ComplianceRate,
	}
}

func toPeriodReportDTO(r *engine.PeriodReport) PeriodReportDTO {
	dto := PeriodReportDTO{
		TeamID:         string(r.TeamID),
		StartDate:      r.Period.Start.String(),
		EndDate:        r.Period.End.String(),
		ExpectedTotal:  r.ExpectedTotal,
		CheckedInTotal: r.CheckedInTotal,
		ComplianceRate: r.ComplianceRate,
		AvgReadiness:   r.AvgReadiness,
		Histogram:      r.Histogram,
		Grade:          r.Grade,
		NeedsAttention: r.NeedsAttention,
	}
	for _, d := range r.Days {
		dto.TrendSeries = append(dto.TrendSeries, toDailySummaryDTO(d))
	}
	for _, m := range r.Members {
		dto.Members = append(dto.Members, MemberStatsDTO{
			MemberID:      string(m.MemberID),
			Name:          m.Name,
			CheckIns:      m.CheckIns,
			AvgReadiness:  m.AvgReadiness,
			AvgAttendance: m.AvgAttendance,
			Onboarding:    m.Onboarding,
		})
	}
	return dto
}

func toOverviewDTO(o engine.Overview) OverviewDTO {
	dto := OverviewDTO{
		TeamCount:     o.TeamCount,
		MemberCount:   o.MemberCount,
		AvgScore:      o.AvgScore,
		AvgGrade:      o.AvgGrade,
		AtRiskCount:   o.AtRiskCount,
		CriticalCount: o.CriticalCount,
	}
	for _, t := range o.PerTeam {
		dto.PerTeam = append(dto.PerTeam, TeamOverviewDTO{
			TeamID:         string(t.TeamID),
			Name:           t.Name,
			MemberCount:    t.MemberCount,
			Score:          t.Score,
			Grade:          t.Grade,
			Trend:          string(t.Trend),
			ComplianceRate: t.ComplianceRate,
			NeedsAttention: t.NeedsAttention,
		})
	}
	return dto
}
