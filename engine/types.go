/*
Package engine provides the core compliance and grading engine.

PURPOSE:
  This package contains the pure computation that answers, for any team and
  date range: who was expected to submit a wellness check-in on each calendar
  day, whether they did, and how that rolls up into compliance rates,
  readiness averages, and letter grades.

KEY CONCEPTS IN THIS FILE (types.go):
  - Member/Team/CheckIn/Holiday: the immutable input records
  - ReadinessStatus: GREEN/YELLOW/RED tri-state derived from check-in metrics
  - StatusHistogram: per-day count of readiness statuses
  - DailySummary: the per-team-per-day aggregate record
  - Typed IDs: prevent mixing member/team/org identifiers

DESIGN PRINCIPLES:
  1. Purity: the engine performs no I/O; callers hand it a snapshot
  2. Single source of truth: every report view routes through the same code
  3. Null propagation: "no data" is a nil pointer, never 0 or 100
  4. Precision: rate math uses decimal.Decimal, not float64

USAGE:
  snap := engine.BuildSnapshot(input)
  summary := engine.ComputeDailySummary(snap, day)
  report, err := engine.ComputePeriodReport(snap, period)

SEE ALSO:
  - calendar.go: timezone-correct day boundaries and work-day evaluation
  - snapshot.go: the indexed per-request snapshot
  - daily.go, report.go: daily and period aggregation
*/
package engine

import (
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type MemberID string
type TeamID string
type OrgID string
type CheckInID string
type ExemptionID string

// =============================================================================
// ROSTER RECORDS
// =============================================================================

// Role determines whether a member counts toward expected attendance.
// Team leaders supervise but are never in their own team's expected set.
type Role string

const (
	RoleWorker Role = "worker"
	RoleLeader Role = "leader"
)

// CountsTowardAttendance reports whether this role is tracked for check-ins.
func (r Role) CountsTowardAttendance() bool { return r == RoleWorker }

// Member is one roster entry. TotalCheckIns is the member's cached lifetime
// check-in count, used for the onboarding threshold in period readiness.
type Member struct {
	ID            MemberID
	TeamID        TeamID
	Name          string
	Role          Role
	JoinedAt      time.Time
	TotalCheckIns int
}

// Team carries the schedule configuration the engine evaluates against.
type Team struct {
	ID            TeamID
	OrgID         OrgID
	Name          string
	WorkDays      WorkDaySet
	ShiftStart    ClockTime
	ShiftEnd      ClockTime
	GraceMinutes  int
	IsActive      bool
	DeactivatedAt *time.Time
	CreatedAt     time.Time
}

// Organization carries the timezone all day-boundary math resolves in.
type Organization struct {
	ID       OrgID
	Name     string
	Timezone string
}

// =============================================================================
// CHECK-IN - Immutable wellness submission
// =============================================================================

// CheckIn records one wellness submission. The four metrics are each on a
// 0-10 scale; stress is "higher is worse", the rest are "higher is better".
type CheckIn struct {
	ID             CheckInID
	MemberID       MemberID
	OrgID          OrgID
	SubmittedAt    time.Time
	Mood           int
	Stress         int
	Sleep          int
	PhysicalHealth int
}

// =============================================================================
// HOLIDAY
// =============================================================================

// Holiday cancels the check-in expectation for every member on its date,
// regardless of work-day pattern.
type Holiday struct {
	OrgID OrgID
	Date  Day
	Name  string
}

// =============================================================================
// READINESS STATUS & HISTOGRAM
// =============================================================================

type ReadinessStatus string

const (
	StatusGreen  ReadinessStatus = "green"
	StatusYellow ReadinessStatus = "yellow"
	StatusRed    ReadinessStatus = "red"
)

// StatusHistogram counts check-ins by readiness status for one day or period.
type StatusHistogram struct {
	Green  int `json:"green"`
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

// Add merges another histogram into this one.
func (h *StatusHistogram) Add(other StatusHistogram) {
	h.Green += other.Green
	h.Yellow += other.Yellow
	h.Red += other.Red
}

// Record counts one check-in by its readiness status.
func (h *StatusHistogram) Record(s ReadinessStatus) {
	switch s {
	case StatusGreen:
		h.Green++
	case StatusYellow:
		h.Yellow++
	case StatusRed:
		h.Red++
	}
}

// Total returns the number of check-ins recorded.
func (h StatusHistogram) Total() int { return h.Green + h.Yellow + h.Red }

// =============================================================================
// DAILY SUMMARY - One team, one calendar day
// =============================================================================

// DailySummary is the per-team-per-day aggregate. It is a pure projection of
// the snapshot: safe to cache, safe to delete and regenerate, never a source
// of truth. ComplianceRate and AvgReadiness are nil when there is no data
// (non-work day, holiday, or zero expected members).
type DailySummary struct {
	TeamID         TeamID
	Date           Day
	IsWorkDay      bool
	IsHoliday      bool
	TotalMembers   int
	OnLeave        int
	Expected       int
	CheckedIn      int
	Histogram      StatusHistogram
	AvgReadiness   *int
	ComplianceRate *int
}

// =============================================================================
// POINTER HELPERS
// =============================================================================

// IntPtr returns a pointer to v. Used for nullable counts and rates.
func IntPtr(v int) *int { return &v }
