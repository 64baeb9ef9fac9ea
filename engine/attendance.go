package engine

import "time"

// =============================================================================
// ATTENDANCE CLASSIFIER - When (or whether) a member checked in
// =============================================================================

// AttendanceStatus classifies one member's day relative to shift start.
type AttendanceStatus string

const (
	// AttendanceGreen: checked in at or before shift start + grace.
	AttendanceGreen AttendanceStatus = "green"
	// AttendanceYellow: checked in, but after the grace period.
	AttendanceYellow AttendanceStatus = "yellow"
	// AttendanceAbsent: no check-in on an expected work day.
	AttendanceAbsent AttendanceStatus = "absent"
	// AttendanceExcused: holiday, or exempted with no check-in. Carries no
	// score and is excluded from any average that divides by counted days.
	AttendanceExcused AttendanceStatus = "excused"
)

// Attendance point values.
const (
	OnTimePoints = 100
	LatePoints   = 75
	AbsentPoints = 0
)

// AttendanceMark is the classification of one member on one day. Score is nil
// only for EXCUSED days.
type AttendanceMark struct {
	Status AttendanceStatus
	Score  *int
}

// ClassifyAttendance classifies a member's day. checkedInAt is nil when the
// member did not check in; excused marks a day the member owed no check-in
// (holiday, or exempted without checking in).
func ClassifyAttendance(cal *Calendar, day Day, shiftStart ClockTime, graceMinutes int, checkedInAt *time.Time, excused bool) AttendanceMark {
	if checkedInAt == nil {
		if excused {
			return AttendanceMark{Status: AttendanceExcused}
		}
		return AttendanceMark{Status: AttendanceAbsent, Score: IntPtr(AbsentPoints)}
	}

	deadline := cal.ShiftInstant(day, shiftStart).Add(time.Duration(graceMinutes) * time.Minute)
	if !checkedInAt.After(deadline) {
		return AttendanceMark{Status: AttendanceGreen, Score: IntPtr(OnTimePoints)}
	}
	return AttendanceMark{Status: AttendanceYellow, Score: IntPtr(LatePoints)}
}
