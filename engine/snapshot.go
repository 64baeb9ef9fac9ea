/*
snapshot.go - Read-only indexed snapshot built once per request

PURPOSE:
  The engine computes over a point-in-time snapshot of records fetched by the
  caller in one consistent read. This file assembles that snapshot and builds
  the two lookup indexes every component shares: check-ins by (member, day)
  and the exemption index. Scattered in-function lookup maps are what let two
  copies of this logic drift apart in the first place; one snapshot, built
  once, is the fix.

CONTENTS:
  - SnapshotInput: the raw records a Source hands over
  - Snapshot: the indexed, immutable view the engine computes against

SEE ALSO:
  - source.go: the Source interface callers implement
  - expected.go, daily.go, report.go: consumers
*/
package engine

// SnapshotInput is the raw, already-fetched record set for one team and one
// report window. Callers must load all fields in a single consistent read so
// a concurrent mutation cannot produce a half-updated result.
type SnapshotInput struct {
	Team       Team
	Org        Organization
	Members    []Member
	CheckIns   []CheckIn
	Exemptions []Exemption
	Holidays   []Holiday
}

type memberDay struct {
	member MemberID
	day    Day
}

// Snapshot is the immutable indexed view of one team's records. All engine
// computation is a pure function of a Snapshot, so concurrent requests for
// different teams never share mutable state.
type Snapshot struct {
	Team    Team
	Org     Organization
	Members []Member

	cal        *Calendar
	exemptions *ExemptionIndex
	holidays   map[Day]bool

	// Earliest check-in per member per local calendar day. A member's first
	// submission is their attendance record for the day; later duplicates on
	// the same day are ignored.
	checkins map[memberDay]*CheckIn
}

// BuildSnapshot indexes the input. The calendar resolves in the organization's
// timezone (with the default fallback), and every check-in is bucketed onto
// its local calendar day exactly once, here, so all components agree on which
// day a near-midnight submission belongs to.
func BuildSnapshot(input SnapshotInput) *Snapshot {
	cal := NewCalendar(input.Org.Timezone)

	snap := &Snapshot{
		Team:       input.Team,
		Org:        input.Org,
		Members:    input.Members,
		cal:        cal,
		exemptions: NewExemptionIndex(input.Exemptions),
		holidays:   make(map[Day]bool, len(input.Holidays)),
		checkins:   make(map[memberDay]*CheckIn, len(input.CheckIns)),
	}

	for _, h := range input.Holidays {
		snap.holidays[h.Date] = true
	}

	for i := range input.CheckIns {
		ci := &input.CheckIns[i]
		key := memberDay{member: ci.MemberID, day: cal.DayOf(ci.SubmittedAt)}
		if existing, ok := snap.checkins[key]; !ok || ci.SubmittedAt.Before(existing.SubmittedAt) {
			snap.checkins[key] = ci
		}
	}

	return snap
}

// Calendar returns the organization calendar the snapshot resolves days in.
func (s *Snapshot) Calendar() *Calendar { return s.cal }

// IsHoliday reports whether d is a company holiday.
func (s *Snapshot) IsHoliday(d Day) bool { return s.holidays[d] }

// IsExempted reports whether any approved exemption covers the member on d.
func (s *Snapshot) IsExempted(memberID MemberID, d Day) bool {
	return s.exemptions.IsExempted(memberID, d)
}

// CheckInOn returns the member's check-in for the given local calendar day,
// or nil if they did not check in that day.
func (s *Snapshot) CheckInOn(memberID MemberID, d Day) *CheckIn {
	return s.checkins[memberDay{member: memberID, day: d}]
}
