package engine

// =============================================================================
// EXPECTED-SET CALCULATOR - Who owed a check-in on one day
// =============================================================================

// ExpectedSet partitions a team's roster for one calendar day.
//
// The compliance denominator is |Expected| + |ExemptedCheckedIn|; the
// numerator is the Expected members who checked in plus all of
// ExemptedCheckedIn. An exemption suppresses the expectation to check in,
// but a check-in timestamped on a day always counts for that day, so a
// member on approved leave who still checks in lands in both sides.
type ExpectedSet struct {
	Day       Day
	IsWorkDay bool
	IsHoliday bool

	// Expected members owe a check-in today.
	Expected []Member
	// Exempted members were on approved leave and did not check in; they are
	// excluded from compliance entirely.
	Exempted []Member
	// ExemptedCheckedIn members were on approved leave but checked in anyway.
	ExemptedCheckedIn []Member
}

// Counted reports whether the day participates in compliance at all. Non-work
// days and holidays are non-counted: the expected set is empty by rule.
func (es *ExpectedSet) Counted() bool { return es.IsWorkDay && !es.IsHoliday }

// ExpectedCount is the compliance denominator for the day.
func (es *ExpectedSet) ExpectedCount() int {
	return len(es.Expected) + len(es.ExemptedCheckedIn)
}

// ComputeExpectedSet partitions the roster for day d.
//
// Membership rules:
//   - only worker-class roles count; leaders supervise but are never expected
//   - a member's effective start is their join date plus one calendar day:
//     someone who joined today is first expected tomorrow
//   - members of inactive teams are handled by the caller not requesting
//     reports past the deactivation date; the roster snapshot is authoritative
func ComputeExpectedSet(snap *Snapshot, d Day) ExpectedSet {
	es := ExpectedSet{
		Day:       d,
		IsWorkDay: snap.Team.WorkDays.Contains(d.Weekday()),
		IsHoliday: snap.IsHoliday(d),
	}
	if !es.Counted() {
		return es
	}

	cal := snap.Calendar()
	for _, m := range snap.Members {
		if !m.Role.CountsTowardAttendance() {
			continue
		}
		effectiveStart := cal.DayOf(m.JoinedAt).AddDays(1)
		if d.Before(effectiveStart) {
			continue
		}

		if !snap.IsExempted(m.ID, d) {
			es.Expected = append(es.Expected, m)
			continue
		}
		if snap.CheckInOn(m.ID, d) != nil {
			es.ExemptedCheckedIn = append(es.ExemptedCheckedIn, m)
		} else {
			es.Exempted = append(es.Exempted, m)
		}
	}
	return es
}
