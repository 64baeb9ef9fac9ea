package engine

import "time"

// =============================================================================
// EXEMPTION - Date-bounded suppression of check-in expectation
// =============================================================================

// ExemptionStatus is a finite state machine, not a free-form string. Only
// Approved exemptions ever affect expected-set computation.
type ExemptionStatus string

const (
	ExemptionPending    ExemptionStatus = "pending"
	ExemptionApproved   ExemptionStatus = "approved"
	ExemptionRejected   ExemptionStatus = "rejected"
	ExemptionEndedEarly ExemptionStatus = "ended_early"
)

// legalTransitions enumerates the only permitted status changes.
var legalTransitions = map[ExemptionStatus][]ExemptionStatus{
	ExemptionPending:  {ExemptionApproved, ExemptionRejected},
	ExemptionApproved: {ExemptionEndedEarly},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to ExemptionStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ExemptionType categorizes the leave (informational only; all types
// suppress expectation identically).
type ExemptionType string

const (
	ExemptionSick     ExemptionType = "sick"
	ExemptionVacation ExemptionType = "vacation"
	ExemptionPersonal ExemptionType = "personal"
	ExemptionMedical  ExemptionType = "medical"
	ExemptionOther    ExemptionType = "other"
)

// Exemption is one leave record. EndDate is inclusive: it names the last day
// still covered, not the return date. A nil EndDate is unbounded into the
// future. An EndDate before StartDate covers zero days.
type Exemption struct {
	ID        ExemptionID
	MemberID  MemberID
	Type      ExemptionType
	Status    ExemptionStatus
	StartDate Day
	EndDate   *Day
	CreatedAt time.Time
}

// Transition applies a status change, enforcing the state machine.
func (e *Exemption) Transition(to ExemptionStatus) error {
	if !CanTransition(e.Status, to) {
		return &TransitionError{From: e.Status, To: to}
	}
	e.Status = to
	return nil
}

// Covers reports whether this exemption is active on the given day. Only
// Approved exemptions cover anything.
func (e *Exemption) Covers(d Day) bool {
	if e.Status != ExemptionApproved {
		return false
	}
	if d.Before(e.StartDate) {
		return false
	}
	if e.EndDate != nil && d.After(*e.EndDate) {
		return false
	}
	return true
}

// =============================================================================
// EXEMPTION INDEX - Per-snapshot lookup
// =============================================================================

// ExemptionIndex answers isExempted(member, day) over a fixed set of records.
// Overlapping exemptions are fine: any covering record exempts the member.
//
// Exemptions suppress the expectation to check in; they never retroactively
// invalidate an actual check-in. That rule lives in the expected-set
// calculator, which consults this index alongside the check-in index.
type ExemptionIndex struct {
	byMember map[MemberID][]*Exemption
}

// NewExemptionIndex builds the index, keeping only Approved records since no
// other status can ever cover a day.
func NewExemptionIndex(exemptions []Exemption) *ExemptionIndex {
	idx := &ExemptionIndex{byMember: make(map[MemberID][]*Exemption)}
	for i := range exemptions {
		e := &exemptions[i]
		if e.Status != ExemptionApproved {
			continue
		}
		idx.byMember[e.MemberID] = append(idx.byMember[e.MemberID], e)
	}
	return idx
}

// IsExempted reports whether any approved exemption covers the member on d.
func (idx *ExemptionIndex) IsExempted(memberID MemberID, d Day) bool {
	for _, e := range idx.byMember[memberID] {
		if e.Covers(d) {
			return true
		}
	}
	return false
}
