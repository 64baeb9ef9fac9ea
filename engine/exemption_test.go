package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wellness-engine/engine"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

func TestExemption_LegalTransitions(t *testing.T) {
	legal := []struct{ from, to engine.ExemptionStatus }{
		{engine.ExemptionPending, engine.ExemptionApproved},
		{engine.ExemptionPending, engine.ExemptionRejected},
		{engine.ExemptionApproved, engine.ExemptionEndedEarly},
	}
	for _, tr := range legal {
		assert.True(t, engine.CanTransition(tr.from, tr.to), "%s -> %s should be legal", tr.from, tr.to)
	}
}

func TestExemption_IllegalTransitions(t *testing.T) {
	illegal := []struct{ from, to engine.ExemptionStatus }{
		{engine.ExemptionRejected, engine.ExemptionApproved},
		{engine.ExemptionApproved, engine.ExemptionPending},
		{engine.ExemptionApproved, engine.ExemptionRejected},
		{engine.ExemptionEndedEarly, engine.ExemptionApproved},
		{engine.ExemptionPending, engine.ExemptionEndedEarly},
		{engine.ExemptionPending, engine.ExemptionPending},
	}
	for _, tr := range illegal {
		assert.False(t, engine.CanTransition(tr.from, tr.to), "%s -> %s should be illegal", tr.from, tr.to)
	}
}

func TestExemption_Transition_EnforcesMachine(t *testing.T) {
	e := engine.Exemption{ID: "ex-1", MemberID: "m-1", Status: engine.ExemptionPending}

	require.NoError(t, e.Transition(engine.ExemptionApproved))
	assert.Equal(t, engine.ExemptionApproved, e.Status)

	err := e.Transition(engine.ExemptionRejected)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrIllegalTransition)
	var trErr *engine.TransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, engine.ExemptionApproved, trErr.From)
	assert.Equal(t, engine.ExemptionApproved, e.Status, "failed transition must not change status")

	require.NoError(t, e.Transition(engine.ExemptionEndedEarly))
}

// =============================================================================
// COVERAGE
// =============================================================================

func TestExemption_Covers_InclusiveEndDate(t *testing.T) {
	end := mar10().AddDays(2)
	e := approvedLeave("ex-1", "m-1", mar10(), &end)

	assert.False(t, e.Covers(mar10().AddDays(-1)), "day before start not covered")
	assert.True(t, e.Covers(mar10()))
	assert.True(t, e.Covers(end), "end date is inclusive: the last covered day")
	assert.False(t, e.Covers(end.AddDays(1)), "the return day is not covered")
}

func TestExemption_Covers_NilEndIsUnbounded(t *testing.T) {
	e := approvedLeave("ex-1", "m-1", mar10(), nil)

	assert.True(t, e.Covers(mar10()))
	assert.True(t, e.Covers(mar10().AddDays(365)))
	assert.False(t, e.Covers(mar10().AddDays(-1)))
}

func TestExemption_Covers_EndBeforeStartCoversNothing(t *testing.T) {
	end := mar10().AddDays(-5)
	e := approvedLeave("ex-1", "m-1", mar10(), &end)

	for d := -7; d <= 7; d++ {
		assert.False(t, e.Covers(mar10().AddDays(d)))
	}
}

func TestExemption_OnlyApprovedCovers(t *testing.T) {
	for _, status := range []engine.ExemptionStatus{
		engine.ExemptionPending, engine.ExemptionRejected, engine.ExemptionEndedEarly,
	} {
		e := approvedLeave("ex-1", "m-1", mar10(), nil)
		e.Status = status
		assert.False(t, e.Covers(mar10()), "status %s must not cover", status)
	}
}

// =============================================================================
// INDEX
// =============================================================================

func TestExemptionIndex_OnlyApprovedIndexed(t *testing.T) {
	pending := approvedLeave("ex-1", "m-1", mar10(), nil)
	pending.Status = engine.ExemptionPending
	approved := approvedLeave("ex-2", "m-2", mar10(), nil)

	idx := engine.NewExemptionIndex([]engine.Exemption{pending, approved})

	assert.False(t, idx.IsExempted("m-1", mar10()), "pending exemptions never exempt")
	assert.True(t, idx.IsExempted("m-2", mar10()))
	assert.False(t, idx.IsExempted("m-3", mar10()))
}

func TestExemptionIndex_OverlappingRecords(t *testing.T) {
	// Two overlapping approved records: any covering record exempts.
	end1 := mar10().AddDays(1)
	end2 := mar10().AddDays(3)
	idx := engine.NewExemptionIndex([]engine.Exemption{
		approvedLeave("ex-1", "m-1", mar10(), &end1),
		approvedLeave("ex-2", "m-1", mar10().AddDays(1), &end2),
	})

	for d := 0; d <= 3; d++ {
		assert.True(t, idx.IsExempted("m-1", mar10().AddDays(d)))
	}
	assert.False(t, idx.IsExempted("m-1", mar10().AddDays(4)))
}
