package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wellness-engine/engine"
	"github.com/warp/wellness-engine/engine/store"
)

func seedMemory(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	m.PutOrganization(engine.Organization{ID: "org-1", Name: "Test Org", Timezone: "UTC"})
	m.PutTeam(engine.Team{
		ID:           "team-1",
		OrgID:        "org-1",
		Name:         "Alpha",
		WorkDays:     engine.WeekdaySet(),
		ShiftStart:   engine.ClockTime{Hour: 9},
		GraceMinutes: 15,
		IsActive:     true,
		CreatedAt:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	m.PutMember(engine.Member{
		ID:       "m-1",
		TeamID:   "team-1",
		Name:     "Ana",
		Role:     engine.RoleWorker,
		JoinedAt: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	return m
}

func TestMemory_LoadSnapshot_FiltersCheckInsByPeriod(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	inWindow := engine.CheckIn{
		ID: "ci-1", MemberID: "m-1", OrgID: "org-1",
		SubmittedAt: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		Mood:        8, Stress: 2, Sleep: 8, PhysicalHealth: 8,
	}
	outOfWindow := inWindow
	outOfWindow.ID = "ci-2"
	outOfWindow.SubmittedAt = time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC)
	m.AddCheckIn(inWindow)
	m.AddCheckIn(outOfWindow)

	period := engine.Period{
		Start: engine.NewDay(2025, time.March, 10),
		End:   engine.NewDay(2025, time.March, 14),
	}
	input, err := m.LoadSnapshot(ctx, "team-1", period)
	require.NoError(t, err)

	require.Len(t, input.CheckIns, 1)
	assert.Equal(t, engine.CheckInID("ci-1"), input.CheckIns[0].ID)
	assert.Equal(t, engine.TeamID("team-1"), input.Team.ID)
	assert.Equal(t, "UTC", input.Org.Timezone)
}

func TestMemory_LoadSnapshot_UnknownTeam(t *testing.T) {
	m := store.NewMemory()
	_, err := m.LoadSnapshot(context.Background(), "no-such-team", engine.Period{})
	assert.ErrorIs(t, err, engine.ErrTeamNotFound)
}

func TestMemory_TransitionExemption_EnforcesMachine(t *testing.T) {
	m := seedMemory(t)
	m.PutExemption(engine.Exemption{
		ID: "ex-1", MemberID: "m-1",
		Type:      engine.ExemptionSick,
		Status:    engine.ExemptionPending,
		StartDate: engine.NewDay(2025, time.March, 10),
	})

	require.NoError(t, m.TransitionExemption("ex-1", engine.ExemptionApproved))

	err := m.TransitionExemption("ex-1", engine.ExemptionRejected)
	assert.ErrorIs(t, err, engine.ErrIllegalTransition)

	err = m.TransitionExemption("missing", engine.ExemptionApproved)
	assert.ErrorIs(t, err, engine.ErrExemptionNotFound)
}

func TestMemory_Teams_ActiveFirstThenName(t *testing.T) {
	m := store.NewMemory()
	m.PutOrganization(engine.Organization{ID: "org-1"})
	m.PutTeam(engine.Team{ID: "t-1", OrgID: "org-1", Name: "Zulu", IsActive: true})
	m.PutTeam(engine.Team{ID: "t-2", OrgID: "org-1", Name: "Alpha", IsActive: false})
	m.PutTeam(engine.Team{ID: "t-3", OrgID: "org-1", Name: "Bravo", IsActive: true})
	m.PutTeam(engine.Team{ID: "t-4", OrgID: "other-org", Name: "Other", IsActive: true})

	teams, err := m.Teams(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, teams, 3)
	assert.Equal(t, "Bravo", teams[0].Name)
	assert.Equal(t, "Zulu", teams[1].Name)
	assert.Equal(t, "Alpha", teams[2].Name, "inactive teams sort last")
}

func TestMemory_SummaryCache_RoundTripAndDelete(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	day := engine.NewDay(2025, time.March, 10)

	summaries := []engine.DailySummary{
		{TeamID: "team-1", Date: day, IsWorkDay: true, Expected: 3, CheckedIn: 2, ComplianceRate: engine.IntPtr(67)},
		{TeamID: "team-1", Date: day.AddDays(1), IsWorkDay: true, Expected: 3, CheckedIn: 3, ComplianceRate: engine.IntPtr(100)},
	}
	require.NoError(t, m.SaveSummaries(ctx, summaries))

	period := engine.Period{Start: day, End: day.AddDays(1)}
	loaded, err := m.LoadSummaries(ctx, "team-1", period)
	require.NoError(t, err)
	assert.Equal(t, summaries, loaded)

	// Latest write wins.
	updated := summaries[0]
	updated.CheckedIn = 3
	updated.ComplianceRate = engine.IntPtr(100)
	require.NoError(t, m.SaveSummaries(ctx, []engine.DailySummary{updated}))
	loaded, err = m.LoadSummaries(ctx, "team-1", engine.Period{Start: day, End: day})
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 3, loaded[0].CheckedIn)

	require.NoError(t, m.DeleteSummaries(ctx, "team-1", period))
	loaded, err = m.LoadSummaries(ctx, "team-1", period)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestMemory_Organization(t *testing.T) {
	m := seedMemory(t)

	org, err := m.Organization(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Test Org", org.Name)

	_, err = m.Organization(context.Background(), "missing")
	assert.ErrorIs(t, err, engine.ErrOrgNotFound)
}
