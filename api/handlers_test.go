package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wellness-engine/engine"
	"github.com/warp/wellness-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// fixedNow is 15:00 UTC on Monday 2025-03-10.
func fixedNow() time.Time {
	return time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
}

func newTestServer(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	h := NewHandler(store, log)
	h.Now = fixedNow
	return h, NewRouter(h)
}

func seedAPITeam(t *testing.T, h *Handler) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, h.Store.SaveOrganization(ctx, engine.Organization{
		ID: "org-1", Name: "Test Org", Timezone: "UTC",
	}))
	require.NoError(t, h.Store.SaveTeam(ctx, engine.Team{
		ID:           "team-1",
		OrgID:        "org-1",
		Name:         "Alpha",
		WorkDays:     engine.WeekdaySet(),
		ShiftStart:   engine.ClockTime{Hour: 9},
		ShiftEnd:     engine.ClockTime{Hour: 17},
		GraceMinutes: 15,
		IsActive:     true,
		CreatedAt:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}))
	for i := 1; i <= 3; i++ {
		require.NoError(t, h.Store.SaveMember(ctx, engine.Member{
			ID:       engine.MemberID(fmt.Sprintf("m-%d", i)),
			TeamID:   "team-1",
			Name:     fmt.Sprintf("Member %d", i),
			Role:     engine.RoleWorker,
			JoinedAt: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		}))
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// =============================================================================
// TEAMS
// =============================================================================

func TestAPI_CreateAndListTeams(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	rec := doJSON(t, router, http.MethodPost, "/api/orgs/org-1/teams", map[string]any{
		"id": "team-night",
		"schedule": map[string]any{
			"name":          "Night Crew",
			"work_days":     "mon,wed,fri",
			"shift_start":   "22:00",
			"grace_minutes": 30,
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	team := decode[TeamDTO](t, rec)
	assert.Equal(t, "team-night", team.ID)
	assert.Equal(t, "Night Crew", team.Name)
	assert.Equal(t, []string{"mon", "wed", "fri"}, team.WorkDays)
	assert.Equal(t, "22:00", team.ShiftStart)
	assert.True(t, team.IsActive)

	rec = doJSON(t, router, http.MethodGet, "/api/orgs/org-1/teams", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	teams := decode[[]TeamDTO](t, rec)
	assert.Len(t, teams, 2)
}

func TestAPI_CreateTeam_InvalidSchedule(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	rec := doJSON(t, router, http.MethodPost, "/api/orgs/org-1/teams", map[string]any{
		"schedule": map[string]any{"work_days": "mon,funday"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.NotEmpty(t, body.Error)
}

// =============================================================================
// CHECK-INS
// =============================================================================

func TestAPI_SubmitCheckIn(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	rec := doJSON(t, router, http.MethodPost, "/api/checkins", SubmitCheckInRequest{
		MemberID: "m-1",
		Mood:     8, Stress: 2, Sleep: 8, PhysicalHealth: 8,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.Equal(t, float64(80), body["score"])
	assert.Equal(t, "green", body["status"])
}

func TestAPI_SubmitCheckIn_Validation(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	// Metric out of range.
	rec := doJSON(t, router, http.MethodPost, "/api/checkins", SubmitCheckInRequest{
		MemberID: "m-1", Mood: 11,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown member.
	rec = doJSON(t, router, http.MethodPost, "/api/checkins", SubmitCheckInRequest{
		MemberID: "ghost", Mood: 5, Stress: 5, Sleep: 5, PhysicalHealth: 5,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Bad timestamp.
	rec = doJSON(t, router, http.MethodPost, "/api/checkins", SubmitCheckInRequest{
		MemberID: "m-1", SubmittedAt: "yesterday-ish",
		Mood: 5, Stress: 5, Sleep: 5, PhysicalHealth: 5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// EXEMPTION LIFECYCLE
// =============================================================================

func TestAPI_ExemptionLifecycle(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	end := "2025-03-12"
	rec := doJSON(t, router, http.MethodPost, "/api/exemptions", CreateExemptionRequest{
		MemberID:  "m-1",
		Type:      "sick",
		StartDate: "2025-03-10",
		EndDate:   &end,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[ExemptionDTO](t, rec)
	assert.Equal(t, "pending", created.Status)
	require.NotNil(t, created.EndDate)
	assert.Equal(t, "2025-03-12", *created.EndDate)

	// Approve it.
	rec = doJSON(t, router, http.MethodPost, "/api/exemptions/"+created.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "approved", decode[ExemptionDTO](t, rec).Status)

	// A second approve is an illegal transition.
	rec = doJSON(t, router, http.MethodPost, "/api/exemptions/"+created.ID+"/approve", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// End it early.
	rec = doJSON(t, router, http.MethodPost, "/api/exemptions/"+created.ID+"/end-early", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ended_early", decode[ExemptionDTO](t, rec).Status)
}

func TestAPI_Exemption_UnknownID(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	rec := doJSON(t, router, http.MethodPost, "/api/exemptions/ghost/approve", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// REPORTS
// =============================================================================

func submitAt(t *testing.T, h *Handler, memberID string, at time.Time) {
	t.Helper()
	require.NoError(t, h.Store.SaveCheckIn(context.Background(), engine.CheckIn{
		ID:          engine.CheckInID(fmt.Sprintf("ci-%s-%d", memberID, at.Unix())),
		MemberID:    engine.MemberID(memberID),
		OrgID:       "org-1",
		SubmittedAt: at,
		Mood:        8, Stress: 2, Sleep: 8, PhysicalHealth: 8,
	}))
}

func TestAPI_DailySummary(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	// 2 of 3 members check in on Monday.
	monday := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	submitAt(t, h, "m-1", monday)
	submitAt(t, h, "m-2", monday)

	rec := doJSON(t, router, http.MethodGet, "/api/teams/team-1/summary?date=2025-03-10", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	summary := decode[DailySummaryDTO](t, rec)
	assert.Equal(t, "2025-03-10", summary.Date)
	assert.True(t, summary.IsWorkDay)
	assert.Equal(t, 3, summary.Expected)
	assert.Equal(t, 2, summary.CheckedIn)
	require.NotNil(t, summary.ComplianceRate)
	assert.Equal(t, 67, *summary.ComplianceRate)
}

func TestAPI_DailySummary_UnknownTeam(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	rec := doJSON(t, router, http.MethodGet, "/api/teams/ghost/summary", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_PeriodReport_DefaultWeek(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	// Check-ins for the trailing week's counted days (Mar 4-10 spans Tue-Mon).
	for offset := 0; offset < 7; offset++ {
		day := time.Date(2025, time.March, 10-offset, 9, 0, 0, 0, time.UTC)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		submitAt(t, h, "m-1", day)
		submitAt(t, h, "m-2", day)
		submitAt(t, h, "m-3", day)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/teams/team-1/report", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decode[PeriodReportDTO](t, rec)
	assert.Equal(t, "2025-03-04", report.StartDate)
	assert.Equal(t, "2025-03-10", report.EndDate)
	assert.Len(t, report.TrendSeries, 7)
	require.NotNil(t, report.ComplianceRate)
	assert.Equal(t, 100, *report.ComplianceRate)
	require.NotNil(t, report.Grade)
	assert.Len(t, report.Members, 3)
}

func TestAPI_PeriodReport_ExplicitRange(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	rec := doJSON(t, router, http.MethodGet,
		"/api/teams/team-1/report?start=2025-03-03&end=2025-03-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	report := decode[PeriodReportDTO](t, rec)
	assert.Equal(t, "2025-03-03", report.StartDate)
	assert.Equal(t, "2025-03-07", report.EndDate)
}

func TestAPI_PeriodReport_GarbageRangeClampsToDefault(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	// End before start degrades to the default trailing window, not an error.
	rec := doJSON(t, router, http.MethodGet,
		"/api/teams/team-1/report?start=2025-03-10&end=2025-03-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	report := decode[PeriodReportDTO](t, rec)
	assert.Equal(t, "2025-03-04", report.StartDate)
	assert.Equal(t, "2025-03-10", report.EndDate)
}

func TestAPI_PeriodReport_TodayRange(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	rec := doJSON(t, router, http.MethodGet, "/api/teams/team-1/report?range=today", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	report := decode[PeriodReportDTO](t, rec)
	assert.Equal(t, report.StartDate, report.EndDate)
	assert.Equal(t, "2025-03-10", report.EndDate)
}

// =============================================================================
// OVERVIEW
// =============================================================================

func TestAPI_Overview(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	monday := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	submitAt(t, h, "m-1", monday)
	submitAt(t, h, "m-2", monday)
	submitAt(t, h, "m-3", monday)

	rec := doJSON(t, router, http.MethodGet, "/api/orgs/org-1/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	overview := decode[OverviewDTO](t, rec)
	assert.Equal(t, 1, overview.TeamCount)
	require.Len(t, overview.PerTeam, 1)
	assert.Equal(t, "Alpha", overview.PerTeam[0].Name)
	assert.Equal(t, 3, overview.PerTeam[0].MemberCount)
	assert.NotEmpty(t, overview.PerTeam[0].Trend)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestAPI_Holidays_AddListDelete(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	rec := doJSON(t, router, http.MethodPost, "/api/orgs/org-1/holidays", CreateHolidayRequest{
		Date: "2025-03-17", Name: "Founders Day",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/orgs/org-1/holidays", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var holidays []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &holidays))
	require.Len(t, holidays, 1)
	assert.Equal(t, "Founders Day", holidays[0]["name"])

	rec = doJSON(t, router, http.MethodDelete, "/api/orgs/org-1/holidays/2025-03-17", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/orgs/org-1/holidays", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &holidays))
	assert.Empty(t, holidays)
}

// =============================================================================
// SUDDEN CHANGE
// =============================================================================

func TestAPI_SuddenChange(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	// A week of strong scores, then a crash today.
	for d := 1; d <= 7; d++ {
		submitAt(t, h, "m-1", time.Date(2025, time.March, 10-d, 9, 0, 0, 0, time.UTC))
	}
	require.NoError(t, h.Store.SaveCheckIn(context.Background(), engine.CheckIn{
		ID: "ci-crash", MemberID: "m-1", OrgID: "org-1",
		SubmittedAt: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		Mood:        2, Stress: 9, Sleep: 3, PhysicalHealth: 2,
	}))

	rec := doJSON(t, router, http.MethodGet,
		"/api/members/m-1/sudden-change?team_id=team-1&date=2025-03-10", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[SuddenChangeDTO](t, rec)
	assert.True(t, body.SuddenChange)
	assert.Equal(t, "2025-03-10", body.Date)

	// Missing team_id parameter.
	rec = doJSON(t, router, http.MethodGet, "/api/members/m-1/sudden-change", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// MEMBERS
// =============================================================================

func TestAPI_CreateMember(t *testing.T) {
	h, router := newTestServer(t)
	seedAPITeam(t, h)

	rec := doJSON(t, router, http.MethodPost, "/api/members", CreateMemberRequest{
		TeamID: "team-1", Name: "Newbie",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.NotEmpty(t, body["id"])

	members, err := h.Store.Members(context.Background(), "team-1")
	require.NoError(t, err)
	assert.Len(t, members, 4)

	// Missing fields rejected.
	rec = doJSON(t, router, http.MethodPost, "/api/members", CreateMemberRequest{Name: "NoTeam"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_RecomputeWindowUsesOrgTimezone(t *testing.T) {
	h, router := newTestServer(t)
	// 20:00 UTC on Mar 10 is already Mar 11 in Tokyo; the cached window must
	// cover the org's current local day, not UTC's.
	h.Now = func() time.Time { return time.Date(2025, time.March, 10, 20, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	require.NoError(t, h.Store.SaveOrganization(ctx, engine.Organization{
		ID: "org-jp", Name: "East", Timezone: "Asia/Tokyo",
	}))
	require.NoError(t, h.Store.SaveTeam(ctx, engine.Team{
		ID: "team-jp", OrgID: "org-jp", Name: "Tokyo",
		WorkDays: engine.WeekdaySet(), ShiftStart: engine.ClockTime{Hour: 9},
		GraceMinutes: 15, IsActive: true,
		CreatedAt: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, h.Store.SaveMember(ctx, engine.Member{
		ID: "m-jp", TeamID: "team-jp", Name: "Yui", Role: engine.RoleWorker,
		JoinedAt: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}))

	rec := doJSON(t, router, http.MethodPost, "/api/checkins", SubmitCheckInRequest{
		MemberID: "m-jp", Mood: 5, Stress: 5, Sleep: 5, PhysicalHealth: 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	h.Recomputer.mu.Lock()
	period, ok := h.Recomputer.pending["team-jp"]
	h.Recomputer.mu.Unlock()
	require.True(t, ok, "check-in schedules a recompute for the member's team")
	assert.Equal(t, engine.NewDay(2025, time.March, 11), period.End)
}
