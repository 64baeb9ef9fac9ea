/*
handlers.go - HTTP API handlers for the compliance reporting system

PURPOSE:
  Exposes the compliance & grading engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates all computation to the
  engine package. Every report view routes through the same engine calls, so
  no two views can ever disagree on a number.

ENDPOINTS:
  Teams:
    GET    /api/orgs/{orgID}/teams          List teams
    POST   /api/orgs/{orgID}/teams          Create team from a schedule
    GET    /api/teams/{id}/summary          Daily summary (?date=YYYY-MM-DD)
    GET    /api/teams/{id}/report           Period report (?range=7d|14d|30d|today|all
                                            or ?start=&end=)

  Organization:
    GET    /api/orgs/{orgID}/overview       Org-wide rollup (?range=...)

  Records:
    POST   /api/members                     Add a roster member
    POST   /api/checkins                    Submit a wellness check-in
    POST   /api/exemptions                  Open a leave record (Pending)
    POST   /api/exemptions/{id}/approve     Pending -> Approved
    POST   /api/exemptions/{id}/reject      Pending -> Rejected
    POST   /api/exemptions/{id}/end-early   Approved -> EndedEarly
    GET    /api/orgs/{orgID}/holidays       List holidays
    POST   /api/orgs/{orgID}/holidays       Add holiday
    DELETE /api/orgs/{orgID}/holidays/{date} Remove holiday
    GET    /api/members/{id}/sudden-change  Threshold check (?date=...)

REQUEST FLOW (report path):
  1. Parse and validate range parameters (garbage clamps to the default)
  2. Load one consistent snapshot from the store
  3. Run the pure engine computation
  4. Serialize

ERROR HANDLING:
  - 400: Validation errors, oversized ranges, illegal exemption transitions
  - 404: Unknown team/member/exemption
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. Authorization is an external collaborator.

SEE ALSO:
  - dto.go: Request/response data structures
  - recompute.go: Background summary recomputation
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warp/wellness-engine/engine"
	"github.com/warp/wellness-engine/factory"
	"github.com/warp/wellness-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           *sqlite.Store
	ScheduleFactory *factory.ScheduleFactory
	Recomputer      *Recomputer
	Log             *logrus.Logger

	// MaxRangeDays bounds report windows; 0 means the engine default.
	MaxRangeDays int

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, log *logrus.Logger) *Handler {
	h := &Handler{
		Store:           store,
		ScheduleFactory: factory.NewScheduleFactory(),
		Log:             log,
		Now:             time.Now,
	}
	h.Recomputer = NewRecomputer(store, store, log)
	return h
}

// =============================================================================
// TEAM HANDLERS
// =============================================================================

// ListTeams returns all teams for an organization.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	orgID := engine.OrgID(chi.URLParam(r, "orgID"))
	teams, err := h.Store.Teams(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list teams", err)
		return
	}

	dtos := make([]TeamDTO, len(teams))
	for i, t := range teams {
		dtos[i] = toTeamDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTeam creates a team from a schedule definition.
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	orgID := engine.OrgID(chi.URLParam(r, "orgID"))

	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	cfg, err := h.ScheduleFactory.FromJSON(req.Schedule)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid schedule", err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	team := engine.Team{
		ID:           engine.TeamID(id),
		OrgID:        orgID,
		Name:         cfg.Name,
		WorkDays:     cfg.WorkDays,
		ShiftStart:   cfg.ShiftStart,
		ShiftEnd:     cfg.ShiftEnd,
		GraceMinutes: cfg.GraceMinutes,
		IsActive:     true,
		CreatedAt:    h.Now(),
	}
	if err := h.Store.SaveTeam(r.Context(), team); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save team", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTeamDTO(team))
}

// GetDailySummary computes one team-day summary. The cache and the live path
// both run through engine.ComputeDailySummary; a cached row is only ever a
// byte-identical copy of what this returns.
func (h *Handler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	teamID := engine.TeamID(chi.URLParam(r, "id"))

	snap, day, err := h.loadSnapshotForDay(r, teamID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	summary := engine.ComputeDailySummary(snap, day)
	writeJSON(w, http.StatusOK, toDailySummaryDTO(summary))
}

func (h *Handler) loadSnapshotForDay(r *http.Request, teamID engine.TeamID) (*engine.Snapshot, engine.Day, error) {
	// Resolve the org calendar first so the date parameter lands on the right
	// local day; the snapshot is then loaded for that single day.
	team, err := h.Store.Team(r.Context(), teamID)
	if err != nil {
		return nil, engine.Day{}, err
	}
	org, err := h.Store.Organization(r.Context(), team.OrgID)
	if err != nil && !engine.IsNotFound(err) {
		return nil, engine.Day{}, err
	}
	tz := ""
	if org != nil {
		tz = org.Timezone
	}
	cal := engine.NewCalendar(tz)

	day := cal.Today(h.Now())
	if param := r.URL.Query().Get("date"); param != "" {
		if parsed, perr := engine.ParseDay(param); perr == nil {
			day = parsed
		}
	}

	input, err := h.Store.LoadSnapshot(r.Context(), teamID, engine.Period{Start: day, End: day})
	if err != nil {
		return nil, engine.Day{}, err
	}
	return engine.BuildSnapshot(*input), day, nil
}

// GetPeriodReport computes the period report for a team.
func (h *Handler) GetPeriodReport(w http.ResponseWriter, r *http.Request) {
	teamID := engine.TeamID(chi.URLParam(r, "id"))

	team, err := h.Store.Team(r.Context(), teamID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	report, err := h.periodReportFor(r, *team)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodReportDTO(report))
}

func (h *Handler) periodReportFor(r *http.Request, team engine.Team) (*engine.PeriodReport, error) {
	org, err := h.Store.Organization(r.Context(), team.OrgID)
	if err != nil && !engine.IsNotFound(err) {
		return nil, err
	}
	tz := ""
	if org != nil {
		tz = org.Timezone
	}
	cal := engine.NewCalendar(tz)

	period := h.resolvePeriod(r, cal, team)
	if err := engine.CheckRange(period, h.MaxRangeDays); err != nil {
		return nil, err
	}

	input, err := h.Store.LoadSnapshot(r.Context(), team.ID, period)
	if err != nil {
		return nil, err
	}
	return engine.ComputePeriodReport(engine.BuildSnapshot(*input), period, h.MaxRangeDays)
}

// resolvePeriod turns range parameters into a period. Unknown or garbage
// parameters clamp to the default trailing window; they never error.
func (h *Handler) resolvePeriod(r *http.Request, cal *engine.Calendar, team engine.Team) engine.Period {
	now := h.Now()
	today := cal.Today(now)

	if start := r.URL.Query().Get("start"); start != "" {
		var p engine.Period
		p.Start, _ = engine.ParseDay(start)
		p.End, _ = engine.ParseDay(r.URL.Query().Get("end"))
		return engine.SafePeriod(p, today)
	}

	switch strings.ToLower(r.URL.Query().Get("range")) {
	case "", "7d", "week":
		return cal.LastNDays(now, 7)
	case "today":
		return engine.Period{Start: today, End: today}
	case "14d":
		return cal.LastNDays(now, 14)
	case "30d", "month":
		return cal.LastNDays(now, 30)
	case "all":
		return engine.Period{Start: cal.DayOf(team.CreatedAt), End: today}
	default:
		return cal.LastNDays(now, engine.DefaultRangeDays)
	}
}

// =============================================================================
// ORGANIZATION OVERVIEW
// =============================================================================

// GetOverview rolls all of an organization's teams into one summary. Each
// team's numbers come from the same ComputePeriodReport the team view uses.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	orgID := engine.OrgID(chi.URLParam(r, "orgID"))

	teams, err := h.Store.Teams(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list teams", err)
		return
	}

	var stats []engine.TeamPeriodStats
	for _, team := range teams {
		if !team.IsActive {
			continue
		}
		current, err := h.periodReportFor(r, team)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		// Previous equal-length period for trend classification.
		var previousGrade *engine.Grade
		prevPeriod := current.Period.Previous()
		if input, perr := h.Store.LoadSnapshot(r.Context(), team.ID, prevPeriod); perr == nil {
			if prev, rerr := engine.ComputePeriodReport(engine.BuildSnapshot(*input), prevPeriod, h.MaxRangeDays); rerr == nil {
				previousGrade = prev.Grade
			}
		}

		stats = append(stats, engine.TeamPeriodStats{
			TeamID:        team.ID,
			Name:          team.Name,
			MemberCount:   len(current.Members),
			Current:       current,
			PreviousGrade: previousGrade,
		})
	}

	writeJSON(w, http.StatusOK, toOverviewDTO(engine.ComputeOverview(stats)))
}

// =============================================================================
// RECORD HANDLERS (roster, check-ins, exemptions, holidays)
// =============================================================================

// CreateMember adds a roster member. The member's expected attendance starts
// the calendar day after they join.
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TeamID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "team_id and name are required", nil)
		return
	}
	role := engine.Role(req.Role)
	if role == "" {
		role = engine.RoleWorker
	}

	member := engine.Member{
		ID:       engine.MemberID(uuid.NewString()),
		TeamID:   engine.TeamID(req.TeamID),
		Name:     req.Name,
		Role:     role,
		JoinedAt: h.Now(),
	}
	if err := h.Store.SaveMember(r.Context(), member); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save member", err)
		return
	}

	h.triggerRecompute(r.Context(), member.TeamID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(member.ID)})
}

// SubmitCheckIn records one wellness check-in. Check-ins are immutable.
func (h *Handler) SubmitCheckIn(w http.ResponseWriter, r *http.Request) {
	var req SubmitCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required", nil)
		return
	}
	for _, metric := range []int{req.Mood, req.Stress, req.Sleep, req.PhysicalHealth} {
		if metric < 0 || metric > 10 {
			writeError(w, http.StatusBadRequest, "metrics must be between 0 and 10", nil)
			return
		}
	}

	submittedAt := h.Now()
	if req.SubmittedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.SubmittedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "submitted_at must be RFC3339", err)
			return
		}
		submittedAt = parsed
	}

	teamID, err := h.Store.MemberTeam(r.Context(), engine.MemberID(req.MemberID))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	team, err := h.Store.Team(r.Context(), teamID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	ci := engine.CheckIn{
		ID:             engine.CheckInID(uuid.NewString()),
		MemberID:       engine.MemberID(req.MemberID),
		OrgID:          team.OrgID,
		SubmittedAt:    submittedAt,
		Mood:           req.Mood,
		Stress:         req.Stress,
		Sleep:          req.Sleep,
		PhysicalHealth: req.PhysicalHealth,
	}
	if err := h.Store.SaveCheckIn(r.Context(), ci); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save check-in", err)
		return
	}

	h.triggerRecompute(r.Context(), teamID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     string(ci.ID),
		"score":  ci.Score(),
		"status": string(ci.Status()),
	})
}

// CreateExemption opens a leave record in Pending status.
func (h *Handler) CreateExemption(w http.ResponseWriter, r *http.Request) {
	var req CreateExemptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := engine.ParseDay(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD", err)
		return
	}

	e := engine.Exemption{
		ID:        engine.ExemptionID(uuid.NewString()),
		MemberID:  engine.MemberID(req.MemberID),
		Type:      engine.ExemptionType(req.Type),
		Status:    engine.ExemptionPending,
		StartDate: start,
		CreatedAt: h.Now(),
	}
	if req.EndDate != nil {
		end, err := engine.ParseDay(*req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD", err)
			return
		}
		e.EndDate = &end
	}
	if err := h.Store.SaveExemption(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save exemption", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExemptionDTO(e))
}

// ApproveExemption transitions Pending -> Approved.
func (h *Handler) ApproveExemption(w http.ResponseWriter, r *http.Request) {
	h.transitionExemption(w, r, engine.ExemptionApproved)
}

// RejectExemption transitions Pending -> Rejected.
func (h *Handler) RejectExemption(w http.ResponseWriter, r *http.Request) {
	h.transitionExemption(w, r, engine.ExemptionRejected)
}

// EndExemptionEarly transitions Approved -> EndedEarly.
func (h *Handler) EndExemptionEarly(w http.ResponseWriter, r *http.Request) {
	h.transitionExemption(w, r, engine.ExemptionEndedEarly)
}

func (h *Handler) transitionExemption(w http.ResponseWriter, r *http.Request, to engine.ExemptionStatus) {
	id := engine.ExemptionID(chi.URLParam(r, "id"))

	e, err := h.Store.TransitionExemption(r.Context(), id, to)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	// An exemption change shifts expected sets; refresh the member's team.
	if teamID, merr := h.Store.MemberTeam(r.Context(), e.MemberID); merr == nil {
		h.triggerRecompute(r.Context(), teamID)
	}
	writeJSON(w, http.StatusOK, toExemptionDTO(*e))
}

// ListHolidays returns the organization's holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	orgID := engine.OrgID(chi.URLParam(r, "orgID"))
	holidays, err := h.Store.Holidays(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	type holidayDTO struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}
	dtos := make([]holidayDTO, len(holidays))
	for i, hd := range holidays {
		dtos[i] = holidayDTO{Date: hd.Date.String(), Name: hd.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a company holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	orgID := engine.OrgID(chi.URLParam(r, "orgID"))

	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := engine.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return
	}
	if err := h.Store.SaveHoliday(r.Context(), engine.Holiday{OrgID: orgID, Date: date, Name: req.Name}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}

	h.triggerOrgRecompute(r, orgID)
	writeJSON(w, http.StatusCreated, req)
}

// DeleteHoliday removes a holiday by date.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	orgID := engine.OrgID(chi.URLParam(r, "orgID"))
	date, err := engine.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return
	}
	if err := h.Store.DeleteHoliday(r.Context(), orgID, date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}

	h.triggerOrgRecompute(r, orgID)
	w.WriteHeader(http.StatusNoContent)
}

// GetSuddenChange runs the sudden-drop threshold check for a member.
func (h *Handler) GetSuddenChange(w http.ResponseWriter, r *http.Request) {
	memberID := engine.MemberID(chi.URLParam(r, "id"))
	teamID := engine.TeamID(r.URL.Query().Get("team_id"))
	if teamID == "" {
		writeError(w, http.StatusBadRequest, "team_id query parameter is required", nil)
		return
	}

	team, err := h.Store.Team(r.Context(), teamID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	org, err := h.Store.Organization(r.Context(), team.OrgID)
	if err != nil && !engine.IsNotFound(err) {
		writeEngineError(w, err)
		return
	}
	tz := ""
	if org != nil {
		tz = org.Timezone
	}
	cal := engine.NewCalendar(tz)

	day := cal.Today(h.Now())
	if param := r.URL.Query().Get("date"); param != "" {
		if parsed, perr := engine.ParseDay(param); perr == nil {
			day = parsed
		}
	}

	// The detector compares against a trailing baseline, so the snapshot
	// needs history before the requested day.
	period := engine.Period{Start: day.AddDays(-engine.DefaultRangeDays), End: day}
	input, err := h.Store.LoadSnapshot(r.Context(), teamID, period)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	snap := engine.BuildSnapshot(*input)

	writeJSON(w, http.StatusOK, SuddenChangeDTO{
		MemberID:     string(memberID),
		Date:         day.String(),
		SuddenChange: engine.DetectSuddenChange(snap, memberID, day),
	})
}

// =============================================================================
// RECOMPUTE TRIGGERS
// =============================================================================

// triggerRecompute schedules a fire-and-forget summary refresh for the team's
// recent window, resolved in the organization's timezone so the window always
// covers the org's current local day. Failures are the worker's problem,
// never this request's.
func (h *Handler) triggerRecompute(ctx context.Context, teamID engine.TeamID) {
	if h.Recomputer == nil {
		return
	}
	tz := ""
	if team, err := h.Store.Team(ctx, teamID); err == nil {
		if org, oerr := h.Store.Organization(ctx, team.OrgID); oerr == nil && org != nil {
			tz = org.Timezone
		}
	}
	cal := engine.NewCalendar(tz)
	h.Recomputer.Trigger(teamID, cal.LastNDays(h.Now(), engine.DefaultRangeDays))
}

func (h *Handler) triggerOrgRecompute(r *http.Request, orgID engine.OrgID) {
	if h.Recomputer == nil {
		return
	}
	teams, err := h.Store.Teams(r.Context(), orgID)
	if err != nil {
		h.Log.WithFields(logrus.Fields{"org": orgID}).Warnf("recompute trigger: %v", err)
		return
	}
	for _, t := range teams {
		h.triggerRecompute(r.Context(), t.ID)
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine error categories to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
