/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements engine.Source and engine.SummaryCache plus the record CRUD the
  API layer needs. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  engine.Source:       One-transaction snapshot loads
  engine.SummaryCache: Materialized daily summaries (rebuildable projection)

CONSISTENT SNAPSHOTS:
  LoadSnapshot reads roster, check-ins, exemptions, holidays and the team/org
  configuration inside a single read transaction, so the engine always
  computes over one point-in-time view. A check-in or exemption written
  mid-computation never produces a half-updated report.

CACHE SEMANTICS:
  daily_summaries rows are derived data. SaveSummaries is an unconditional
  upsert (latest write wins); DeleteSummaries drops a team+range outright.
  Nothing ever reads a summary as a source of truth.

KEY TABLES:
  organizations:    Timezone configuration
  teams:            Work-day pattern, shift times, grace period
  members:          Roster with join dates and lifetime check-in counts
  checkins:         Immutable wellness submissions
  exemptions:       Leave records with inclusive date ranges
  holidays:         Company holidays
  daily_summaries:  Materialized per-team-per-day aggregates

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/wellness.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/source.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/wellness-engine/engine"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		timezone TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		name TEXT NOT NULL,
		work_days TEXT NOT NULL,
		shift_start TEXT NOT NULL,
		shift_end TEXT NOT NULL,
		grace_minutes INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		deactivated_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_teams_org ON teams(org_id);

	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'worker',
		joined_at TEXT NOT NULL,
		total_checkins INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_members_team ON members(team_id);

	-- Check-ins are immutable: INSERT only, no UPDATE or DELETE.
	CREATE TABLE IF NOT EXISTS checkins (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		org_id TEXT NOT NULL,
		submitted_at TEXT NOT NULL,
		mood INTEGER NOT NULL,
		stress INTEGER NOT NULL,
		sleep INTEGER NOT NULL,
		physical_health INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Hot path: all of a member's check-ins within a window.
	CREATE INDEX IF NOT EXISTS idx_checkins_member_submitted
		ON checkins(member_id, submitted_at);

	CREATE TABLE IF NOT EXISTS exemptions (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		start_date TEXT NOT NULL,
		end_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exemptions_member ON exemptions(member_id);
	CREATE INDEX IF NOT EXISTS idx_exemptions_status ON exemptions(status);

	CREATE TABLE IF NOT EXISTS holidays (
		org_id TEXT NOT NULL,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (org_id, date, name)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_org_date ON holidays(org_id, date);

	-- Materialized cache. Derived data only: safe to delete and regenerate.
	CREATE TABLE IF NOT EXISTS daily_summaries (
		team_id TEXT NOT NULL,
		date TEXT NOT NULL,
		is_work_day BOOLEAN NOT NULL,
		is_holiday BOOLEAN NOT NULL,
		total_members INTEGER NOT NULL,
		on_leave INTEGER NOT NULL,
		expected INTEGER NOT NULL,
		checked_in INTEGER NOT NULL,
		green INTEGER NOT NULL,
		yellow INTEGER NOT NULL,
		red INTEGER NOT NULL,
		avg_readiness INTEGER,
		compliance_rate INTEGER,
		computed_at TEXT NOT NULL,
		PRIMARY KEY (team_id, date)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ORGANIZATIONS
// =============================================================================

func (s *Store) SaveOrganization(ctx context.Context, org engine.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, timezone, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, timezone = excluded.timezone`,
		org.ID, org.Name, org.Timezone, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) Organization(ctx context.Context, orgID engine.OrgID) (*engine.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanOrganization(s.db.QueryRowContext(ctx,
		`SELECT id, name, timezone FROM organizations WHERE id = ?`, orgID))
}

func scanOrganization(row *sql.Row) (*engine.Organization, error) {
	var org engine.Organization
	if err := row.Scan(&org.ID, &org.Name, &org.Timezone); err != nil {
		if err == sql.ErrNoRows {
			return nil, engine.ErrOrgNotFound
		}
		return nil, err
	}
	return &org, nil
}

// =============================================================================
// TEAMS
// =============================================================================

func (s *Store) SaveTeam(ctx context.Context, team engine.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deactivated interface{}
	if team.DeactivatedAt != nil {
		deactivated = team.DeactivatedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (id, org_id, name, work_days, shift_start, shift_end,
		                   grace_minutes, is_active, deactivated_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			work_days = excluded.work_days,
			shift_start = excluded.shift_start,
			shift_end = excluded.shift_end,
			grace_minutes = excluded.grace_minutes,
			is_active = excluded.is_active,
			deactivated_at = excluded.deactivated_at`,
		team.ID, team.OrgID, team.Name, encodeWorkDays(team.WorkDays),
		team.ShiftStart.String(), team.ShiftEnd.String(),
		team.GraceMinutes, team.IsActive, deactivated,
		team.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) Team(ctx context.Context, teamID engine.TeamID) (*engine.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	return loadTeam(ctx, tx, teamID)
}

func (s *Store) Teams(ctx context.Context, orgID engine.OrgID) ([]engine.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, org_id, name, work_days, shift_start, shift_end,
		       grace_minutes, is_active, deactivated_at, created_at
		FROM teams WHERE org_id = ?
		ORDER BY is_active DESC, name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []engine.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (*engine.Team, error) {
	var (
		team        engine.Team
		workDays    string
		shiftStart  string
		shiftEnd    string
		deactivated sql.NullString
		createdAt   string
	)
	err := row.Scan(&team.ID, &team.OrgID, &team.Name, &workDays, &shiftStart,
		&shiftEnd, &team.GraceMinutes, &team.IsActive, &deactivated, &createdAt)
	if err != nil {
		return nil, err
	}
	team.WorkDays = decodeWorkDays(workDays)
	if team.ShiftStart, err = engine.ParseClockTime(shiftStart); err != nil {
		return nil, err
	}
	if team.ShiftEnd, err = engine.ParseClockTime(shiftEnd); err != nil {
		return nil, err
	}
	if team.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if deactivated.Valid {
		t, err := time.Parse(time.RFC3339, deactivated.String)
		if err != nil {
			return nil, err
		}
		team.DeactivatedAt = &t
	}
	return &team, nil
}

func loadTeam(ctx context.Context, tx *sql.Tx, teamID engine.TeamID) (*engine.Team, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT id, org_id, name, work_days, shift_start, shift_end,
		       grace_minutes, is_active, deactivated_at, created_at
		FROM teams WHERE id = ?`, teamID)
	team, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, engine.ErrTeamNotFound
	}
	return team, err
}

func encodeWorkDays(set engine.WorkDaySet) string {
	codes := set.Codes()
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func decodeWorkDays(s string) engine.WorkDaySet {
	var days []engine.Weekday
	for _, part := range strings.Split(s, ",") {
		if part != "" {
			days = append(days, engine.Weekday(part))
		}
	}
	return engine.NewWorkDaySet(days...)
}

// =============================================================================
// MEMBERS
// =============================================================================

func (s *Store) SaveMember(ctx context.Context, m engine.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, team_id, name, role, joined_at, total_checkins)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			team_id = excluded.team_id,
			name = excluded.name,
			role = excluded.role,
			total_checkins = excluded.total_checkins`,
		m.ID, m.TeamID, m.Name, m.Role,
		m.JoinedAt.UTC().Format(time.RFC3339), m.TotalCheckIns)
	return err
}

func (s *Store) Members(ctx context.Context, teamID engine.TeamID) ([]engine.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	return loadMembers(ctx, tx, teamID)
}

func loadMembers(ctx context.Context, tx *sql.Tx, teamID engine.TeamID) ([]engine.Member, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, team_id, name, role, joined_at, total_checkins
		FROM members WHERE team_id = ? ORDER BY name`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []engine.Member
	for rows.Next() {
		var (
			m        engine.Member
			joinedAt string
		)
		if err := rows.Scan(&m.ID, &m.TeamID, &m.Name, &m.Role, &joinedAt, &m.TotalCheckIns); err != nil {
			return nil, err
		}
		if m.JoinedAt, err = time.Parse(time.RFC3339, joinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// MemberTeam resolves which team a member belongs to.
func (s *Store) MemberTeam(ctx context.Context, memberID engine.MemberID) (engine.TeamID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var teamID engine.TeamID
	err := s.db.QueryRowContext(ctx,
		`SELECT team_id FROM members WHERE id = ?`, memberID).Scan(&teamID)
	if err == sql.ErrNoRows {
		return "", engine.ErrMemberNotFound
	}
	return teamID, err
}

// =============================================================================
// CHECK-INS (insert only)
// =============================================================================

func (s *Store) SaveCheckIn(ctx context.Context, ci engine.CheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO checkins (id, member_id, org_id, submitted_at, mood, stress,
		                      sleep, physical_health, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ci.ID, ci.MemberID, ci.OrgID,
		ci.SubmittedAt.UTC().Format(time.RFC3339),
		ci.Mood, ci.Stress, ci.Sleep, ci.PhysicalHealth,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	// Keep the member's cached lifetime count in step with the insert.
	_, err = tx.ExecContext(ctx,
		`UPDATE members SET total_checkins = total_checkins + 1 WHERE id = ?`, ci.MemberID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// EXEMPTIONS
// =============================================================================

func (s *Store) SaveExemption(ctx context.Context, e engine.Exemption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var endDate interface{}
	if e.EndDate != nil {
		endDate = e.EndDate.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exemptions (id, member_id, type, status, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			status = excluded.status,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		e.ID, e.MemberID, e.Type, e.Status, e.StartDate.String(), endDate,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) Exemption(ctx context.Context, id engine.ExemptionID) (*engine.Exemption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, member_id, type, status, start_date, end_date, created_at
		FROM exemptions WHERE id = ?`, id)
	e, err := scanExemption(row)
	if err == sql.ErrNoRows {
		return nil, engine.ErrExemptionNotFound
	}
	return e, err
}

// TransitionExemption applies a status change under the state machine,
// read-check-write inside one transaction.
func (s *Store) TransitionExemption(ctx context.Context, id engine.ExemptionID, to engine.ExemptionStatus) (*engine.Exemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, member_id, type, status, start_date, end_date, created_at
		FROM exemptions WHERE id = ?`, id)
	e, err := scanExemption(row)
	if err == sql.ErrNoRows {
		return nil, engine.ErrExemptionNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := e.Transition(to); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE exemptions SET status = ? WHERE id = ?`, e.Status, e.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

func scanExemption(row rowScanner) (*engine.Exemption, error) {
	var (
		e         engine.Exemption
		startDate string
		endDate   sql.NullString
		createdAt string
	)
	err := row.Scan(&e.ID, &e.MemberID, &e.Type, &e.Status, &startDate, &endDate, &createdAt)
	if err != nil {
		return nil, err
	}
	if e.StartDate, err = engine.ParseDay(startDate); err != nil {
		return nil, err
	}
	if endDate.Valid {
		d, err := engine.ParseDay(endDate.String)
		if err != nil {
			return nil, err
		}
		e.EndDate = &d
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h engine.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (org_id, date, name) VALUES (?, ?, ?)
		ON CONFLICT(org_id, date, name) DO NOTHING`,
		h.OrgID, h.Date.String(), h.Name)
	return err
}

func (s *Store) DeleteHoliday(ctx context.Context, orgID engine.OrgID, date engine.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM holidays WHERE org_id = ? AND date = ?`, orgID, date.String())
	return err
}

func (s *Store) Holidays(ctx context.Context, orgID engine.OrgID) ([]engine.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	return loadHolidays(ctx, tx, orgID, nil)
}

func loadHolidays(ctx context.Context, tx *sql.Tx, orgID engine.OrgID, period *engine.Period) ([]engine.Holiday, error) {
	query := `SELECT org_id, date, name FROM holidays WHERE org_id = ?`
	args := []any{orgID}
	if period != nil {
		query += ` AND date >= ? AND date <= ?`
		args = append(args, period.Start.String(), period.End.String())
	}
	query += ` ORDER BY date`

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []engine.Holiday
	for rows.Next() {
		var (
			h    engine.Holiday
			date string
		)
		if err := rows.Scan(&h.OrgID, &date, &h.Name); err != nil {
			return nil, err
		}
		if h.Date, err = engine.ParseDay(date); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// SNAPSHOT SOURCE (engine.Source interface)
// =============================================================================

// LoadSnapshot fetches everything the engine needs for one team and window
// inside a single read transaction.
func (s *Store) LoadSnapshot(ctx context.Context, teamID engine.TeamID, period engine.Period) (*engine.SnapshotInput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	team, err := loadTeam(ctx, tx, teamID)
	if err != nil {
		return nil, err
	}

	input := &engine.SnapshotInput{Team: *team}

	org, err := scanOrganization(tx.QueryRowContext(ctx,
		`SELECT id, name, timezone FROM organizations WHERE id = ?`, team.OrgID))
	if err == nil {
		input.Org = *org
	} else if err != engine.ErrOrgNotFound {
		// A missing organization row falls back to the default timezone;
		// anything else is a real failure.
		return nil, err
	}
	input.Org.ID = team.OrgID

	if input.Members, err = loadMembers(ctx, tx, teamID); err != nil {
		return nil, err
	}

	// Widen the timestamp window by one day on each side: day boundaries are
	// resolved in the organization's timezone by the engine, and a check-in
	// stored near UTC midnight may belong to a local day inside the period.
	from := period.Start.AddDays(-1).String()
	to := period.End.AddDays(2).String()
	rows, err := tx.QueryContext(ctx, `
		SELECT c.id, c.member_id, c.org_id, c.submitted_at, c.mood, c.stress,
		       c.sleep, c.physical_health
		FROM checkins c
		JOIN members m ON m.id = c.member_id
		WHERE m.team_id = ? AND c.submitted_at >= ? AND c.submitted_at < ?
		ORDER BY c.submitted_at`, teamID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			ci          engine.CheckIn
			submittedAt string
		)
		if err := rows.Scan(&ci.ID, &ci.MemberID, &ci.OrgID, &submittedAt,
			&ci.Mood, &ci.Stress, &ci.Sleep, &ci.PhysicalHealth); err != nil {
			return nil, err
		}
		if ci.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt); err != nil {
			return nil, err
		}
		input.CheckIns = append(input.CheckIns, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exRows, err := tx.QueryContext(ctx, `
		SELECT e.id, e.member_id, e.type, e.status, e.start_date, e.end_date, e.created_at
		FROM exemptions e
		JOIN members m ON m.id = e.member_id
		WHERE m.team_id = ?`, teamID)
	if err != nil {
		return nil, err
	}
	defer exRows.Close()
	for exRows.Next() {
		e, err := scanExemption(exRows)
		if err != nil {
			return nil, err
		}
		input.Exemptions = append(input.Exemptions, *e)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	if input.Holidays, err = loadHolidays(ctx, tx, team.OrgID, &period); err != nil {
		return nil, err
	}

	return input, nil
}

// =============================================================================
// SUMMARY CACHE (engine.SummaryCache interface)
// =============================================================================

func (s *Store) SaveSummaries(ctx context.Context, summaries []engine.DailySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, sum := range summaries {
		var avg, rate interface{}
		if sum.AvgReadiness != nil {
			avg = *sum.AvgReadiness
		}
		if sum.ComplianceRate != nil {
			rate = *sum.ComplianceRate
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_summaries
			(team_id, date, is_work_day, is_holiday, total_members, on_leave,
			 expected, checked_in, green, yellow, red, avg_readiness,
			 compliance_rate, computed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(team_id, date) DO UPDATE SET
				is_work_day = excluded.is_work_day,
				is_holiday = excluded.is_holiday,
				total_members = excluded.total_members,
				on_leave = excluded.on_leave,
				expected = excluded.expected,
				checked_in = excluded.checked_in,
				green = excluded.green,
				yellow = excluded.yellow,
				red = excluded.red,
				avg_readiness = excluded.avg_readiness,
				compliance_rate = excluded.compliance_rate,
				computed_at = excluded.computed_at`,
			sum.TeamID, sum.Date.String(), sum.IsWorkDay, sum.IsHoliday,
			sum.TotalMembers, sum.OnLeave, sum.Expected, sum.CheckedIn,
			sum.Histogram.Green, sum.Histogram.Yellow, sum.Histogram.Red,
			avg, rate, now)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) LoadSummaries(ctx context.Context, teamID engine.TeamID, period engine.Period) ([]engine.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, date, is_work_day, is_holiday, total_members, on_leave,
		       expected, checked_in, green, yellow, red, avg_readiness, compliance_rate
		FROM daily_summaries
		WHERE team_id = ? AND date >= ? AND date <= ?
		ORDER BY date`, teamID, period.Start.String(), period.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.DailySummary
	for rows.Next() {
		var (
			sum  engine.DailySummary
			date string
			avg  sql.NullInt64
			rate sql.NullInt64
		)
		if err := rows.Scan(&sum.TeamID, &date, &sum.IsWorkDay, &sum.IsHoliday,
			&sum.TotalMembers, &sum.OnLeave, &sum.Expected, &sum.CheckedIn,
			&sum.Histogram.Green, &sum.Histogram.Yellow, &sum.Histogram.Red,
			&avg, &rate); err != nil {
			return nil, err
		}
		if sum.Date, err = engine.ParseDay(date); err != nil {
			return nil, err
		}
		if avg.Valid {
			sum.AvgReadiness = engine.IntPtr(int(avg.Int64))
		}
		if rate.Valid {
			sum.ComplianceRate = engine.IntPtr(int(rate.Int64))
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) DeleteSummaries(ctx context.Context, teamID engine.TeamID, period engine.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM daily_summaries
		WHERE team_id = ? AND date >= ? AND date <= ?`,
		teamID, period.Start.String(), period.End.String())
	return err
}
