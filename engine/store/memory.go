// Package store provides Source and SummaryCache implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/wellness-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements engine.Source and engine.SummaryCache in memory. Reads
// copy under a read lock, so a snapshot handed to the engine is immune to
// later mutations - the same consistency contract the SQLite store gets from
// read transactions.
type Memory struct {
	mu         sync.RWMutex
	orgs       map[engine.OrgID]engine.Organization
	teams      map[engine.TeamID]engine.Team
	members    map[engine.TeamID][]engine.Member
	checkins   map[engine.MemberID][]engine.CheckIn
	exemptions map[engine.ExemptionID]engine.Exemption
	holidays   map[engine.OrgID][]engine.Holiday
	summaries  map[summaryKey]engine.DailySummary
}

type summaryKey struct {
	team engine.TeamID
	date engine.Day
}

func NewMemory() *Memory {
	return &Memory{
		orgs:       make(map[engine.OrgID]engine.Organization),
		teams:      make(map[engine.TeamID]engine.Team),
		members:    make(map[engine.TeamID][]engine.Member),
		checkins:   make(map[engine.MemberID][]engine.CheckIn),
		exemptions: make(map[engine.ExemptionID]engine.Exemption),
		holidays:   make(map[engine.OrgID][]engine.Holiday),
		summaries:  make(map[summaryKey]engine.DailySummary),
	}
}

// =============================================================================
// MUTATIONS (test/dev seeding)
// =============================================================================

func (m *Memory) PutOrganization(org engine.Organization) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orgs[org.ID] = org
}

func (m *Memory) PutTeam(team engine.Team) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[team.ID] = team
}

func (m *Memory) PutMember(member engine.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.members[member.TeamID] {
		if existing.ID == member.ID {
			m.members[member.TeamID][i] = member
			return
		}
	}
	m.members[member.TeamID] = append(m.members[member.TeamID], member)
}

func (m *Memory) AddCheckIn(ci engine.CheckIn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkins[ci.MemberID] = append(m.checkins[ci.MemberID], ci)
}

func (m *Memory) PutExemption(e engine.Exemption) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exemptions[e.ID] = e
}

// TransitionExemption applies a status change under the state machine.
func (m *Memory) TransitionExemption(id engine.ExemptionID, to engine.ExemptionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exemptions[id]
	if !ok {
		return engine.ErrExemptionNotFound
	}
	if err := e.Transition(to); err != nil {
		return err
	}
	m.exemptions[id] = e
	return nil
}

func (m *Memory) AddHoliday(h engine.Holiday) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.OrgID] = append(m.holidays[h.OrgID], h)
}

// =============================================================================
// SOURCE
// =============================================================================

func (m *Memory) LoadSnapshot(_ context.Context, teamID engine.TeamID, period engine.Period) (*engine.SnapshotInput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	team, ok := m.teams[teamID]
	if !ok {
		return nil, engine.ErrTeamNotFound
	}
	org := m.orgs[team.OrgID]
	cal := engine.NewCalendar(org.Timezone)

	input := &engine.SnapshotInput{Team: team, Org: org}
	input.Members = append(input.Members, m.members[teamID]...)

	for _, member := range m.members[teamID] {
		for _, ci := range m.checkins[member.ID] {
			day := cal.DayOf(ci.SubmittedAt)
			if period.Contains(day) {
				input.CheckIns = append(input.CheckIns, ci)
			}
		}
		for _, e := range m.exemptions {
			if e.MemberID == member.ID {
				input.Exemptions = append(input.Exemptions, e)
			}
		}
	}
	for _, h := range m.holidays[team.OrgID] {
		if period.Contains(h.Date) {
			input.Holidays = append(input.Holidays, h)
		}
	}
	return input, nil
}

func (m *Memory) Teams(_ context.Context, orgID engine.OrgID) ([]engine.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var teams []engine.Team
	for _, t := range m.teams {
		if t.OrgID == orgID {
			teams = append(teams, t)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].IsActive != teams[j].IsActive {
			return teams[i].IsActive
		}
		return teams[i].Name < teams[j].Name
	})
	return teams, nil
}

func (m *Memory) Organization(_ context.Context, orgID engine.OrgID) (*engine.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	org, ok := m.orgs[orgID]
	if !ok {
		return nil, engine.ErrOrgNotFound
	}
	return &org, nil
}

// =============================================================================
// SUMMARY CACHE
// =============================================================================

func (m *Memory) SaveSummaries(_ context.Context, summaries []engine.DailySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range summaries {
		m.summaries[summaryKey{team: s.TeamID, date: s.Date}] = s
	}
	return nil
}

func (m *Memory) LoadSummaries(_ context.Context, teamID engine.TeamID, period engine.Period) ([]engine.DailySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.DailySummary
	period.EachDay(func(d engine.Day) {
		if s, ok := m.summaries[summaryKey{team: teamID, date: d}]; ok {
			out = append(out, s)
		}
	})
	return out, nil
}

func (m *Memory) DeleteSummaries(_ context.Context, teamID engine.TeamID, period engine.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	period.EachDay(func(d engine.Day) {
		delete(m.summaries, summaryKey{team: teamID, date: d})
	})
	return nil
}
