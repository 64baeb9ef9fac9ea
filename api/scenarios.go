/*
scenarios.go - Deterministic demo data seeding

PURPOSE:
  Seeds a small, fixed scenario for local development so the dashboard has
  something to show on a fresh database.

SCENARIO:
  One organization (America/New_York) with two teams:
    - Night Shift: five workers, one on approved sick leave, mixed readiness
    - Day Shift: three workers, healthy numbers
  Check-ins cover the trailing seven days, plus one company holiday.

  Seeding short-circuits if the demo organization already exists, so
  restarting the server does not duplicate check-in records.
*/
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/wellness-engine/engine"
	"github.com/warp/wellness-engine/store/sqlite"
)

// SeedDemo loads the demo scenario into the store. A second call on the same
// database is a no-op.
func SeedDemo(ctx context.Context, store *sqlite.Store, log *logrus.Logger) error {
	org := engine.Organization{
		ID:       "org-demo",
		Name:     "Demo Logistics",
		Timezone: "America/New_York",
	}
	if existing, err := store.Organization(ctx, org.ID); err == nil && existing != nil {
		log.WithField("org", org.ID).Info("demo scenario already present, skipping seed")
		return nil
	}
	if err := store.SaveOrganization(ctx, org); err != nil {
		return err
	}

	cal := engine.NewCalendar(org.Timezone)
	now := time.Now()
	today := cal.Today(now)
	weekAgo := today.AddDays(-14)

	teams := []engine.Team{
		{
			ID:           "team-night",
			OrgID:        org.ID,
			Name:         "Night Shift",
			WorkDays:     engine.WeekdaySet(),
			ShiftStart:   engine.ClockTime{Hour: 22, Minute: 0},
			ShiftEnd:     engine.ClockTime{Hour: 6, Minute: 0},
			GraceMinutes: 15,
			IsActive:     true,
			CreatedAt:    cal.ShiftInstant(weekAgo, engine.ClockTime{}),
		},
		{
			ID:           "team-day",
			OrgID:        org.ID,
			Name:         "Day Shift",
			WorkDays:     engine.WeekdaySet(),
			ShiftStart:   engine.ClockTime{Hour: 9, Minute: 0},
			ShiftEnd:     engine.ClockTime{Hour: 17, Minute: 0},
			GraceMinutes: 30,
			IsActive:     true,
			CreatedAt:    cal.ShiftInstant(weekAgo, engine.ClockTime{}),
		},
	}
	for _, t := range teams {
		if err := store.SaveTeam(ctx, t); err != nil {
			return err
		}
	}

	type seedMember struct {
		id   string
		team engine.TeamID
		name string
		role engine.Role
		// base readiness profile, varied slightly per day
		mood, stress, sleep, physical int
	}
	members := []seedMember{
		{"m-night-1", "team-night", "Ana Reyes", engine.RoleWorker, 8, 3, 8, 8},
		{"m-night-2", "team-night", "Ben Okoro", engine.RoleWorker, 6, 5, 6, 7},
		{"m-night-3", "team-night", "Cam Holt", engine.RoleWorker, 4, 8, 4, 5},
		{"m-night-4", "team-night", "Dee Park", engine.RoleWorker, 7, 4, 7, 7},
		{"m-night-5", "team-night", "Eli Sanda", engine.RoleWorker, 9, 2, 8, 9},
		{"m-night-l", "team-night", "Lena Voss", engine.RoleLeader, 7, 4, 7, 7},
		{"m-day-1", "team-day", "Finn Adeyemi", engine.RoleWorker, 8, 2, 8, 8},
		{"m-day-2", "team-day", "Gia Moreno", engine.RoleWorker, 7, 3, 7, 8},
		{"m-day-3", "team-day", "Hal Brandt", engine.RoleWorker, 8, 3, 7, 7},
	}
	for _, sm := range members {
		m := engine.Member{
			ID:       engine.MemberID(sm.id),
			TeamID:   sm.team,
			Name:     sm.name,
			Role:     sm.role,
			JoinedAt: cal.ShiftInstant(weekAgo, engine.ClockTime{}),
		}
		if err := store.SaveMember(ctx, m); err != nil {
			return err
		}
	}

	// m-night-3 is out sick for three days ending yesterday.
	sickEnd := today.AddDays(-1)
	sick := engine.Exemption{
		ID:        "ex-night-3-sick",
		MemberID:  "m-night-3",
		Type:      engine.ExemptionSick,
		Status:    engine.ExemptionApproved,
		StartDate: today.AddDays(-3),
		EndDate:   &sickEnd,
		CreatedAt: now,
	}
	if err := store.SaveExemption(ctx, sick); err != nil {
		return err
	}

	if err := store.SaveHoliday(ctx, engine.Holiday{
		OrgID: org.ID,
		Date:  today.AddDays(-5),
		Name:  "Founders Day",
	}); err != nil {
		return err
	}

	// Check-ins for the trailing week. Everyone but the sick member checks in
	// on work days; metrics wobble by day index so charts have shape.
	seeded := 0
	for offset := 7; offset >= 0; offset-- {
		day := today.AddDays(-offset)
		if !teams[0].WorkDays.Contains(day.Weekday()) {
			continue
		}
		for _, sm := range members {
			if sm.role == engine.RoleLeader {
				continue
			}
			if sm.id == "m-night-3" && sick.Covers(day) {
				continue
			}
			wobble := offset % 3
			shift := teams[0].ShiftStart
			if sm.team == "team-day" {
				shift = teams[1].ShiftStart
			}
			at := cal.ShiftInstant(day, shift).Add(time.Duration(5*wobble) * time.Minute)
			ci := engine.CheckIn{
				ID:             engine.CheckInID(fmt.Sprintf("ci-%s-%s", sm.id, day)),
				MemberID:       engine.MemberID(sm.id),
				OrgID:          org.ID,
				SubmittedAt:    at,
				Mood:           clampSeed(sm.mood - wobble),
				Stress:         clampSeed(sm.stress + wobble),
				Sleep:          clampSeed(sm.sleep - wobble),
				PhysicalHealth: clampSeed(sm.physical),
			}
			if err := store.SaveCheckIn(ctx, ci); err != nil {
				return err
			}
			seeded++
		}
	}

	log.WithFields(logrus.Fields{
		"org":      org.ID,
		"teams":    len(teams),
		"members":  len(members),
		"checkins": seeded,
	}).Info("demo scenario seeded")
	return nil
}

func clampSeed(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
