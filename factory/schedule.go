/*
Package factory provides JSON to Go schedule conversion.

PURPOSE:
  Converts JSON team schedule definitions into engine.Team configuration.
  This enables schedule changes without code changes - an admin can adjust a
  team's work-day pattern, shift times or grace period in JSON, and the
  factory produces the proper Go structs with validation and defaults.

JSON SCHEMA:
  {
    "name": "Night Crew",
    "work_days": "mon,tue,wed,thu,fri",
    "shift_start": "09:00",
    "shift_end": "18:00",
    "grace_minutes": 15,
    "timezone": "America/New_York"
  }

KEY FEATURES:
  - Validates weekday codes and clock times
  - Sets sensible defaults (Mon-Fri, 09:00-18:00, no grace)
  - Rejects empty work-day sets

USAGE:
  factory := NewScheduleFactory()
  cfg, err := factory.ParseSchedule(jsonString)

SEE ALSO:
  - engine/calendar.go: WorkDaySet and ClockTime types
  - api/handlers.go: team creation endpoint
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/warp/wellness-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScheduleJSON is the JSON representation of a team schedule.
type ScheduleJSON struct {
	Name         string `json:"name"`
	WorkDays     string `json:"work_days"`
	ShiftStart   string `json:"shift_start"`
	ShiftEnd     string `json:"shift_end"`
	GraceMinutes int    `json:"grace_minutes"`
	Timezone     string `json:"timezone"`
}

// ScheduleConfig is the validated, typed schedule.
type ScheduleConfig struct {
	Name         string
	WorkDays     engine.WorkDaySet
	ShiftStart   engine.ClockTime
	ShiftEnd     engine.ClockTime
	GraceMinutes int
	Timezone     string
}

// Defaults applied when fields are omitted.
const (
	DefaultShiftStart = "09:00"
	DefaultShiftEnd   = "18:00"
)

// =============================================================================
// SCHEDULE FACTORY
// =============================================================================

type ScheduleFactory struct{}

func NewScheduleFactory() *ScheduleFactory { return &ScheduleFactory{} }

// ParseSchedule converts a JSON schedule definition into a validated config.
func (f *ScheduleFactory) ParseSchedule(jsonStr string) (*ScheduleConfig, error) {
	var raw ScheduleJSON
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("invalid schedule JSON: %w", err)
	}
	return f.FromJSON(raw)
}

// FromJSON validates an already-decoded schedule, applying defaults.
func (f *ScheduleFactory) FromJSON(raw ScheduleJSON) (*ScheduleConfig, error) {
	cfg := &ScheduleConfig{
		Name:         strings.TrimSpace(raw.Name),
		GraceMinutes: raw.GraceMinutes,
		Timezone:     raw.Timezone,
	}

	if raw.WorkDays == "" {
		cfg.WorkDays = engine.WeekdaySet()
	} else {
		set, err := ParseWorkDays(raw.WorkDays)
		if err != nil {
			return nil, err
		}
		cfg.WorkDays = set
	}

	if cfg.GraceMinutes < 0 {
		return nil, fmt.Errorf("grace_minutes must not be negative, got %d", raw.GraceMinutes)
	}

	var err error
	if cfg.ShiftStart, err = parseClockOrDefault(raw.ShiftStart, DefaultShiftStart); err != nil {
		return nil, err
	}
	if cfg.ShiftEnd, err = parseClockOrDefault(raw.ShiftEnd, DefaultShiftEnd); err != nil {
		return nil, err
	}

	if raw.Timezone != "" {
		if _, err := time.LoadLocation(raw.Timezone); err != nil {
			return nil, fmt.Errorf("unknown timezone %q", raw.Timezone)
		}
	}

	return cfg, nil
}

// ParseWorkDays parses a comma-separated weekday code list ("mon,tue,fri").
func ParseWorkDays(s string) (engine.WorkDaySet, error) {
	var days []engine.Weekday
	for _, part := range strings.Split(s, ",") {
		code := engine.Weekday(strings.ToLower(strings.TrimSpace(part)))
		switch code {
		case engine.Monday, engine.Tuesday, engine.Wednesday, engine.Thursday,
			engine.Friday, engine.Saturday, engine.Sunday:
			days = append(days, code)
		case "":
			continue
		default:
			return nil, fmt.Errorf("unknown weekday code %q", part)
		}
	}
	set := engine.NewWorkDaySet(days...)
	if set.IsEmpty() {
		return nil, fmt.Errorf("work_days must contain at least one weekday code")
	}
	return set, nil
}

func parseClockOrDefault(s, fallback string) (engine.ClockTime, error) {
	if s == "" {
		s = fallback
	}
	return engine.ParseClockTime(s)
}
