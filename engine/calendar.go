package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Date-only value in the organization's calendar
// =============================================================================

// Day is a calendar date with no time-of-day component. All Day values are
// produced by a Calendar, which resolves instants in the organization's
// timezone; two Days compare equal iff they name the same calendar date.
type Day struct {
	t time.Time // normalized to midnight UTC; UTC is a comparison anchor only
}

// NewDay constructs a Day from calendar components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a "YYYY-MM-DD" string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return Day{t: t}, nil
}

func (d Day) Before(other Day) bool        { return d.t.Before(other.t) }
func (d Day) After(other Day) bool         { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool         { return d.t.Equal(other.t) }
func (d Day) BeforeOrEqual(other Day) bool { return !d.After(other) }
func (d Day) AfterOrEqual(other Day) bool  { return !d.Before(other) }
func (d Day) IsZero() bool                 { return d.t.IsZero() }

func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

func (d Day) Year() int         { return d.t.Year() }
func (d Day) Month() time.Month { return d.t.Month() }
func (d Day) DayOfMonth() int   { return d.t.Day() }

// Weekday returns the lowercase three-letter weekday code for this date.
func (d Day) Weekday() Weekday { return weekdayCode(d.t.Weekday()) }

func (d Day) String() string { return d.t.Format("2006-01-02") }

// DaysUntil returns the number of calendar days from d to other (negative if
// other is earlier).
func (d Day) DaysUntil(other Day) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// =============================================================================
// WEEKDAY CODES & WORK-DAY SET
// =============================================================================

// Weekday is one of the 7 lowercase codes: mon, tue, wed, thu, fri, sat, sun.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

func weekdayCode(wd time.Weekday) Weekday {
	switch wd {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// WorkDaySet is a team's weekly work-day pattern: the subset of weekday codes
// on which members are expected to check in.
type WorkDaySet map[Weekday]bool

// NewWorkDaySet builds a set from weekday codes. Unknown codes are ignored.
func NewWorkDaySet(days ...Weekday) WorkDaySet {
	set := make(WorkDaySet, len(days))
	for _, d := range days {
		switch d {
		case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
			set[d] = true
		}
	}
	return set
}

// WeekdaySet is the standard Monday-Friday pattern.
func WeekdaySet() WorkDaySet {
	return NewWorkDaySet(Monday, Tuesday, Wednesday, Thursday, Friday)
}

func (s WorkDaySet) Contains(d Weekday) bool { return s[d] }
func (s WorkDaySet) IsEmpty() bool           { return len(s) == 0 }

// Codes returns the contained weekday codes in Monday-first order.
func (s WorkDaySet) Codes() []Weekday {
	var out []Weekday
	for _, d := range []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday} {
		if s[d] {
			out = append(out, d)
		}
	}
	return out
}

// =============================================================================
// CLOCK TIME - Time of day (shift boundaries)
// =============================================================================

// ClockTime is a time of day with minute precision, e.g. a shift start.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	var ct ClockTime
	if _, err := fmt.Sscanf(s, "%d:%d", &ct.Hour, &ct.Minute); err != nil {
		return ClockTime{}, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	if ct.Hour < 0 || ct.Hour > 23 || ct.Minute < 0 || ct.Minute > 59 {
		return ClockTime{}, fmt.Errorf("parse clock time %q: out of range", s)
	}
	return ct, nil
}

func (ct ClockTime) String() string { return fmt.Sprintf("%02d:%02d", ct.Hour, ct.Minute) }

// =============================================================================
// CALENDAR - Timezone-correct day resolution
// =============================================================================

// DefaultTimezone applies when an organization has no timezone configured.
const DefaultTimezone = "UTC"

// Calendar resolves instants to calendar days in one organization's timezone.
// A check-in near midnight must land on the correct local calendar day, so
// day boundaries are never computed in server-local time or raw UTC.
type Calendar struct {
	loc *time.Location
}

// NewCalendar loads the named timezone, falling back to DefaultTimezone when
// the name is empty or unknown. It never fails: a report must not error out
// because an organization's timezone record is missing.
func NewCalendar(tzName string) *Calendar {
	if tzName == "" {
		tzName = DefaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// Location exposes the resolved timezone.
func (c *Calendar) Location() *time.Location { return c.loc }

// DayOf returns the calendar day the instant falls on in this timezone.
func (c *Calendar) DayOf(instant time.Time) Day {
	local := instant.In(c.loc)
	return NewDay(local.Year(), local.Month(), local.Day())
}

// StartOfDay returns the first instant of the instant's calendar day.
func (c *Calendar) StartOfDay(instant time.Time) time.Time {
	local := instant.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
}

// EndOfDay returns the last representable instant of the instant's calendar day.
func (c *Calendar) EndOfDay(instant time.Time) time.Time {
	return c.StartOfDay(instant).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DayOfWeek returns the weekday code of the instant's calendar day.
func (c *Calendar) DayOfWeek(instant time.Time) Weekday {
	return c.DayOf(instant).Weekday()
}

// IsWorkDay reports whether the instant's calendar day is in the work-day set.
func (c *Calendar) IsWorkDay(instant time.Time, workDays WorkDaySet) bool {
	return workDays.Contains(c.DayOfWeek(instant))
}

// Today returns the current calendar day for the given clock reading.
func (c *Calendar) Today(now time.Time) Day { return c.DayOf(now) }

// LastNDays returns the inclusive period ending today and spanning n calendar
// days: a 7-day range ends today and starts today minus 6 days.
func (c *Calendar) LastNDays(now time.Time, n int) Period {
	if n < 1 {
		n = 1
	}
	today := c.Today(now)
	return Period{Start: today.AddDays(-(n - 1)), End: today}
}

// ShiftInstant places a clock time on a calendar day in this timezone.
func (c *Calendar) ShiftInstant(day Day, ct ClockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.DayOfMonth(), ct.Hour, ct.Minute, 0, 0, c.loc)
}
