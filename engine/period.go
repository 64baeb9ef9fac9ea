package engine

// =============================================================================
// PERIOD - Inclusive day range for all report computation
// =============================================================================

// Period is an inclusive calendar day range [Start, End]. Every report is
// computed for a period; "today" is the one-day period {today, today}.
type Period struct {
	Start Day
	End   Day
}

// Contains reports whether d falls within the period.
func (p Period) Contains(d Day) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Length returns the number of calendar days in the period.
func (p Period) Length() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return p.Start.DaysUntil(p.End) + 1
}

// IsValid reports whether the period covers at least one day.
func (p Period) IsValid() bool { return !p.End.Before(p.Start) }

// EachDay walks the period day by day. Iterating instead of materializing a
// []Day keeps "all time" windows bounded in memory.
func (p Period) EachDay(fn func(Day)) {
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		fn(d)
	}
}

// Previous returns the immediately preceding period of equal length, used for
// trend comparison.
func (p Period) Previous() Period {
	length := p.Length()
	end := p.Start.AddDays(-1)
	return Period{Start: end.AddDays(-(length - 1)), End: end}
}

// ClampStart moves the period start forward to at least min. A team's
// reporting period never starts before the team existed.
func (p Period) ClampStart(min Day) Period {
	if p.Start.Before(min) {
		p.Start = min
	}
	return p
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// RANGE GUARDS
// =============================================================================

// DefaultMaxRangeDays bounds report windows. Requests beyond the limit are
// rejected rather than silently truncated.
const DefaultMaxRangeDays = 400

// DefaultRangeDays is the fallback window when range parameters are garbage.
const DefaultRangeDays = 7

// SafePeriod validates a requested period against a reference "today". A
// malformed range (zero dates, end before start, or a future start) clamps to
// the default trailing window; this is a read-path report generator, so bad
// parameters degrade instead of throwing.
func SafePeriod(requested Period, today Day) Period {
	if requested.Start.IsZero() || requested.End.IsZero() || !requested.IsValid() {
		return Period{Start: today.AddDays(-(DefaultRangeDays - 1)), End: today}
	}
	if requested.Start.After(today) {
		return Period{Start: today.AddDays(-(DefaultRangeDays - 1)), End: today}
	}
	if requested.End.After(today) {
		requested.End = today
	}
	return requested
}

// CheckRange rejects periods longer than maxDays (0 means DefaultMaxRangeDays).
func CheckRange(p Period, maxDays int) error {
	if maxDays <= 0 {
		maxDays = DefaultMaxRangeDays
	}
	if !p.IsValid() {
		return ErrInvalidPeriod
	}
	if p.Length() > maxDays {
		return &RangeTooLargeError{Requested: p.Length(), Max: maxDays}
	}
	return nil
}
