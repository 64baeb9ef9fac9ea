package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wellness-engine/engine"
	"github.com/warp/wellness-engine/factory"
)

func TestParseSchedule_FullDefinition(t *testing.T) {
	f := factory.NewScheduleFactory()

	cfg, err := f.ParseSchedule(`{
		"name": "Night Crew",
		"work_days": "mon,tue,wed,thu,fri,sat",
		"shift_start": "22:00",
		"shift_end": "06:00",
		"grace_minutes": 30,
		"timezone": "America/New_York"
	}`)
	require.NoError(t, err)

	assert.Equal(t, "Night Crew", cfg.Name)
	assert.True(t, cfg.WorkDays.Contains(engine.Saturday))
	assert.False(t, cfg.WorkDays.Contains(engine.Sunday))
	assert.Equal(t, engine.ClockTime{Hour: 22}, cfg.ShiftStart)
	assert.Equal(t, engine.ClockTime{Hour: 6}, cfg.ShiftEnd)
	assert.Equal(t, 30, cfg.GraceMinutes)
	assert.Equal(t, "America/New_York", cfg.Timezone)
}

func TestParseSchedule_Defaults(t *testing.T) {
	f := factory.NewScheduleFactory()

	cfg, err := f.ParseSchedule(`{"name": "Basic"}`)
	require.NoError(t, err)

	assert.Equal(t, engine.WeekdaySet(), cfg.WorkDays, "defaults to Mon-Fri")
	assert.Equal(t, engine.ClockTime{Hour: 9}, cfg.ShiftStart)
	assert.Equal(t, engine.ClockTime{Hour: 18}, cfg.ShiftEnd)
	assert.Equal(t, 0, cfg.GraceMinutes)
}

func TestParseSchedule_Rejections(t *testing.T) {
	f := factory.NewScheduleFactory()

	tests := []struct {
		name string
		json string
	}{
		{"malformed JSON", `{not json`},
		{"unknown weekday code", `{"work_days": "mon,funday"}`},
		{"empty work days", `{"work_days": ","}`},
		{"negative grace", `{"grace_minutes": -5}`},
		{"bad shift time", `{"shift_start": "25:99"}`},
		{"unknown timezone", `{"timezone": "Mars/Olympus_Mons"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParseSchedule(tt.json)
			assert.Error(t, err)
		})
	}
}

func TestParseWorkDays(t *testing.T) {
	set, err := factory.ParseWorkDays(" Mon, TUE ,fri ")
	require.NoError(t, err)
	assert.Equal(t, []engine.Weekday{engine.Monday, engine.Tuesday, engine.Friday}, set.Codes())

	_, err = factory.ParseWorkDays("")
	assert.Error(t, err, "empty work-day set is rejected")
}
