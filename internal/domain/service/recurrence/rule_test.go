package recurrence

import (
	"testing"
	"time"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/datekey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) datekey.Date {
	d, err := datekey.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseRule(t *testing.T) {
	anchor := day("2026-01-05") // Monday

	tests := []struct {
		name        string
		raw         string
		granularity Granularity
		weekAnchor  time.Weekday
		dtstart     string
	}{
		{"daily", "FREQ=DAILY", Day, time.Monday, "2026-01-05"},
		{"rrule prefix", "RRULE:FREQ=DAILY;INTERVAL=2", Day, time.Monday, "2026-01-05"},
		{"weekly on one day", "FREQ=WEEKLY;BYDAY=WE", Week, time.Wednesday, "2026-01-05"},
		{"weekly from dtstart", "DTSTART:20251231;FREQ=WEEKLY", Week, time.Wednesday, "2025-12-31"},
		{"weekly on several days", "FREQ=WEEKLY;BYDAY=MO,WE,FR", Day, time.Monday, "2026-01-05"},
		{"monthly on separate line", "DTSTART:20260105T090000Z\nRRULE:FREQ=MONTHLY", Month, time.Monday, "2026-01-05"},
		{"monthly twice", "FREQ=MONTHLY;BYMONTHDAY=1,15", Day, time.Monday, "2026-01-05"},
		{"yearly", "FREQ=YEARLY", Year, time.Monday, "2026-01-05"},
		{"yearly in two months", "FREQ=YEARLY;BYMONTH=1,7", Month, time.Monday, "2026-01-05"},
		{"lower case", "freq=weekly;byday=tu", Week, time.Tuesday, "2026-01-05"},
		{"dtstart with tzid", "DTSTART;TZID=America/New_York:20260107T090000\r\nRRULE:FREQ=DAILY", Day, time.Wednesday, "2026-01-07"},
		{"inline dtstart with tzid", "DTSTART;TZID=Europe/Berlin:20260107;FREQ=DAILY", Day, time.Wednesday, "2026-01-07"},
		{"inline dtstart with value type", "DTSTART;VALUE=DATE:20260107;FREQ=WEEKLY", Week, time.Wednesday, "2026-01-07"},
		{"monthly on every monday", "FREQ=MONTHLY;BYDAY=MO", Day, time.Monday, "2026-01-05"},
		{"monthly on first monday", "FREQ=MONTHLY;BYDAY=1MO", Month, time.Monday, "2026-01-05"},
		{"monthly on last friday", "FREQ=MONTHLY;BYDAY=-1FR", Month, time.Monday, "2026-01-05"},
		{"yearly on every monday", "FREQ=YEARLY;BYDAY=MO", Day, time.Monday, "2026-01-05"},
		{"yearly in one week", "FREQ=YEARLY;BYWEEKNO=2", Day, time.Monday, "2026-01-05"},
		{"weekly twice a day", "FREQ=WEEKLY;BYDAY=MO;BYHOUR=9,17", Week, time.Monday, "2026-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRule(tt.raw, anchor)
			require.NoError(t, err)
			assert.Equal(t, tt.granularity, r.Granularity())
			assert.Equal(t, tt.weekAnchor, r.WeekAnchor())
			assert.Equal(t, tt.dtstart, r.DTStart().String())
			assert.Equal(t, tt.raw, r.Raw())
		})
	}
}

func TestParseRule_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		anchor datekey.Date
	}{
		{"empty", "   ", day("2026-01-05")},
		{"free text", "every other tuesday", day("2026-01-05")},
		{"unknown frequency", "FREQ=SOMETIMES", day("2026-01-05")},
		{"no frequency", "BYDAY=MO", day("2026-01-05")},
		{"bad dtstart", "DTSTART:2026;FREQ=DAILY", day("2026-01-05")},
		{"dtstart parameters without value", "DTSTART;TZID=Europe/Berlin;FREQ=DAILY", day("2026-01-05")},
		{"no anchor", "FREQ=DAILY", datekey.Date{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRule(tt.raw, tt.anchor)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrMalformedRecurrenceRule)
		})
	}
}

func TestRule_Periods(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		on    string
		start string
		end   string
	}{
		{"day", "FREQ=DAILY", "2026-01-07", "2026-01-07", "2026-01-08"},
		{"week anchored on wednesday", "FREQ=WEEKLY;BYDAY=WE", "2026-01-06", "2025-12-31", "2026-01-07"},
		{"week starts on its anchor", "FREQ=WEEKLY;BYDAY=WE", "2026-01-07", "2026-01-07", "2026-01-14"},
		{"month", "FREQ=MONTHLY", "2026-12-31", "2026-12-01", "2027-01-01"},
		{"year", "FREQ=YEARLY", "2026-07-04", "2026-01-01", "2027-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRule(tt.raw, day("2026-01-05"))
			require.NoError(t, err)
			start := r.PeriodStart(day(tt.on))
			assert.Equal(t, tt.start, start.String())
			assert.Equal(t, tt.end, r.PeriodEnd(start).String())
		})
	}
}

func TestRule_After(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		r, err := ParseRule("FREQ=DAILY;COUNT=3", day("2026-01-05"))
		require.NoError(t, err)

		next, ok := r.After(day("2026-01-05"))
		require.True(t, ok)
		assert.Equal(t, "2026-01-06", next.String())

		next, ok = r.After(day("2025-06-01"))
		require.True(t, ok)
		assert.Equal(t, "2026-01-05", next.String())

		_, ok = r.After(day("2026-01-07"))
		assert.False(t, ok, "rule is exhausted")
	})

	t.Run("until", func(t *testing.T) {
		r, err := ParseRule("FREQ=WEEKLY;UNTIL=20260120T000000Z", day("2026-01-05"))
		require.NoError(t, err)

		next, ok := r.After(day("2026-01-12"))
		require.True(t, ok)
		assert.Equal(t, "2026-01-19", next.String())

		_, ok = r.After(day("2026-01-19"))
		assert.False(t, ok)
	})

	t.Run("strictly after", func(t *testing.T) {
		r, err := ParseRule("FREQ=WEEKLY;BYDAY=MO", day("2026-01-05"))
		require.NoError(t, err)

		next, ok := r.After(day("2026-01-05"))
		require.True(t, ok)
		assert.Equal(t, "2026-01-12", next.String())
	})
}

func TestRule_Between(t *testing.T) {
	r, err := ParseRule("FREQ=WEEKLY;BYDAY=MO,TH", day("2026-01-05"))
	require.NoError(t, err)

	got := r.Between(day("2026-01-05"), day("2026-01-15"), 0)
	var keys []string
	for _, d := range got {
		keys = append(keys, d.String())
	}
	assert.Equal(t, []string{"2026-01-05", "2026-01-08", "2026-01-12", "2026-01-15"}, keys)

	assert.Len(t, r.Between(day("2026-01-05"), day("2026-01-15"), 2), 2)

	t.Run("sub-daily rules yield each day once", func(t *testing.T) {
		r, err := ParseRule("FREQ=HOURLY;INTERVAL=6", day("2026-01-05"))
		require.NoError(t, err)

		got := r.Between(day("2026-01-05"), day("2026-01-06"), 0)
		require.Len(t, got, 2)
		assert.Equal(t, "2026-01-05", got[0].String())
		assert.Equal(t, "2026-01-06", got[1].String())
	})
}

func TestRule_OccursOn(t *testing.T) {
	r, err := ParseRule("FREQ=WEEKLY;BYDAY=MO,WE", day("2026-01-05"))
	require.NoError(t, err)

	assert.True(t, r.OccursOn(day("2026-01-05")))
	assert.False(t, r.OccursOn(day("2026-01-06")))
	assert.True(t, r.OccursOn(day("2026-01-07")))
	assert.False(t, r.OccursOn(day("2025-12-29")), "before the first occurrence")
}
