package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/datekey"
	"github.com/teambition/rrule-go"
)

// Granularity is the size of the period one completion instance covers
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
	Year
)

// String returns the string representation
func (g Granularity) String() string {
	switch g {
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return "day"
	}
}

// Rule is a parsed recurrence rule evaluated over calendar days
type Rule struct {
	raw         string
	rr          *rrule.RRule
	dtstart     datekey.Date
	granularity Granularity
	weekAnchor  time.Weekday
}

// ParseRule parses an RFC 5545 rule. Accepted forms:
//
//	FREQ=WEEKLY;BYDAY=MO
//	RRULE:FREQ=DAILY;INTERVAL=2
//	DTSTART:20260105;FREQ=WEEKLY
//	DTSTART:20260105T090000Z\nRRULE:FREQ=MONTHLY
//
// Only the calendar day of DTSTART is used. When DTSTART is absent, anchor
// becomes the first occurrence candidate.
func ParseRule(raw string, anchor datekey.Date) (*Rule, error) {
	var (
		parts   []string
		dtstart datekey.Date
		hasDT   bool
	)

	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r", ""), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "DTSTART") && !strings.Contains(upper, "FREQ=") {
			d, err := parseDTStart(line[strings.LastIndex(line, ":")+1:])
			if err != nil {
				return nil, malformed(raw, err.Error())
			}
			dtstart, hasDT = d, true
			continue
		}
		line = strings.TrimPrefix(upper, "RRULE:")
		fields := strings.Split(line, ";")
		for i := 0; i < len(fields); i++ {
			p := strings.TrimSpace(fields[i])
			if p == "" {
				continue
			}
			if strings.HasPrefix(p, "DTSTART") {
				var value string
				switch {
				case strings.HasPrefix(p, "DTSTART:"), strings.HasPrefix(p, "DTSTART="):
					value = p[len("DTSTART")+1:]
				default:
					// DTSTART;TZID=Zone:20260107 puts parameters before the value
					for i < len(fields) && !strings.Contains(fields[i], ":") {
						i++
					}
					if i == len(fields) {
						return nil, malformed(raw, "DTSTART without value")
					}
					value = fields[i][strings.LastIndex(fields[i], ":")+1:]
				}
				d, err := parseDTStart(value)
				if err != nil {
					return nil, malformed(raw, err.Error())
				}
				dtstart, hasDT = d, true
				continue
			}
			parts = append(parts, p)
		}
	}

	hasFreq := false
	for _, p := range parts {
		if strings.HasPrefix(p, "FREQ=") {
			hasFreq = true
		}
	}
	if !hasFreq {
		return nil, malformed(raw, "missing FREQ")
	}

	opt, err := rrule.StrToROption(strings.Join(parts, ";"))
	if err != nil {
		return nil, malformed(raw, err.Error())
	}

	if !hasDT {
		dtstart = anchor
	}
	if dtstart.IsZero() {
		return nil, malformed(raw, "no DTSTART and no anchor date")
	}
	opt.Dtstart = dtstart.Time()

	rr, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, malformed(raw, err.Error())
	}

	r := &Rule{raw: raw, rr: rr, dtstart: dtstart}
	r.granularity, r.weekAnchor = classify(*opt, dtstart)
	if r.granularity != Day && r.repeatsWithinPeriod() {
		r.granularity = Day
	}
	return r, nil
}

// Limits of the scan in repeatsWithinPeriod
const (
	scanPeriods     = 12
	scanOccurrences = 512
)

// repeatsWithinPeriod checks whether one of the first periods of the rule
// holds occurrences on more than one day, as FREQ=MONTHLY;BYDAY=MO does.
// Such a rule cannot share one completion per period.
func (r *Rule) repeatsWithinPeriod() bool {
	next := r.rr.Iterator()

	var start, last datekey.Date
	periods := 0
	for i := 0; i < scanOccurrences; i++ {
		t, ok := next()
		if !ok {
			return false
		}
		d := datekey.FromTime(t, time.UTC)
		if p := r.PeriodStart(d); periods == 0 || !p.Equal(start) {
			periods++
			if periods > scanPeriods {
				return false
			}
			start, last = p, d
			continue
		}
		if !d.Equal(last) {
			return true
		}
	}
	return false
}

// classify derives the instance period from the rule's cadence. A rule that
// picks several days inside its cadence completes per day; an un-ordinalled
// BYDAY under MONTHLY or YEARLY matches every such weekday in the period.
func classify(opt rrule.ROption, dtstart datekey.Date) (Granularity, time.Weekday) {
	switch opt.Freq {
	case rrule.WEEKLY:
		switch len(opt.Byweekday) {
		case 0:
			return Week, dtstart.Weekday()
		case 1:
			return Week, toWeekday(opt.Byweekday[0])
		default:
			return Day, dtstart.Weekday()
		}
	case rrule.MONTHLY:
		if len(opt.Bymonthday)+len(opt.Byweekday) > 1 || everyWeekday(opt.Byweekday) {
			return Day, dtstart.Weekday()
		}
		return Month, dtstart.Weekday()
	case rrule.YEARLY:
		if len(opt.Bymonthday)+len(opt.Byweekday)+len(opt.Byyearday) > 1 || everyWeekday(opt.Byweekday) {
			return Day, dtstart.Weekday()
		}
		if len(opt.Bymonth) > 1 {
			return Month, dtstart.Weekday()
		}
		return Year, dtstart.Weekday()
	default:
		return Day, dtstart.Weekday()
	}
}

// everyWeekday reports a BYDAY entry without an ordinal such as 1MO or -1FR
func everyWeekday(days []rrule.Weekday) bool {
	for i := range days {
		if days[i].N() == 0 {
			return true
		}
	}
	return false
}

// toWeekday converts rrule's Monday-based weekday to time.Weekday
func toWeekday(w rrule.Weekday) time.Weekday {
	return time.Weekday((w.Day() + 1) % 7)
}

func parseDTStart(v string) (datekey.Date, error) {
	v = strings.TrimSpace(v)
	if len(v) < 8 {
		return datekey.Date{}, fmt.Errorf("invalid DTSTART %q", v)
	}
	t, err := time.Parse("20060102", v[:8])
	if err != nil {
		return datekey.Date{}, fmt.Errorf("invalid DTSTART %q", v)
	}
	return datekey.FromTime(t, time.UTC), nil
}

func malformed(raw, reason string) error {
	return model.ErrMalformedRecurrenceRule.
		WithMessage("malformed recurrence rule %q: %s", raw, reason).
		WithDetails(map[string]interface{}{"rule": raw, "reason": reason})
}

// Raw returns the rule as written
func (r *Rule) Raw() string {
	return r.raw
}

// Granularity returns the instance period size
func (r *Rule) Granularity() Granularity {
	return r.granularity
}

// DTStart returns the first occurrence candidate
func (r *Rule) DTStart() datekey.Date {
	return r.dtstart
}

// WeekAnchor returns the weekday on which week periods begin
func (r *Rule) WeekAnchor() time.Weekday {
	return r.weekAnchor
}

// PeriodStart normalizes d to the start of its instance period
func (r *Rule) PeriodStart(d datekey.Date) datekey.Date {
	switch r.granularity {
	case Week:
		return d.StartOfWeek(r.weekAnchor)
	case Month:
		return d.StartOfMonth()
	case Year:
		return d.StartOfYear()
	default:
		return d
	}
}

// PeriodEnd returns the exclusive end of the period starting at start
func (r *Rule) PeriodEnd(start datekey.Date) datekey.Date {
	t := start.Time()
	switch r.granularity {
	case Week:
		return start.AddDays(7)
	case Month:
		return datekey.New(t.Year(), t.Month()+1, 1)
	case Year:
		return datekey.New(t.Year()+1, time.January, 1)
	default:
		return start.AddDays(1)
	}
}

// HasOccurrenceIn checks for an occurrence in [start, end)
func (r *Rule) HasOccurrenceIn(start, end datekey.Date) bool {
	next := r.rr.After(start.Time(), true)
	return !next.IsZero() && next.Before(end.Time())
}

// OccursOn checks if an occurrence falls on d
func (r *Rule) OccursOn(d datekey.Date) bool {
	return r.HasOccurrenceIn(d, d.AddDays(1))
}

// After returns the first occurrence on a day strictly after d
func (r *Rule) After(d datekey.Date) (datekey.Date, bool) {
	next := r.rr.After(d.AddDays(1).Time(), true)
	if next.IsZero() {
		return datekey.Date{}, false
	}
	return datekey.FromTime(next, time.UTC), true
}

// Between returns the occurrence days in [from, to], at most limit entries
func (r *Rule) Between(from, to datekey.Date, limit int) []datekey.Date {
	var out []datekey.Date
	last := datekey.Date{}
	for _, t := range r.rr.Between(from.Time(), to.AddDays(1).Time(), true) {
		d := datekey.FromTime(t, time.UTC)
		if d.After(to) {
			break
		}
		// sub-daily rules produce several occurrences on one day
		if !last.IsZero() && last.Equal(d) {
			continue
		}
		out = append(out, d)
		last = d
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
