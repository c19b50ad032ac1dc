package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Custom pattern frequencies.
const (
	FreqWeekly       = "weekly"
	FreqBiweekly     = "biweekly"
	FreqMonthlyFirst = "monthly_first"
)

func ValidFrequency(s string) bool {
	return s == FreqWeekly || s == FreqBiweekly || s == FreqMonthlyFirst
}

// CustomSpec is a parametric recurrence: a weekday set walked at a given
// frequency across an inclusive date range, optionally interleaving a
// second module on every other accepted occurrence. Ephemeral, like
// ClassicSpec.
type CustomSpec struct {
	Module    string
	SourceID  *int64
	StartTime string
	EndTime   string

	// A non-empty SecondModule requests interleaving: accepted occurrences
	// alternate primary, secondary, primary, ... in emission order.
	SecondModule    string
	SecondSourceID  *int64
	SecondStartTime string
	SecondEndTime   string

	Weekdays  []int  // 0=Sunday .. 6=Saturday
	Frequency string // FreqWeekly, FreqBiweekly, or FreqMonthlyFirst
	DateStart string // "2006-01-02", inclusive
	DateEnd   string // inclusive
}

// Custom expands the spec into candidates ordered ascending by date. A spec
// with no module, no usable date range, or an empty weekday set yields an
// empty sequence rather than an error.
func Custom(spec CustomSpec, names SourceNames) []Candidate {
	if spec.Module == "" || len(spec.Weekdays) == 0 {
		return nil
	}
	rangeStart, err := time.Parse(DateLayout, spec.DateStart)
	if err != nil {
		return nil
	}
	rangeEnd, err := time.Parse(DateLayout, spec.DateEnd)
	if err != nil {
		return nil
	}
	if rangeStart.After(rangeEnd) {
		return nil
	}

	start := anchor(rangeStart.Year(), rangeStart.Month(), rangeStart.Day())
	end := anchor(rangeEnd.Year(), rangeEnd.Month(), rangeEnd.Day())

	dates := expandDates(spec, start, end)
	if len(dates) == 0 {
		return nil
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	primaryLabel := names.resolve(spec.Module, spec.SourceID, fallbackLabel(spec.Module))
	interleave := spec.SecondModule != ""
	var secondaryLabel string
	if interleave {
		secondaryLabel = names.resolve(spec.SecondModule, spec.SecondSourceID, fallbackLabel(spec.SecondModule))
	}

	cands := make([]Candidate, 0, len(dates))
	for i, d := range dates {
		c := Candidate{
			Date:      d.Format(DateLayout),
			Weekday:   d.Weekday().String(),
			Type:      spec.Module,
			SourceID:  spec.SourceID,
			Label:     primaryLabel,
			StartTime: spec.StartTime,
			EndTime:   spec.EndTime,
		}
		if interleave && i%2 == 1 {
			c.Type = spec.SecondModule
			c.SourceID = spec.SecondSourceID
			c.Label = secondaryLabel
			c.StartTime = spec.SecondStartTime
			c.EndTime = spec.SecondEndTime
		}
		cands = append(cands, c)
	}
	return cands
}

// expandDates builds the accepted date sequence for the requested weekdays.
// Biweekly parity runs per weekday and is anchored to that weekday's first
// occurrence inside the window, not to calendar week numbers; monthly keeps
// only the first occurrence of each weekday within its calendar month.
func expandDates(spec CustomSpec, start, end time.Time) []time.Time {
	var dates []time.Time
	for _, wd := range dedupWeekdays(spec.Weekdays) {
		switch spec.Frequency {
		case FreqWeekly:
			dates = append(dates, datesOf(rrule.ROption{
				Freq:      rrule.WEEKLY,
				Byweekday: []rrule.Weekday{weekdayRule[wd]},
				Dtstart:   start,
				Until:     end,
			})...)
		case FreqBiweekly:
			first := firstOnOrAfter(start, wd)
			if first.After(end) {
				continue
			}
			dates = append(dates, datesOf(rrule.ROption{
				Freq:      rrule.WEEKLY,
				Interval:  2,
				Byweekday: []rrule.Weekday{weekdayRule[wd]},
				Dtstart:   first,
				Until:     end,
			})...)
		case FreqMonthlyFirst:
			dates = append(dates, datesOf(rrule.ROption{
				Freq:      rrule.MONTHLY,
				Byweekday: []rrule.Weekday{weekdayRule[wd].Nth(1)},
				Dtstart:   start,
				Until:     end,
			})...)
		}
	}
	return dates
}

func dedupWeekdays(days []int) []int {
	var seen [7]bool
	var out []int
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func firstOnOrAfter(t time.Time, weekday int) time.Time {
	for int(t.Weekday()) != weekday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func fallbackLabel(module string) string {
	if module == "" {
		return ""
	}
	return strings.ToUpper(module[:1]) + module[1:]
}
