// Package schedule expands declarative recurrence specifications into
// concrete dated calendar candidates and annotates them with conflicts
// against already-persisted instances. Everything here is pure computation:
// no I/O, no clock reads.
package schedule

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// DateLayout is the civil-date wire format used throughout the subsystem.
const DateLayout = "2006-01-02"

// Candidate is one generated occurrence before it is persisted.
type Candidate struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	Type      string `json:"type"`
	SourceID  *int64 `json:"source_id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SourceNames resolves catalogue display names, keyed by module type and
// then source id. A missing entry falls back to a generic label, the same
// as an instance with no source link.
type SourceNames map[string]map[int64]string

func (n SourceNames) resolve(module string, id *int64, fallback string) string {
	if id == nil {
		return fallback
	}
	if name, ok := n[module][*id]; ok && name != "" {
		return name
	}
	return fallback
}

// weekdayRule maps the wire encoding (0=Sunday..6=Saturday) to rrule weekdays.
var weekdayRule = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// datesOf runs a recurrence rule and collects the civil dates it produces.
// A rule that cannot be constructed contributes nothing; the generators
// treat that the same as an empty window.
func datesOf(opt rrule.ROption) []time.Time {
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}
	return r.All()
}

// anchor places a civil date at noon UTC. Rule arithmetic then stays on the
// intended day regardless of month boundaries.
func anchor(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func sortByDate(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Date != cands[j].Date {
			return cands[i].Date < cands[j].Date
		}
		return cands[i].StartTime < cands[j].StartTime
	})
}

// Years returns the distinct calendar years spanned by the candidates, in
// ascending order. Used to scope the store read for conflict annotation.
func Years(cands []Candidate) []int {
	seen := map[int]bool{}
	var years []int
	for _, c := range cands {
		d, err := time.Parse(DateLayout, c.Date)
		if err != nil {
			continue
		}
		if !seen[d.Year()] {
			seen[d.Year()] = true
			years = append(years, d.Year())
		}
	}
	sort.Ints(years)
	return years
}
