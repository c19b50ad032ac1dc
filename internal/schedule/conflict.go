package schedule

import (
	"github.com/rosavera/centro/internal/model"
)

// Conflict describes the first persisted instance found on the same date
// whose time range overlaps a candidate.
type Conflict struct {
	WithType string `json:"conflicting_type"`
	WithTime string `json:"conflicting_time_range"`
}

// PreviewEntry is a candidate annotated for operator review before commit.
type PreviewEntry struct {
	Candidate
	Conflict *Conflict `json:"conflict"`
}

// Annotate marks each candidate with at most one conflict against the
// supplied persisted instances. Instances are scanned in store-return order
// and the first same-date overlap wins; there is no severity ranking. The
// annotation is advisory only and never blocks a commit.
func Annotate(cands []Candidate, existing []model.CalendarInstance) []PreviewEntry {
	entries := make([]PreviewEntry, 0, len(cands))
	for _, c := range cands {
		entries = append(entries, PreviewEntry{
			Candidate: c,
			Conflict:  findConflict(c, existing),
		})
	}
	return entries
}

func findConflict(c Candidate, existing []model.CalendarInstance) *Conflict {
	for _, inst := range existing {
		if inst.Date != c.Date {
			continue
		}
		instStart := FormatClock(inst.StartTime)
		instEnd := FormatClock(inst.EndTime)
		if Overlaps(c.StartTime, c.EndTime, instStart, instEnd) {
			return &Conflict{
				WithType: inst.Type,
				WithTime: instStart + "-" + instEnd,
			}
		}
	}
	return nil
}
