package schedule

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/rosavera/centro/internal/model"
)

// Fixed end times of the Classic tracks, inherited from how the
// organization has always run them.
const (
	classicWednesdayEnd = "12:00"
	classicVirtualEnd   = "18:00"
)

// Fallback labels for Classic tracks without a resolvable source link.
const (
	labelInPersonGroup  = "In-Person Group"
	labelMemoryWorkshop = "Memory Workshop"
	labelVirtualGroup   = "Virtual Group"
)

// ClassicSpec is the historical recurrence pattern: every Wednesday of the
// window alternates between the in-person group and the workshop, and the
// first Monday of each month carries the virtual group. Ephemeral; only its
// expansion persists.
type ClassicSpec struct {
	Year       int
	StartMonth int // 1..12, inclusive
	EndMonth   int // 1..12, inclusive

	InPersonGroupID *int64
	WorkshopID      *int64
	VirtualGroupID  *int64

	InPersonStart string // "15:04"
	WorkshopStart string
	VirtualStart  string
}

// Classic expands the spec into candidates ordered ascending by date.
// An invalid window (zero fields or start month past end month) yields an
// empty sequence; the caller is expected to re-prompt rather than see an
// error, so a preview is always safe to render.
func Classic(spec ClassicSpec, names SourceNames) []Candidate {
	if spec.Year == 0 || spec.StartMonth < 1 || spec.StartMonth > 12 ||
		spec.EndMonth < 1 || spec.EndMonth > 12 || spec.StartMonth > spec.EndMonth {
		return nil
	}

	windowStart := anchor(spec.Year, time.Month(spec.StartMonth), 1)
	// Day zero of the following month is the window's last day.
	windowEnd := anchor(spec.Year, time.Month(spec.EndMonth)+1, 0)

	var cands []Candidate

	// The Wednesday tracks alternate by position in the ordered Wednesday
	// sequence, starting in-person on the first Wednesday of the window.
	inPerson := true
	wednesdays := datesOf(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rrule.WE},
		Dtstart:   windowStart,
		Until:     windowEnd,
	})
	for _, d := range wednesdays {
		c := Candidate{
			Date:    d.Format(DateLayout),
			Weekday: d.Weekday().String(),
			EndTime: classicWednesdayEnd,
		}
		if inPerson {
			c.Type = model.ModuleGroup
			c.SourceID = spec.InPersonGroupID
			c.Label = names.resolve(model.ModuleGroup, spec.InPersonGroupID, labelInPersonGroup)
			c.StartTime = spec.InPersonStart
		} else {
			c.Type = model.ModuleWorkshop
			c.SourceID = spec.WorkshopID
			c.Label = names.resolve(model.ModuleWorkshop, spec.WorkshopID, labelMemoryWorkshop)
			c.StartTime = spec.WorkshopStart
		}
		cands = append(cands, c)
		inPerson = !inPerson
	}

	firstMondays := datesOf(rrule.ROption{
		Freq:      rrule.MONTHLY,
		Byweekday: []rrule.Weekday{rrule.MO.Nth(1)},
		Dtstart:   windowStart,
		Until:     windowEnd,
	})
	for _, d := range firstMondays {
		cands = append(cands, Candidate{
			Date:      d.Format(DateLayout),
			Weekday:   d.Weekday().String(),
			Type:      model.ModuleGroup,
			SourceID:  spec.VirtualGroupID,
			Label:     names.resolve(model.ModuleGroup, spec.VirtualGroupID, labelVirtualGroup),
			StartTime: spec.VirtualStart,
			EndTime:   classicVirtualEnd,
		})
	}

	sortByDate(cands)
	return cands
}
