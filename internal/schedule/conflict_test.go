package schedule

import (
	"testing"

	"github.com/rosavera/centro/internal/model"
)

func TestAnnotateDetectsOverlap(t *testing.T) {
	existing := []model.CalendarInstance{
		{ID: 1, Type: model.ModuleGroup, Date: "2025-06-04", StartTime: "10:00", EndTime: "12:00"},
	}
	cands := []Candidate{
		{Date: "2025-06-04", Type: model.ModuleWorkshop, StartTime: "11:00", EndTime: "13:00"},
		{Date: "2025-06-04", Type: model.ModuleWorkshop, StartTime: "12:00", EndTime: "13:00"},
		{Date: "2025-06-05", Type: model.ModuleWorkshop, StartTime: "11:00", EndTime: "13:00"},
	}

	entries := Annotate(cands, existing)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	if entries[0].Conflict == nil {
		t.Fatal("overlapping candidate should carry a conflict")
	}
	if entries[0].Conflict.WithType != model.ModuleGroup {
		t.Errorf("conflict type = %s, want group", entries[0].Conflict.WithType)
	}
	if entries[0].Conflict.WithTime != "10:00-12:00" {
		t.Errorf("conflict range = %s, want 10:00-12:00", entries[0].Conflict.WithTime)
	}

	if entries[1].Conflict != nil {
		t.Error("candidate starting at the existing end time should not conflict")
	}
	if entries[2].Conflict != nil {
		t.Error("candidate on another date should not conflict")
	}
}

func TestAnnotateFirstOverlapWins(t *testing.T) {
	existing := []model.CalendarInstance{
		{ID: 1, Type: model.ModuleWorkshop, Date: "2025-06-04", StartTime: "09:00", EndTime: "11:00"},
		{ID: 2, Type: model.ModuleGroup, Date: "2025-06-04", StartTime: "10:00", EndTime: "12:00"},
	}
	cands := []Candidate{
		{Date: "2025-06-04", StartTime: "10:30", EndTime: "11:30"},
	}

	entries := Annotate(cands, existing)
	if entries[0].Conflict == nil {
		t.Fatal("expected a conflict")
	}
	// Store-return order decides; no severity ranking.
	if entries[0].Conflict.WithType != model.ModuleWorkshop {
		t.Errorf("conflict type = %s, want workshop (first in scan order)", entries[0].Conflict.WithType)
	}
}

func TestAnnotateSecondsInStoredTimes(t *testing.T) {
	existing := []model.CalendarInstance{
		{ID: 1, Type: model.ModuleGroup, Date: "2025-06-04", StartTime: "10:00:00", EndTime: "12:00:00"},
	}
	cands := []Candidate{
		{Date: "2025-06-04", StartTime: "11:00", EndTime: "13:00"},
	}

	entries := Annotate(cands, existing)
	if entries[0].Conflict == nil {
		t.Fatal("stored HH:MM:SS times should still be compared")
	}
	if entries[0].Conflict.WithTime != "10:00-12:00" {
		t.Errorf("conflict range = %s, want 10:00-12:00", entries[0].Conflict.WithTime)
	}
}

func TestAnnotateDegenerateCandidate(t *testing.T) {
	existing := []model.CalendarInstance{
		{ID: 1, Type: model.ModuleGroup, Date: "2025-06-04", StartTime: "00:00", EndTime: "23:59"},
	}
	cands := []Candidate{
		{Date: "2025-06-04", StartTime: "12:00", EndTime: "12:00"},
	}

	entries := Annotate(cands, existing)
	if entries[0].Conflict != nil {
		t.Error("degenerate candidate range should match nothing")
	}
}

func TestAnnotateEmptyInput(t *testing.T) {
	entries := Annotate(nil, nil)
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}
