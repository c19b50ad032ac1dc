package store

import (
	"database/sql"
	"testing"

	"github.com/rosavera/centro/internal/database"
	"github.com/rosavera/centro/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// Ensure foreign keys are enforced (modernc/sqlite may not honor DSN param for :memory:)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreate(t *testing.T, s *InstanceStore, p CreateParams) *model.CalendarInstance {
	t.Helper()
	inst, err := s.Create(p)
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	return inst
}

func TestCreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	s := NewInstanceStore(db)

	inst := mustCreate(t, s, CreateParams{
		Type:      model.ModuleGroup,
		Date:      "2025-06-04",
		StartTime: "10:00",
		EndTime:   "12:00",
		Notes:     "bring name tags",
	})
	if inst.Type != model.ModuleGroup {
		t.Errorf("type = %q, want %q", inst.Type, model.ModuleGroup)
	}
	if inst.Status != model.StatusScheduled {
		t.Errorf("status = %q, want %q", inst.Status, model.StatusScheduled)
	}
	if inst.SourceID != nil {
		t.Errorf("source_id should be nil, got %v", *inst.SourceID)
	}
	if inst.Coordinator != nil || inst.CoCoordinator != nil {
		t.Error("new instance should have no assignments")
	}

	got, err := s.GetByID(inst.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Date != "2025-06-04" || got.Notes != "bring name tags" {
		t.Errorf("got %q %q, want 2025-06-04 %q", got.Date, got.Notes, "bring name tags")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	s := NewInstanceStore(setupTestDB(t))

	got, err := s.GetByID(9999)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing instance, got %+v", got)
	}
}

func TestListFilters(t *testing.T) {
	db := setupTestDB(t)
	s := NewInstanceStore(db)
	volunteers := NewVolunteerStore(db)

	ana, err := volunteers.Create("Ana")
	if err != nil {
		t.Fatalf("create volunteer: %v", err)
	}

	// Out of order on purpose; List must sort by date then start time.
	mustCreate(t, s, CreateParams{Type: model.ModuleWorkshop, Date: "2025-06-11", StartTime: "16:00", EndTime: "18:00"})
	first := mustCreate(t, s, CreateParams{Type: model.ModuleGroup, Date: "2025-06-04", StartTime: "10:00", EndTime: "12:00"})
	mustCreate(t, s, CreateParams{Type: model.ModuleGroup, Date: "2025-06-04", StartTime: "16:00", EndTime: "18:00"})
	mustCreate(t, s, CreateParams{Type: model.ModuleActivity, Date: "2025-07-02", StartTime: "10:00", EndTime: "12:00"})

	june := 6
	got, err := s.List(2025, &june, InstanceFilter{})
	if err != nil {
		t.Fatalf("list month: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("june instances = %d, want 3", len(got))
	}
	if got[0].ID != first.ID {
		t.Errorf("first listed = id %d, want %d (earliest date and start)", got[0].ID, first.ID)
	}

	got, err = s.List(2025, nil, InstanceFilter{})
	if err != nil {
		t.Fatalf("list year: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("year instances = %d, want 4", len(got))
	}

	got, err = s.List(2025, &june, InstanceFilter{Type: model.ModuleWorkshop})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(got) != 1 || got[0].Type != model.ModuleWorkshop {
		t.Fatalf("workshop filter returned %d instances", len(got))
	}

	if err := s.SetAssignment(first.ID, model.RoleCoordinator, ana.ID); err != nil {
		t.Fatalf("set assignment: %v", err)
	}
	got, err = s.List(2025, &june, InstanceFilter{VolunteerID: &ana.ID})
	if err != nil {
		t.Fatalf("list by volunteer: %v", err)
	}
	if len(got) != 1 || got[0].ID != first.ID {
		t.Fatalf("volunteer filter returned %d instances", len(got))
	}
	if got[0].Coordinator == nil || got[0].Coordinator.Name != "Ana" {
		t.Errorf("coordinator = %+v, want Ana", got[0].Coordinator)
	}
}

func TestUpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	s := NewInstanceStore(db)
	sources := NewSourceStore(db)

	circle, err := sources.Create(model.ModuleGroup, "Friday Circle")
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	inst := mustCreate(t, s, CreateParams{
		Type: model.ModuleGroup, SourceID: &circle.ID,
		Date: "2025-06-04", StartTime: "10:00", EndTime: "12:00",
	})

	status := model.StatusDone
	notes := "went well"
	updated, err := s.Update(inst.ID, UpdateParams{Status: &status, Notes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.StatusDone || updated.Notes != "went well" {
		t.Errorf("updated = %q %q", updated.Status, updated.Notes)
	}
	if updated.Date != "2025-06-04" || updated.StartTime != "10:00" {
		t.Error("untouched fields must survive a partial update")
	}
	if updated.SourceID == nil || *updated.SourceID != circle.ID {
		t.Error("source link must survive a partial update")
	}

	// Explicit null clears the source link.
	updated, err = s.Update(inst.ID, UpdateParams{SourceID: &sql.NullInt64{}})
	if err != nil {
		t.Fatalf("clear source: %v", err)
	}
	if updated.SourceID != nil {
		t.Errorf("source_id = %v, want nil", *updated.SourceID)
	}

	// Empty update is a read.
	same, err := s.Update(inst.ID, UpdateParams{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if same.Status != model.StatusDone {
		t.Errorf("status = %q after empty update", same.Status)
	}
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	s := NewInstanceStore(db)
	volunteers := NewVolunteerStore(db)

	ana, err := volunteers.Create("Ana")
	if err != nil {
		t.Fatalf("create volunteer: %v", err)
	}
	inst := mustCreate(t, s, CreateParams{Type: model.ModuleGroup, Date: "2025-06-04", StartTime: "10:00", EndTime: "12:00"})
	if err := s.SetAssignment(inst.ID, model.RoleCoordinator, ana.ID); err != nil {
		t.Fatalf("set assignment: %v", err)
	}

	if err := s.Delete(inst.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.GetByID(inst.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("instance should be gone")
	}

	// Assignments cascade with their instance.
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM calendar_assignments").Scan(&n); err != nil {
		t.Fatalf("count assignments: %v", err)
	}
	if n != 0 {
		t.Errorf("orphan assignments = %d, want 0", n)
	}
}

func TestSetAssignmentOverwriteAndOppositeRole(t *testing.T) {
	db := setupTestDB(t)
	s := NewInstanceStore(db)
	volunteers := NewVolunteerStore(db)

	ana, _ := volunteers.Create("Ana")
	beto, _ := volunteers.Create("Beto")
	inst := mustCreate(t, s, CreateParams{Type: model.ModuleGroup, Date: "2025-06-04", StartTime: "10:00", EndTime: "12:00"})

	if err := s.SetAssignment(inst.ID, model.RoleCoordinator, ana.ID); err != nil {
		t.Fatalf("assign ana: %v", err)
	}
	// Last write wins on the role.
	if err := s.SetAssignment(inst.ID, model.RoleCoordinator, beto.ID); err != nil {
		t.Fatalf("assign beto: %v", err)
	}
	got, _ := s.GetByID(inst.ID)
	if got.Coordinator == nil || got.Coordinator.VolunteerID != beto.ID {
		t.Fatalf("coordinator = %+v, want Beto", got.Coordinator)
	}

	// Moving Beto to co-coordinator clears him from coordinator.
	if err := s.SetAssignment(inst.ID, model.RoleCoCoordinator, beto.ID); err != nil {
		t.Fatalf("move beto: %v", err)
	}
	got, _ = s.GetByID(inst.ID)
	if got.Coordinator != nil {
		t.Errorf("coordinator = %+v, want nil after role move", got.Coordinator)
	}
	if got.CoCoordinator == nil || got.CoCoordinator.VolunteerID != beto.ID {
		t.Errorf("co_coordinator = %+v, want Beto", got.CoCoordinator)
	}
}

func TestSetAssignmentActivityNoOp(t *testing.T) {
	db := setupTestDB(t)
	s := NewInstanceStore(db)
	volunteers := NewVolunteerStore(db)

	ana, _ := volunteers.Create("Ana")
	inst := mustCreate(t, s, CreateParams{Type: model.ModuleActivity, Date: "2025-06-04", StartTime: "10:00", EndTime: "12:00"})

	if err := s.SetAssignment(inst.ID, model.RoleCoordinator, ana.ID); err != nil {
		t.Fatalf("activity assignment should be a no-op, got %v", err)
	}
	got, _ := s.GetByID(inst.ID)
	if got.Coordinator != nil {
		t.Errorf("activity picked up a coordinator: %+v", got.Coordinator)
	}
}

func TestSetAssignmentMissingInstance(t *testing.T) {
	db := setupTestDB(t)
	s := NewInstanceStore(db)
	volunteers := NewVolunteerStore(db)
	ana, _ := volunteers.Create("Ana")

	if err := s.SetAssignment(9999, model.RoleCoordinator, ana.ID); err == nil {
		t.Error("expected error for missing instance")
	}
}

func TestRemoveAssignmentIdempotent(t *testing.T) {
	db := setupTestDB(t)
	s := NewInstanceStore(db)
	volunteers := NewVolunteerStore(db)

	ana, _ := volunteers.Create("Ana")
	inst := mustCreate(t, s, CreateParams{Type: model.ModuleGroup, Date: "2025-06-04", StartTime: "10:00", EndTime: "12:00"})
	if err := s.SetAssignment(inst.ID, model.RoleCoordinator, ana.ID); err != nil {
		t.Fatalf("set assignment: %v", err)
	}

	if err := s.RemoveAssignment(inst.ID, model.RoleCoordinator); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, _ := s.GetByID(inst.ID)
	if got.Coordinator != nil {
		t.Errorf("coordinator = %+v, want nil", got.Coordinator)
	}

	// Removing again, or removing a role never assigned, is fine.
	if err := s.RemoveAssignment(inst.ID, model.RoleCoordinator); err != nil {
		t.Errorf("second remove: %v", err)
	}
	if err := s.RemoveAssignment(inst.ID, model.RoleCoCoordinator); err != nil {
		t.Errorf("remove absent role: %v", err)
	}
}
