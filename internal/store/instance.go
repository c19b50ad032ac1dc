package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rosavera/centro/internal/model"
)

// InstanceStore persists calendar instances and their role assignments.
// It is the single source of truth: callers re-read the affected window
// after every mutation instead of patching a local copy.
type InstanceStore struct {
	db *sql.DB
}

func NewInstanceStore(db *sql.DB) *InstanceStore {
	return &InstanceStore{db: db}
}

const instanceSelect = `
SELECT i.id, i.type, i.source_id, i.date, i.start_time, i.end_time, i.notes, i.status,
       i.created_at, i.updated_at,
       ca.volunteer_id, cav.name, cca.volunteer_id, ccav.name
FROM calendar_instances i
LEFT JOIN calendar_assignments ca ON ca.instance_id = i.id AND ca.role = 'coordinator'
LEFT JOIN volunteers cav ON cav.id = ca.volunteer_id
LEFT JOIN calendar_assignments cca ON cca.instance_id = i.id AND cca.role = 'co_coordinator'
LEFT JOIN volunteers ccav ON ccav.id = cca.volunteer_id`

func scanInstance(scanner interface{ Scan(...any) error }) (*model.CalendarInstance, error) {
	var inst model.CalendarInstance
	var sourceID, coordID, coCoordID sql.NullInt64
	var coordName, coCoordName sql.NullString

	err := scanner.Scan(
		&inst.ID, &inst.Type, &sourceID, &inst.Date, &inst.StartTime, &inst.EndTime,
		&inst.Notes, &inst.Status, &inst.CreatedAt, &inst.UpdatedAt,
		&coordID, &coordName, &coCoordID, &coCoordName,
	)
	if err != nil {
		return nil, err
	}

	if sourceID.Valid {
		inst.SourceID = &sourceID.Int64
	}
	if coordID.Valid {
		inst.Coordinator = &model.Assignment{VolunteerID: coordID.Int64, Name: coordName.String}
	}
	if coCoordID.Valid {
		inst.CoCoordinator = &model.Assignment{VolunteerID: coCoordID.Int64, Name: coCoordName.String}
	}
	return &inst, nil
}

// InstanceFilter narrows a listing by module type and/or assigned volunteer.
type InstanceFilter struct {
	Type        string
	VolunteerID *int64
}

// monthBounds returns the inclusive civil-date bounds of a year or, when
// month is non-nil, of one month.
func monthBounds(year int, month *int) (string, string) {
	if month == nil {
		return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year)
	}
	last := time.Date(year, time.Month(*month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return fmt.Sprintf("%04d-%02d-01", year, *month),
		fmt.Sprintf("%04d-%02d-%02d", year, *month, last)
}

// List returns instances in the given year, optionally narrowed to one
// month, ordered ascending by date then start time. A nil month covers the
// whole year; conflict checks use that to read everything a generation
// window can touch.
func (s *InstanceStore) List(year int, month *int, f InstanceFilter) ([]model.CalendarInstance, error) {
	from, to := monthBounds(year, month)

	query := instanceSelect + `
WHERE i.date >= ? AND i.date <= ?`
	args := []any{from, to}

	if f.Type != "" {
		query += ` AND i.type = ?`
		args = append(args, f.Type)
	}
	if f.VolunteerID != nil {
		query += ` AND EXISTS (
    SELECT 1 FROM calendar_assignments a
    WHERE a.instance_id = i.id AND a.volunteer_id = ?)`
		args = append(args, *f.VolunteerID)
	}
	query += `
ORDER BY i.date ASC, i.start_time ASC, i.id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer rows.Close()

	var instances []model.CalendarInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		instances = append(instances, *inst)
	}
	return instances, rows.Err()
}

// CreateParams carries the fields of a new instance. An empty Status
// defaults to scheduled.
type CreateParams struct {
	Type      string
	SourceID  *int64
	Date      string
	StartTime string
	EndTime   string
	Notes     string
	Status    string
}

func (s *InstanceStore) Create(p CreateParams) (*model.CalendarInstance, error) {
	if p.Status == "" {
		p.Status = model.StatusScheduled
	}

	var sourceID sql.NullInt64
	if p.SourceID != nil {
		sourceID = sql.NullInt64{Int64: *p.SourceID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO calendar_instances (type, source_id, date, start_time, end_time, notes, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Type, sourceID, p.Date, p.StartTime, p.EndTime, p.Notes, p.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert instance: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *InstanceStore) GetByID(id int64) (*model.CalendarInstance, error) {
	row := s.db.QueryRow(instanceSelect+` WHERE i.id = ?`, id)
	inst, err := scanInstance(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query instance: %w", err)
	}
	return inst, nil
}

// UpdateParams carries a partial update: nil fields are left untouched. A
// non-nil SourceID with Valid=false clears the source link.
type UpdateParams struct {
	Type      *string
	SourceID  *sql.NullInt64
	Date      *string
	StartTime *string
	EndTime   *string
	Notes     *string
	Status    *string
}

func (s *InstanceStore) Update(id int64, p UpdateParams) (*model.CalendarInstance, error) {
	var sets []string
	var args []any

	if p.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *p.Type)
	}
	if p.SourceID != nil {
		sets = append(sets, "source_id = ?")
		args = append(args, *p.SourceID)
	}
	if p.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *p.Date)
	}
	if p.StartTime != nil {
		sets = append(sets, "start_time = ?")
		args = append(args, *p.StartTime)
	}
	if p.EndTime != nil {
		sets = append(sets, "end_time = ?")
		args = append(args, *p.EndTime)
	}
	if p.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *p.Notes)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if len(sets) == 0 {
		return s.GetByID(id)
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	_, err := s.db.Exec(
		"UPDATE calendar_instances SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update instance: %w", err)
	}
	return s.GetByID(id)
}

func (s *InstanceStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM calendar_instances WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete instance: %w", err)
	}
	return nil
}

// SetAssignment puts a volunteer into the given role on one instance.
// Overwrites any previous holder of that role (last write wins) and clears
// the same volunteer from the opposite role, so an actor never holds both
// roles on one instance. Activity instances have no coordinator notion:
// the call is a silent no-op for them.
func (s *InstanceStore) SetAssignment(instanceID int64, role string, volunteerID int64) error {
	var typ string
	err := s.db.QueryRow("SELECT type FROM calendar_instances WHERE id = ?", instanceID).Scan(&typ)
	if err == sql.ErrNoRows {
		return fmt.Errorf("set assignment: instance %d not found", instanceID)
	}
	if err != nil {
		return fmt.Errorf("set assignment: %w", err)
	}
	if typ == model.ModuleActivity {
		return nil
	}

	_, err = s.db.Exec(
		`INSERT INTO calendar_assignments (instance_id, volunteer_id, role)
		 VALUES (?, ?, ?)
		 ON CONFLICT (instance_id, role)
		 DO UPDATE SET volunteer_id = excluded.volunteer_id, updated_at = CURRENT_TIMESTAMP`,
		instanceID, volunteerID, role,
	)
	if err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}

	_, err = s.db.Exec(
		`DELETE FROM calendar_assignments
		 WHERE instance_id = ? AND volunteer_id = ? AND role != ?`,
		instanceID, volunteerID, role,
	)
	if err != nil {
		return fmt.Errorf("clear opposite role: %w", err)
	}
	return nil
}

// RemoveAssignment clears a role on one instance. Idempotent: removing an
// absent assignment is not an error.
func (s *InstanceStore) RemoveAssignment(instanceID int64, role string) error {
	_, err := s.db.Exec(
		"DELETE FROM calendar_assignments WHERE instance_id = ? AND role = ?",
		instanceID, role,
	)
	if err != nil {
		return fmt.Errorf("remove assignment: %w", err)
	}
	return nil
}
