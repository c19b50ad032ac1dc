package store

import (
	"database/sql"
	"fmt"

	"github.com/rosavera/centro/internal/model"
)

// VolunteerStore is the volunteer directory collaborator: id and name,
// enough to validate and render role assignments.
type VolunteerStore struct {
	db *sql.DB
}

func NewVolunteerStore(db *sql.DB) *VolunteerStore {
	return &VolunteerStore{db: db}
}

const volunteerCols = `id, name, created_at, updated_at`

func scanVolunteer(scanner interface{ Scan(...any) error }) (*model.Volunteer, error) {
	var v model.Volunteer
	err := scanner.Scan(&v.ID, &v.Name, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VolunteerStore) Create(name string) (*model.Volunteer, error) {
	result, err := s.db.Exec(`INSERT INTO volunteers (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("insert volunteer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *VolunteerStore) GetByID(id int64) (*model.Volunteer, error) {
	row := s.db.QueryRow(`SELECT `+volunteerCols+` FROM volunteers WHERE id = ?`, id)
	v, err := scanVolunteer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get volunteer: %w", err)
	}
	return v, nil
}

func (s *VolunteerStore) List() ([]model.Volunteer, error) {
	rows, err := s.db.Query(`SELECT ` + volunteerCols + ` FROM volunteers ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []model.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		volunteers = append(volunteers, *v)
	}
	return volunteers, rows.Err()
}
