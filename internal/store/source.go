package store

import (
	"database/sql"
	"fmt"

	"github.com/rosavera/centro/internal/model"
)

// SourceStore reads the catalogue of schedulable items (groups, workshops,
// activities). The scheduling core only needs ids and display names.
type SourceStore struct {
	db *sql.DB
}

func NewSourceStore(db *sql.DB) *SourceStore {
	return &SourceStore{db: db}
}

const sourceCols = `id, type, name, created_at, updated_at`

func scanSource(scanner interface{ Scan(...any) error }) (*model.Source, error) {
	var src model.Source
	err := scanner.Scan(&src.ID, &src.Type, &src.Name, &src.CreatedAt, &src.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &src, nil
}

func (s *SourceStore) Create(typ, name string) (*model.Source, error) {
	result, err := s.db.Exec(`INSERT INTO sources (type, name) VALUES (?, ?)`, typ, name)
	if err != nil {
		return nil, fmt.Errorf("insert source: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *SourceStore) GetByID(id int64) (*model.Source, error) {
	row := s.db.QueryRow(`SELECT `+sourceCols+` FROM sources WHERE id = ?`, id)
	src, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return src, nil
}

// List returns catalogue items, optionally narrowed to one module type.
func (s *SourceStore) List(typ string) ([]model.Source, error) {
	query := `SELECT ` + sourceCols + ` FROM sources`
	var args []any
	if typ != "" {
		query += ` WHERE type = ?`
		args = append(args, typ)
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []model.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, *src)
	}
	return sources, rows.Err()
}

// NameIndex returns display names keyed by module type and id, the shape
// the recurrence generators resolve labels from.
func (s *SourceStore) NameIndex() (map[string]map[int64]string, error) {
	sources, err := s.List("")
	if err != nil {
		return nil, err
	}
	index := make(map[string]map[int64]string)
	for _, src := range sources {
		if index[src.Type] == nil {
			index[src.Type] = make(map[int64]string)
		}
		index[src.Type][src.ID] = src.Name
	}
	return index, nil
}
