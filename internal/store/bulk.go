package store

import (
	"fmt"
)

// Bulk deletion scopes.
const (
	ScopeMonth  = "month"
	ScopeType   = "type"
	ScopeSeries = "series"
	ScopeAll    = "all"
)

func ValidScope(s string) bool {
	return s == ScopeMonth || s == ScopeType || s == ScopeSeries || s == ScopeAll
}

// BulkFilter selects a slice of the calendar for counting or deleting.
// For the series scope a nil SourceID targets the unlinked series, which is
// distinct from instances linked to any source.
type BulkFilter struct {
	Scope    string
	Year     int
	Month    int
	Type     string
	SourceID *int64
}

// where translates the filter into a predicate. ok is false when required
// scope fields are missing or the scope is unknown; such filters match zero
// rows rather than erroring, so a preview is always safe to render.
// Count and delete both go through here, so the previewed count cannot
// drift from what delete removes.
func (f BulkFilter) where() (clause string, args []any, ok bool) {
	switch f.Scope {
	case ScopeMonth:
		if f.Year == 0 || f.Month == 0 {
			return "", nil, false
		}
		from, to := monthBounds(f.Year, &f.Month)
		return "date >= ? AND date <= ?", []any{from, to}, true
	case ScopeType:
		if f.Type == "" {
			return "", nil, false
		}
		return "type = ?", []any{f.Type}, true
	case ScopeSeries:
		if f.Type == "" {
			return "", nil, false
		}
		if f.SourceID == nil {
			return "type = ? AND source_id IS NULL", []any{f.Type}, true
		}
		return "type = ? AND source_id = ?", []any{f.Type, *f.SourceID}, true
	case ScopeAll:
		return "1 = 1", nil, true
	}
	return "", nil, false
}

// CountBulk is the dry run: how many instances the filter would delete.
func (s *InstanceStore) CountBulk(f BulkFilter) (int64, error) {
	clause, args, ok := f.where()
	if !ok {
		return 0, nil
	}

	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM calendar_instances WHERE "+clause, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count instances: %w", err)
	}
	return count, nil
}

// DeleteBulk removes every instance the filter matches in one statement
// and reports how many went away. Assignments cascade with their instance.
func (s *InstanceStore) DeleteBulk(f BulkFilter) (int64, error) {
	clause, args, ok := f.where()
	if !ok {
		return 0, nil
	}

	result, err := s.db.Exec("DELETE FROM calendar_instances WHERE "+clause, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk delete instances: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return deleted, nil
}
