package model

import "time"

// Module categories a calendar instance can belong to.
const (
	ModuleGroup    = "group"
	ModuleWorkshop = "workshop"
	ModuleActivity = "activity"
)

// Instance lifecycle states. Instances are created as StatusScheduled and
// only move to done/cancelled through an explicit update.
const (
	StatusScheduled = "scheduled"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
)

// Assignment roles. Activity instances never carry either role.
const (
	RoleCoordinator   = "coordinator"
	RoleCoCoordinator = "co_coordinator"
)

// CalendarInstance is one concrete dated occurrence of a schedulable program.
// Date is a civil day ("2006-01-02") and the times are local times of day
// ("15:04"); no UTC conversion happens anywhere in this subsystem.
type CalendarInstance struct {
	ID            int64       `json:"id"`
	Type          string      `json:"type"`
	SourceID      *int64      `json:"source_id"`
	Date          string      `json:"date"`
	StartTime     string      `json:"start_time"`
	EndTime       string      `json:"end_time"`
	Notes         string      `json:"notes"`
	Status        string      `json:"status"`
	Coordinator   *Assignment `json:"coordinator"`
	CoCoordinator *Assignment `json:"co_coordinator"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Assignment links a volunteer to an instance in a given role.
type Assignment struct {
	VolunteerID int64  `json:"volunteer_id"`
	Name        string `json:"name"`
}

func ValidModule(s string) bool {
	return s == ModuleGroup || s == ModuleWorkshop || s == ModuleActivity
}

func ValidStatus(s string) bool {
	return s == StatusScheduled || s == StatusDone || s == StatusCancelled
}

func ValidRole(s string) bool {
	return s == RoleCoordinator || s == RoleCoCoordinator
}
