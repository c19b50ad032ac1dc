package auth

import "context"

// Account roles, ordered from most to least capable.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
	RoleVolunteer   = "volunteer"
)

// Calendar permissions.
const (
	PermCalendarCreate   = "calendar:create"
	PermCalendarEdit     = "calendar:edit"
	PermCalendarDelete   = "calendar:delete"
	PermCalendarGenerate = "calendar:generate"
)

var rolePerms = map[string]map[string]bool{
	RoleAdmin: {
		PermCalendarCreate:   true,
		PermCalendarEdit:     true,
		PermCalendarDelete:   true,
		PermCalendarGenerate: true,
	},
	RoleCoordinator: {
		PermCalendarCreate:   true,
		PermCalendarEdit:     true,
		PermCalendarGenerate: true,
	},
	RoleVolunteer: {},
}

// Can reports whether a role carries a permission. Unknown roles carry none.
func Can(role, perm string) bool {
	return rolePerms[role][perm]
}

// CanCtx checks the permission of whoever the context authenticates.
func CanCtx(ctx context.Context, perm string) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return Can(ac.Role, perm)
}
