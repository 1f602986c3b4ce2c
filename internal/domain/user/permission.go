package user

type Permission string

const (
	// Clock
	PermissionClockPunch   Permission = "clock.punch"
	PermissionClockViewOwn Permission = "clock.view_own"

	// Time entries
	PermissionTimeEntryViewAll Permission = "time_entry.view_all"
	PermissionTimeEntryCorrect Permission = "time_entry.correct"

	// Timesheets
	PermissionTimesheetViewAll Permission = "timesheet.view_all"
	PermissionDashboardView    Permission = "dashboard.view"

	// Employee Management
	PermissionEmployeeManagePIN Permission = "employee.manage_pin"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionClockPunch,
		PermissionClockViewOwn,
		PermissionTimeEntryViewAll,
		PermissionTimeEntryCorrect,
		PermissionTimesheetViewAll,
		PermissionDashboardView,
		PermissionEmployeeManagePIN,
	},
	RoleManager: {
		PermissionClockPunch,
		PermissionClockViewOwn,
		PermissionTimeEntryViewAll,
		PermissionTimeEntryCorrect,
		PermissionTimesheetViewAll,
		PermissionDashboardView,
	},
	RoleEmployee: {
		PermissionClockPunch,
		PermissionClockViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
