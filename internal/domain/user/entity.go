package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can review timesheets and correct punches
	RoleEmployee Role = "employee" // Punches own clock
)
