package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	cases := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleOwner, PermissionEmployeeManagePIN, true},
		{RoleManager, PermissionTimeEntryCorrect, true},
		{RoleManager, PermissionEmployeeManagePIN, false},
		{RoleEmployee, PermissionClockPunch, true},
		{RoleEmployee, PermissionTimesheetViewAll, false},
		{Role("pending"), PermissionClockPunch, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, HasPermission(c.role, c.permission), "%s / %s", c.role, c.permission)
	}
}
