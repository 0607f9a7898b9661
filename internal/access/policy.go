// Package access decides what a project member may do. Every rule lives in
// the permissions table below; callers ask Can or go through an Authorizer
// and never compare roles themselves.
package access

import (
	"fmt"
	"slices"

	"github.com/hugh/go-taskboard/internal/database/models"
)

// Action is a role-gated operation on a project or anything under it.
type Action string

const (
	ActionViewProject   Action = "project:view"
	ActionUpdateProject Action = "project:update"
	ActionDeleteProject Action = "project:delete"
	ActionManageMembers Action = "members:manage"
	ActionManageBoards  Action = "boards:manage"
	ActionManageTasks   Action = "tasks:manage"
)

var permissions = map[Action][]models.Role{
	ActionViewProject:   {models.RoleOwner, models.RoleMember},
	ActionUpdateProject: {models.RoleOwner},
	ActionDeleteProject: {models.RoleOwner},
	ActionManageMembers: {models.RoleOwner},
	ActionManageBoards:  {models.RoleOwner, models.RoleMember},
	ActionManageTasks:   {models.RoleOwner, models.RoleMember},
}

// Can reports whether role grants action. Unknown roles and actions are
// denied.
func Can(role models.Role, action Action) bool {
	return slices.Contains(permissions[action], role)
}

// ParseRole converts user input into a Role.
func ParseRole(s string) (models.Role, error) {
	role := models.Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}
