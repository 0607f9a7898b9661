package access

import (
	"testing"

	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCan(t *testing.T) {
	tests := []struct {
		action     Action
		owner      bool
		member     bool
		restricted bool
	}{
		{ActionViewProject, true, true, false},
		{ActionUpdateProject, true, false, false},
		{ActionDeleteProject, true, false, false},
		{ActionManageMembers, true, false, false},
		{ActionManageBoards, true, true, false},
		{ActionManageTasks, true, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.owner, Can(models.RoleOwner, tt.action), "owner")
			assert.Equal(t, tt.member, Can(models.RoleMember, tt.action), "member")
			assert.Equal(t, tt.restricted, Can(models.RoleRestricted, tt.action), "restricted")
		})
	}
}

func TestCan_UnknownInputs(t *testing.T) {
	assert.False(t, Can(models.Role("admin"), ActionViewProject))
	assert.False(t, Can(models.RoleOwner, Action("project:archive")))
	assert.False(t, Can("", ActionManageTasks))
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"owner", "member", "restricted"} {
		role, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, models.Role(s), role)
	}

	_, err := ParseRole("admin")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}
