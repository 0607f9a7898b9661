package seed_test

import (
	"testing"

	"github.com/hugh/go-taskboard/internal/auth"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/seed"
	"github.com/hugh/go-taskboard/internal/store"
	"github.com/hugh/go-taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	st := store.New(db)
	ctx := testutil.TestContext(t)

	res, err := seed.Run(ctx, st, nil)
	require.NoError(t, err)
	require.False(t, res.Skipped)
	require.Len(t, res.Users, 2)
	require.Len(t, res.Tasks, 2)

	alice, bob := res.Users[0], res.Users[1]
	assert.True(t, auth.CheckPassword(seed.DemoPassword, alice.PasswordHash))

	members, err := st.ListMembers(ctx, res.Project.ID)
	require.NoError(t, err)
	roles := map[string]models.Role{}
	for _, m := range members {
		roles[m.User.Username] = m.Role
	}
	assert.Equal(t, map[string]models.Role{"alice": models.RoleOwner, "bob": models.RoleMember}, roles)

	tasks, err := st.ListTasks(ctx, res.Board.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Design mockups", tasks[0].Title)
	assert.Equal(t, "Implement frontend", tasks[1].Title)
	for _, task := range tasks {
		require.NotNil(t, task.AssigneeID)
		assert.Equal(t, bob.ID, *task.AssigneeID)
		assert.Equal(t, alice.ID, task.CreatorID)
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	st := store.New(db)
	ctx := testutil.TestContext(t)

	_, err := seed.Run(ctx, st, nil)
	require.NoError(t, err)

	res, err := seed.Run(ctx, st, nil)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	projects, err := st.ListProjectsForUser(ctx, mustFindUser(t, st, "alice").ID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestRun_FailureLeavesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	st := store.New(db)
	ctx := testutil.TestContext(t)

	// bob is taken by someone else, so Run fails after creating alice.
	testutil.CreateTestUser(t, db, "bob")

	_, err := seed.Run(ctx, st, nil)
	require.ErrorIs(t, err, store.ErrUsernameTaken)

	_, err = st.FindUserByLogin(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	users, total, err := st.ListUsers(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "bob", users[0].Username)
}

func mustFindUser(t *testing.T, st *store.Store, login string) *models.User {
	t.Helper()
	user, err := st.FindUserByLogin(testutil.TestContext(t), login)
	require.NoError(t, err)
	return user
}
