package projects_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/access"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/projects"
	"github.com/hugh/go-taskboard/internal/store"
	"github.com/hugh/go-taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_AliceBuildsABoard(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)
	alice := tc.User
	bob, _ := tc.NewUser(t, "bob")

	project, err := tc.Projects.CreateProject(ctx, alice.ID, projects.ProjectInput{Name: "P"})
	require.NoError(t, err)

	members, err := tc.Projects.ListMembers(ctx, alice.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, alice.ID, members[0].UserID)
	assert.Equal(t, models.RoleOwner, members[0].Role)

	board, err := tc.Projects.CreateBoard(ctx, alice.ID, project.ID, projects.BoardInput{Title: "Backlog"})
	require.NoError(t, err)

	task, err := tc.Projects.CreateTask(ctx, alice.ID, board.ID, projects.TaskInput{Title: "T1"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Nil(t, task.AssigneeID)
	assert.Equal(t, alice.ID, task.CreatorID)

	_, err = tc.Projects.UpdateTask(ctx, alice.ID, task.ID, store.TaskChanges{AssigneeID: &bob.ID})
	assert.ErrorIs(t, err, access.ErrAssigneeNotMember)
	assert.ErrorIs(t, err, store.ErrConflict)

	unchanged, err := tc.Projects.GetTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Nil(t, unchanged.AssigneeID)
}

func TestService_OutsiderIsForbidden(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)
	alice := tc.User
	bob, _ := tc.NewUser(t, "bob")

	project := testutil.CreateTestProject(t, tc.Store, alice, "P")
	board := testutil.CreateTestBoard(t, tc.Store, project.ID, "Backlog")
	task := testutil.CreateTestTask(t, tc.Store, board.ID, alice.ID, "T1")

	title := "Renamed"
	calls := map[string]func() error{
		"get project": func() error {
			_, err := tc.Projects.GetProject(ctx, bob.ID, project.ID)
			return err
		},
		"update project": func() error {
			_, err := tc.Projects.UpdateProject(ctx, bob.ID, project.ID, store.ProjectChanges{Name: &title})
			return err
		},
		"delete project": func() error {
			return tc.Projects.DeleteProject(ctx, bob.ID, project.ID)
		},
		"list members": func() error {
			_, err := tc.Projects.ListMembers(ctx, bob.ID, project.ID)
			return err
		},
		"add member": func() error {
			_, err := tc.Projects.AddMember(ctx, bob.ID, project.ID, bob.ID, models.RoleOwner)
			return err
		},
		"create board": func() error {
			_, err := tc.Projects.CreateBoard(ctx, bob.ID, project.ID, projects.BoardInput{Title: "Mine"})
			return err
		},
		"update board": func() error {
			_, err := tc.Projects.UpdateBoard(ctx, bob.ID, board.ID, store.BoardChanges{Title: &title})
			return err
		},
		"delete board": func() error {
			return tc.Projects.DeleteBoard(ctx, bob.ID, board.ID)
		},
		"create task": func() error {
			_, err := tc.Projects.CreateTask(ctx, bob.ID, board.ID, projects.TaskInput{Title: "T2"})
			return err
		},
		"get task": func() error {
			_, err := tc.Projects.GetTask(ctx, bob.ID, task.ID)
			return err
		},
		"update task": func() error {
			_, err := tc.Projects.UpdateTask(ctx, bob.ID, task.ID, store.TaskChanges{Title: &title})
			return err
		},
		"delete task": func() error {
			return tc.Projects.DeleteTask(ctx, bob.ID, task.ID)
		},
		"comment": func() error {
			_, err := tc.Projects.AddComment(ctx, bob.ID, task.ID, "hello")
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), access.ErrForbidden)
		})
	}

	// Nothing was written.
	reloaded, err := tc.Store.GetProjectDetails(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "P", reloaded.Name)
	require.Len(t, reloaded.Boards, 1)
	assert.Equal(t, "Backlog", reloaded.Boards[0].Title)
	assert.Len(t, reloaded.Boards[0].Tasks, 1)
	assert.Len(t, reloaded.Members, 1)
}

func TestService_MemberPermissions(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)
	alice := tc.User
	bob, _ := tc.NewUser(t, "bob")
	carol, _ := tc.NewUser(t, "carol")

	project := testutil.CreateTestProject(t, tc.Store, alice, "P")
	testutil.AddTestMember(t, tc.Store, project.ID, bob, models.RoleMember)

	board, err := tc.Projects.CreateBoard(ctx, bob.ID, project.ID, projects.BoardInput{Title: "Bob's board"})
	require.NoError(t, err, "members organise boards")

	task, err := tc.Projects.CreateTask(ctx, bob.ID, board.ID, projects.TaskInput{Title: "T", AssigneeID: &alice.ID})
	require.NoError(t, err)
	require.NotNil(t, task.Assignee)
	assert.Equal(t, "alice", task.Assignee.Username)

	_, err = tc.Projects.AddMember(ctx, bob.ID, project.ID, carol.ID, models.RoleMember)
	assert.ErrorIs(t, err, access.ErrForbidden, "only owners manage members")

	name := "Bob's project"
	_, err = tc.Projects.UpdateProject(ctx, bob.ID, project.ID, store.ProjectChanges{Name: &name})
	assert.ErrorIs(t, err, access.ErrForbidden)

	assert.ErrorIs(t, tc.Projects.DeleteProject(ctx, bob.ID, project.ID), access.ErrForbidden)

	details, err := tc.Projects.GetProject(ctx, bob.ID, project.ID)
	require.NoError(t, err)
	assert.Len(t, details.Members, 2)
}

func TestService_RestrictedMember(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)
	alice := tc.User
	dave, _ := tc.NewUser(t, "dave")

	project := testutil.CreateTestProject(t, tc.Store, alice, "P")
	testutil.AddTestMember(t, tc.Store, project.ID, dave, models.RoleRestricted)
	board := testutil.CreateTestBoard(t, tc.Store, project.ID, "Backlog")

	_, err := tc.Projects.GetProject(ctx, dave.ID, project.ID)
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = tc.Projects.CreateTask(ctx, dave.ID, board.ID, projects.TaskInput{Title: "T"})
	assert.ErrorIs(t, err, access.ErrForbidden)

	task, err := tc.Projects.CreateTask(ctx, alice.ID, board.ID, projects.TaskInput{Title: "T", AssigneeID: &dave.ID})
	require.NoError(t, err, "restricted members can still be assigned")
	assert.Equal(t, dave.ID, *task.AssigneeID)
}

func TestService_MissingResources(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	_, err := tc.Projects.GetProject(ctx, tc.User.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = tc.Projects.GetBoard(ctx, tc.User.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, tc.Projects.DeleteTask(ctx, tc.User.ID, uuid.New()), store.ErrNotFound)

	project := testutil.CreateTestProject(t, tc.Store, tc.User, "P")
	assert.ErrorIs(t, tc.Projects.RemoveMember(ctx, tc.User.ID, project.ID, uuid.New()), store.ErrNotFound)
}

func TestService_MemberLifecycle(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)
	alice := tc.User
	bob, _ := tc.NewUser(t, "bob")

	project := testutil.CreateTestProject(t, tc.Store, alice, "P")
	board := testutil.CreateTestBoard(t, tc.Store, project.ID, "Backlog")

	member, err := tc.Projects.AddMember(ctx, alice.ID, project.ID, bob.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, member.Role)

	_, err = tc.Projects.AddMember(ctx, alice.ID, project.ID, bob.ID, models.RoleMember)
	assert.ErrorIs(t, err, store.ErrConflict)

	task, err := tc.Projects.CreateTask(ctx, alice.ID, board.ID, projects.TaskInput{Title: "T", AssigneeID: &bob.ID})
	require.NoError(t, err)

	_, err = tc.Projects.UpdateMemberRole(ctx, alice.ID, project.ID, alice.ID, models.RoleMember)
	assert.ErrorIs(t, err, store.ErrLastOwner)

	require.NoError(t, tc.Projects.RemoveMember(ctx, alice.ID, project.ID, bob.ID))

	reloaded, err := tc.Projects.GetTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.AssigneeID)

	_, err = tc.Projects.GetProject(ctx, bob.ID, project.ID)
	assert.ErrorIs(t, err, access.ErrForbidden)
}

func TestService_DeleteProject(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	project := testutil.CreateTestProject(t, tc.Store, tc.User, "P")
	board := testutil.CreateTestBoard(t, tc.Store, project.ID, "Backlog")
	task := testutil.CreateTestTask(t, tc.Store, board.ID, tc.User.ID, "T1")

	require.NoError(t, tc.Projects.DeleteProject(ctx, tc.User.ID, project.ID))

	_, err := tc.Store.GetBoard(ctx, board.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = tc.Store.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = tc.Projects.DeleteProject(ctx, tc.User.ID, project.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	memberships, err := tc.Projects.ListProjects(ctx, tc.User.ID)
	require.NoError(t, err)
	assert.Empty(t, memberships)
}

func TestService_Comments(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	project := testutil.CreateTestProject(t, tc.Store, tc.User, "P")
	board := testutil.CreateTestBoard(t, tc.Store, project.ID, "Backlog")
	task := testutil.CreateTestTask(t, tc.Store, board.ID, tc.User.ID, "T1")

	comment, err := tc.Projects.AddComment(ctx, tc.User.ID, task.ID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, tc.User.ID, comment.AuthorID)

	comments, err := tc.Projects.ListComments(ctx, tc.User.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "alice", comments[0].Author.Username)
}
