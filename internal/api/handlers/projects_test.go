package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/api/dto"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createProject posts a project as the given user and returns its id.
func createProject(t *testing.T, router http.Handler, token, name string) string {
	t.Helper()

	rr := serve(t, router, testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects", map[string]string{
		"name": name,
	}, token))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp dto.ProjectResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	return resp.ID
}

func TestProjectHandler_CreateAndList(t *testing.T) {
	router, tc := newTestServer(t)

	t.Run("create", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects", map[string]string{
			"name":        "  Website Redesign ",
			"description": "New marketing site",
		}, tc.Token))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var resp dto.ProjectResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Website Redesign", resp.Name)
		assert.Equal(t, string(models.ProjectStatusActive), resp.Status)
	})

	t.Run("missing name", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects", map[string]string{
			"description": "no name",
		}, tc.Token))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rr := serve(t, router, testutil.UnauthenticatedRequest(t, "POST", "/api/v1/projects", map[string]string{
			"name": "Nope",
		}))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("list carries the caller's role", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "GET", "/api/v1/projects", nil, tc.Token))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp dto.ListResponse[dto.ProjectSummary]
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "Website Redesign", resp.Data[0].Name)
		assert.Equal(t, string(models.RoleOwner), resp.Data[0].Role)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		_, bobToken := tc.NewUser(t, "bob")

		rr := serve(t, router, testutil.AuthenticatedRequest(t, "GET", "/api/v1/projects", nil, bobToken))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp dto.ListResponse[dto.ProjectSummary]
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, 0, resp.Total)
		assert.NotNil(t, resp.Data)
	})
}

func TestProjectHandler_Access(t *testing.T) {
	router, tc := newTestServer(t)
	projectID := createProject(t, router, tc.Token, "Website Redesign")
	_, bobToken := tc.NewUser(t, "bob")

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		token      string
		wantStatus int
	}{
		{"owner reads", "GET", "/api/v1/projects/" + projectID, nil, tc.Token, http.StatusOK},
		{"outsider reads", "GET", "/api/v1/projects/" + projectID, nil, bobToken, http.StatusForbidden},
		{"outsider updates", "PATCH", "/api/v1/projects/" + projectID, map[string]string{"name": "Mine"}, bobToken, http.StatusForbidden},
		{"outsider deletes", "DELETE", "/api/v1/projects/" + projectID, nil, bobToken, http.StatusForbidden},
		{"outsider lists boards", "GET", "/api/v1/projects/" + projectID + "/boards", nil, bobToken, http.StatusForbidden},
		{"outsider creates board", "POST", "/api/v1/projects/" + projectID + "/boards", map[string]string{"title": "Backlog"}, bobToken, http.StatusForbidden},
		{"missing project", "GET", "/api/v1/projects/" + uuid.NewString(), nil, tc.Token, http.StatusNotFound},
		{"malformed id", "GET", "/api/v1/projects/not-a-uuid", nil, tc.Token, http.StatusBadRequest},
		{"no token", "GET", "/api/v1/projects/" + projectID, nil, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, router, testutil.AuthenticatedRequest(t, tt.method, tt.path, tt.body, tt.token))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}

	// Nothing the outsider sent may have landed.
	rr := serve(t, router, testutil.AuthenticatedRequest(t, "GET", "/api/v1/projects/"+projectID, nil, tc.Token))
	require.Equal(t, http.StatusOK, rr.Code)

	var detail dto.ProjectDetailResponse
	testutil.ParseJSONResponse(t, rr, &detail)
	assert.Equal(t, "Website Redesign", detail.Name)
	assert.Empty(t, detail.Boards)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, "alice", detail.Members[0].Username)
}

func TestProjectHandler_Update(t *testing.T) {
	router, tc := newTestServer(t)
	projectID := createProject(t, router, tc.Token, "Website Redesign")

	rr := serve(t, router, testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/projects/"+projectID, map[string]string{
		"status": "completed",
	}, tc.Token))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp dto.ProjectResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "Website Redesign", resp.Name)
	assert.Equal(t, "completed", resp.Status)

	rr = serve(t, router, testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/projects/"+projectID, map[string]string{
		"status": "frozen",
	}, tc.Token))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProjectHandler_Members(t *testing.T) {
	router, tc := newTestServer(t)
	projectID := createProject(t, router, tc.Token, "Website Redesign")
	bob, bobToken := tc.NewUser(t, "bob")
	membersPath := "/api/v1/projects/" + projectID + "/members"
	bobPath := fmt.Sprintf("%s/%s", membersPath, bob.ID)

	t.Run("member cannot add members", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "POST", membersPath, map[string]string{
			"user_id": bob.ID.String(),
		}, bobToken))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("owner adds member with default role", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "POST", membersPath, map[string]string{
			"user_id": bob.ID.String(),
		}, tc.Token))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var resp dto.MemberResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, bob.ID.String(), resp.UserID)
		assert.Equal(t, string(models.RoleMember), resp.Role)
	})

	t.Run("adding twice conflicts", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "POST", membersPath, map[string]string{
			"user_id": bob.ID.String(),
		}, tc.Token))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "PATCH", bobPath, map[string]string{
			"role": "admin",
		}, tc.Token))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("member sees project but not the member list", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "GET", "/api/v1/projects/"+projectID, nil, bobToken))
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = serve(t, router, testutil.AuthenticatedRequest(t, "GET", membersPath, nil, bobToken))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("owner lists members", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "GET", membersPath, nil, tc.Token))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp dto.ListResponse[dto.MemberResponse]
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("restrict member", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "PATCH", bobPath, map[string]string{
			"role": "restricted",
		}, tc.Token))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = serve(t, router, testutil.AuthenticatedRequest(t, "GET", "/api/v1/projects/"+projectID, nil, bobToken))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("last owner cannot be demoted", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "PATCH", fmt.Sprintf("%s/%s", membersPath, tc.User.ID), map[string]string{
			"role": "member",
		}, tc.Token))
		assert.Equal(t, http.StatusConflict, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Project must keep at least one owner", resp.Error)
	})

	t.Run("remove member", func(t *testing.T) {
		rr := serve(t, router, testutil.AuthenticatedRequest(t, "DELETE", bobPath, nil, tc.Token))
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = serve(t, router, testutil.AuthenticatedRequest(t, "DELETE", bobPath, nil, tc.Token))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestProjectHandler_Delete(t *testing.T) {
	router, tc := newTestServer(t)
	projectID := createProject(t, router, tc.Token, "Short Lived")
	bob, bobToken := tc.NewUser(t, "bob")

	rr := serve(t, router, testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/"+projectID+"/members", map[string]string{
		"user_id": bob.ID.String(),
	}, tc.Token))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(t, router, testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/"+projectID+"/boards", map[string]string{
		"title": "Backlog",
	}, tc.Token))
	require.Equal(t, http.StatusCreated, rr.Code)

	var board dto.BoardResponse
	testutil.ParseJSONResponse(t, rr, &board)

	rr = serve(t, router, testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/projects/"+projectID, nil, bobToken))
	assert.Equal(t, http.StatusForbidden, rr.Code, "members cannot delete projects")

	rr = serve(t, router, testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/projects/"+projectID, nil, tc.Token))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(t, router, testutil.AuthenticatedRequest(t, "GET", "/api/v1/projects/"+projectID, nil, tc.Token))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(t, router, testutil.AuthenticatedRequest(t, "GET", "/api/v1/boards/"+board.ID, nil, tc.Token))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
