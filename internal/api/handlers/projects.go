package handlers

import (
	"net/http"

	"github.com/hugh/go-taskboard/internal/api/dto"
	"github.com/hugh/go-taskboard/internal/api/middleware"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/projects"
)

type ProjectHandler struct {
	projects *projects.Service
}

func NewProjectHandler(svc *projects.Service) *ProjectHandler {
	return &ProjectHandler{projects: svc}
}

// List returns the caller's projects with the caller's role in each.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	memberships, err := h.projects.ListProjects(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.NewProjectSummaries(memberships)))
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if !decode(w, r, &req) {
		return
	}

	project, err := h.projects.CreateProject(r.Context(), middleware.GetUserID(r.Context()), projects.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      models.ProjectStatus(req.Status),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewProjectResponse(project))
}

// Get returns the project with its members, boards and tasks.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(r.Context(), middleware.GetUserID(r.Context()), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewProjectDetailResponse(project))
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !decode(w, r, &req) {
		return
	}

	project, err := h.projects.UpdateProject(r.Context(), middleware.GetUserID(r.Context()), projectID, req.Changes())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewProjectResponse(project))
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(r.Context(), middleware.GetUserID(r.Context()), projectID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.projects.ListMembers(r.Context(), middleware.GetUserID(r.Context()), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.NewMemberResponses(members)))
}

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !decode(w, r, &req) {
		return
	}

	member, err := h.projects.AddMember(r.Context(), middleware.GetUserID(r.Context()), projectID, req.ParsedUserID(), models.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewMemberResponse(*member))
}

func (h *ProjectHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if !decode(w, r, &req) {
		return
	}

	member, err := h.projects.UpdateMemberRole(r.Context(), middleware.GetUserID(r.Context()), projectID, userID, models.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewMemberResponse(*member))
}

func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.projects.RemoveMember(r.Context(), middleware.GetUserID(r.Context()), projectID, userID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
