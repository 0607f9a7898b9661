package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/api/validation"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/store"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 256
)

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

func (r *CreateProjectRequest) Normalize() {
	r.Name = validation.CleanTitle(r.Name)
	r.Description = validation.SanitizeString(r.Description)
}

func (r CreateProjectRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	} else if validation.TooLong(r.Name, maxNameLength) {
		errors["name"] = "Name must be at most 100 characters"
	}
	if validation.TooLong(r.Description, maxDescriptionLength) {
		errors["description"] = "Description must be at most 256 characters"
	}
	if r.Status != "" && !models.ProjectStatus(r.Status).IsValid() {
		errors["status"] = "Status must be one of active, completed, paused"
	}

	return errors
}

// UpdateProjectRequest is a partial update; omitted fields are unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (r *UpdateProjectRequest) Normalize() {
	if r.Name != nil {
		name := validation.CleanTitle(*r.Name)
		r.Name = &name
	}
	if r.Description != nil {
		desc := validation.SanitizeString(*r.Description)
		r.Description = &desc
	}
}

func (r UpdateProjectRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name != nil {
		if *r.Name == "" {
			errors["name"] = "Name cannot be empty"
		} else if validation.TooLong(*r.Name, maxNameLength) {
			errors["name"] = "Name must be at most 100 characters"
		}
	}
	if r.Description != nil && validation.TooLong(*r.Description, maxDescriptionLength) {
		errors["description"] = "Description must be at most 256 characters"
	}
	if r.Status != nil && !models.ProjectStatus(*r.Status).IsValid() {
		errors["status"] = "Status must be one of active, completed, paused"
	}

	return errors
}

func (r UpdateProjectRequest) Changes() store.ProjectChanges {
	changes := store.ProjectChanges{Name: r.Name, Description: r.Description}
	if r.Status != nil {
		status := models.ProjectStatus(*r.Status)
		changes.Status = &status
	}
	return changes
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProjectResponse(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProjectSummary is a project as seen by one of its members.
type ProjectSummary struct {
	ProjectResponse
	Role string `json:"role"`
}

func NewProjectSummary(m models.ProjectMember) ProjectSummary {
	summary := ProjectSummary{Role: string(m.Role)}
	if m.Project != nil {
		summary.ProjectResponse = NewProjectResponse(m.Project)
	}
	return summary
}

func NewProjectSummaries(memberships []models.ProjectMember) []ProjectSummary {
	return mapSlice(memberships, NewProjectSummary)
}

type ProjectDetailResponse struct {
	ProjectResponse
	Members []MemberResponse `json:"members"`
	Boards  []BoardResponse  `json:"boards"`
}

func NewProjectDetailResponse(p *models.Project) ProjectDetailResponse {
	return ProjectDetailResponse{
		ProjectResponse: NewProjectResponse(p),
		Members:         NewMemberResponses(p.Members),
		Boards: mapSlice(p.Boards, func(b models.Board) BoardResponse {
			return NewBoardResponse(&b, true)
		}),
	}
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

func (r AddMemberRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.UserID == "" {
		errors["user_id"] = "User ID is required"
	} else if _, err := uuid.Parse(r.UserID); err != nil {
		errors["user_id"] = "Invalid user ID"
	}
	if r.Role != "" && !models.Role(r.Role).IsValid() {
		errors["role"] = "Role must be one of owner, member, restricted"
	}

	return errors
}

// ParsedUserID assumes Validate passed.
func (r AddMemberRequest) ParsedUserID() uuid.UUID {
	id, _ := uuid.Parse(r.UserID)
	return id
}

type UpdateMemberRequest struct {
	Role string `json:"role"`
}

func (r UpdateMemberRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Role == "" {
		errors["role"] = "Role is required"
	} else if !models.Role(r.Role).IsValid() {
		errors["role"] = "Role must be one of owner, member, restricted"
	}
	return errors
}

type MemberResponse struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func NewMemberResponse(m models.ProjectMember) MemberResponse {
	resp := MemberResponse{
		UserID:   m.UserID.String(),
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
	if m.User != nil {
		resp.Username = m.User.Username
		resp.Email = m.User.Email
	}
	return resp
}

func NewMemberResponses(members []models.ProjectMember) []MemberResponse {
	return mapSlice(members, NewMemberResponse)
}
