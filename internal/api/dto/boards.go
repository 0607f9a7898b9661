package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/api/validation"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/store"
)

const (
	maxTitleLength   = 200
	maxCommentLength = 5000
)

type CreateBoardRequest struct {
	Title    string `json:"title"`
	Position *int   `json:"position,omitempty"`
}

func (r *CreateBoardRequest) Normalize() {
	r.Title = validation.CleanTitle(r.Title)
}

func (r CreateBoardRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Title == "" {
		errors["title"] = "Title is required"
	} else if validation.TooLong(r.Title, maxNameLength) {
		errors["title"] = "Title must be at most 100 characters"
	}
	if r.Position != nil && *r.Position < 0 {
		errors["position"] = "Position cannot be negative"
	}
	return errors
}

type UpdateBoardRequest struct {
	Title    *string `json:"title,omitempty"`
	Position *int    `json:"position,omitempty"`
}

func (r *UpdateBoardRequest) Normalize() {
	if r.Title != nil {
		title := validation.CleanTitle(*r.Title)
		r.Title = &title
	}
}

func (r UpdateBoardRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Title != nil {
		if *r.Title == "" {
			errors["title"] = "Title cannot be empty"
		} else if validation.TooLong(*r.Title, maxNameLength) {
			errors["title"] = "Title must be at most 100 characters"
		}
	}
	if r.Position != nil && *r.Position < 0 {
		errors["position"] = "Position cannot be negative"
	}
	return errors
}

func (r UpdateBoardRequest) Changes() store.BoardChanges {
	return store.BoardChanges{Title: r.Title, Position: r.Position}
}

type BoardResponse struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	Title     string         `json:"title"`
	Position  int            `json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Tasks     []TaskResponse `json:"tasks,omitempty"`
}

// NewBoardResponse converts a board. withTasks includes the loaded tasks.
func NewBoardResponse(b *models.Board, withTasks bool) BoardResponse {
	resp := BoardResponse{
		ID:        b.ID.String(),
		ProjectID: b.ProjectID.String(),
		Title:     b.Title,
		Position:  b.Position,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if withTasks {
		resp.Tasks = NewTaskResponses(b.Tasks)
	}
	return resp
}

func NewBoardResponses(boards []models.Board) []BoardResponse {
	return mapSlice(boards, func(b models.Board) BoardResponse {
		return NewBoardResponse(&b, false)
	})
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Position    *int       `json:"position,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
}

func (r *CreateTaskRequest) Normalize() {
	r.Title = validation.CleanTitle(r.Title)
	r.Description = validation.SanitizeString(r.Description)
}

func (r CreateTaskRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	} else if validation.TooLong(r.Title, maxTitleLength) {
		errors["title"] = "Title must be at most 200 characters"
	}
	validateTaskEnums(errors, r.Status, r.Priority)
	if r.Position != nil && *r.Position < 0 {
		errors["position"] = "Position cannot be negative"
	}
	if r.AssigneeID != nil {
		if _, err := uuid.Parse(*r.AssigneeID); err != nil {
			errors["assignee_id"] = "Invalid assignee ID"
		}
	}

	return errors
}

// AssigneeUUID assumes Validate passed.
func (r CreateTaskRequest) AssigneeUUID() *uuid.UUID {
	if r.AssigneeID == nil {
		return nil
	}
	id := uuid.MustParse(*r.AssigneeID)
	return &id
}

// UpdateTaskRequest is a partial update. Deadline and assignee may be sent as
// null to clear them.
type UpdateTaskRequest struct {
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Status      *string             `json:"status,omitempty"`
	Priority    *string             `json:"priority,omitempty"`
	Position    *int                `json:"position,omitempty"`
	Deadline    Nullable[time.Time] `json:"deadline"`
	AssigneeID  Nullable[uuid.UUID] `json:"assignee_id"`
}

func (r *UpdateTaskRequest) Normalize() {
	if r.Title != nil {
		title := validation.CleanTitle(*r.Title)
		r.Title = &title
	}
	if r.Description != nil {
		desc := validation.SanitizeString(*r.Description)
		r.Description = &desc
	}
}

func (r UpdateTaskRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title != nil {
		if *r.Title == "" {
			errors["title"] = "Title cannot be empty"
		} else if validation.TooLong(*r.Title, maxTitleLength) {
			errors["title"] = "Title must be at most 200 characters"
		}
	}

	var status, priority string
	if r.Status != nil {
		if status = *r.Status; status == "" {
			errors["status"] = "Status cannot be empty"
		}
	}
	if r.Priority != nil {
		if priority = *r.Priority; priority == "" {
			errors["priority"] = "Priority cannot be empty"
		}
	}
	validateTaskEnums(errors, status, priority)

	if r.Position != nil && *r.Position < 0 {
		errors["position"] = "Position cannot be negative"
	}

	return errors
}

func (r UpdateTaskRequest) Changes() store.TaskChanges {
	changes := store.TaskChanges{
		Title:         r.Title,
		Description:   r.Description,
		Position:      r.Position,
		Deadline:      r.Deadline.Ptr(),
		ClearDeadline: r.Deadline.IsNull(),
		AssigneeID:    r.AssigneeID.Ptr(),
		ClearAssignee: r.AssigneeID.IsNull(),
	}
	if r.Status != nil {
		status := models.TaskStatus(*r.Status)
		changes.Status = &status
	}
	if r.Priority != nil {
		priority := models.TaskPriority(*r.Priority)
		changes.Priority = &priority
	}
	return changes
}

func validateTaskEnums(errors map[string]string, status, priority string) {
	if status != "" && !models.TaskStatus(status).IsValid() {
		errors["status"] = "Status must be one of todo, in_progress, done, archived"
	}
	if priority != "" && !models.TaskPriority(priority).IsValid() {
		errors["priority"] = "Priority must be one of low, medium, high, critical"
	}
}

type TaskResponse struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"board_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Position    int        `json:"position"`
	Deadline    *time.Time `json:"deadline"`
	AssigneeID  *string    `json:"assignee_id"`
	Assignee    *UserRef   `json:"assignee,omitempty"`
	CreatorID   string     `json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewTaskResponse(t *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		BoardID:     t.BoardID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Position:    t.Position,
		Deadline:    t.Deadline,
		Assignee:    NewUserRef(t.Assignee),
		CreatorID:   t.CreatorID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssigneeID != nil {
		id := t.AssigneeID.String()
		resp.AssigneeID = &id
	}
	return resp
}

func NewTaskResponses(tasks []models.Task) []TaskResponse {
	return mapSlice(tasks, func(t models.Task) TaskResponse {
		return NewTaskResponse(&t)
	})
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

func (r *CreateCommentRequest) Normalize() {
	r.Content = validation.SanitizeString(r.Content)
}

func (r CreateCommentRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if validation.CleanTitle(r.Content) == "" {
		errors["content"] = "Content is required"
	} else if validation.TooLong(r.Content, maxCommentLength) {
		errors["content"] = "Content must be at most 5000 characters"
	}
	return errors
}

type CommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Author    *UserRef  `json:"author,omitempty"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		TaskID:    c.TaskID.String(),
		Author:    NewUserRef(c.Author),
		AuthorID:  c.AuthorID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func NewCommentResponses(comments []models.Comment) []CommentResponse {
	return mapSlice(comments, func(c models.Comment) CommentResponse {
		return NewCommentResponse(&c)
	})
}
