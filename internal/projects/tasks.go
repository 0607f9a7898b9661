package projects

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/access"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/store"
)

// TaskInput describes a new task. Empty status and priority fall back to
// todo and medium; a nil position appends the task.
type TaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Position    *int
	Deadline    *time.Time
	AssigneeID  *uuid.UUID
}

// CreateTask adds a task to a board. A supplied assignee must be a member of
// the board's project.
func (s *Service) CreateTask(ctx context.Context, actorID, boardID uuid.UUID, input TaskInput) (*models.Task, error) {
	board, members, err := s.boardScope(ctx, actorID, boardID, access.ActionManageTasks)
	if err != nil {
		return nil, err
	}

	if input.AssigneeID != nil {
		if err := access.EnsureAssignable(members, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		BoardID:     board.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Deadline:    input.Deadline,
		AssigneeID:  input.AssigneeID,
		CreatorID:   actorID,
	}
	if err := s.store.CreateTask(ctx, task, input.Position); err != nil {
		return nil, err
	}

	s.logger.Info("created task",
		"id", task.ID,
		"board_id", boardID,
		"project_id", board.ProjectID,
	)
	return task, nil
}

func (s *Service) GetTask(ctx context.Context, actorID, taskID uuid.UUID) (*models.Task, error) {
	task, _, err := s.taskScope(ctx, actorID, taskID, access.ActionViewProject)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) ListTasks(ctx context.Context, actorID, boardID uuid.UUID) ([]models.Task, error) {
	if _, _, err := s.boardScope(ctx, actorID, boardID, access.ActionViewProject); err != nil {
		return nil, err
	}
	return s.store.ListTasks(ctx, boardID)
}

// UpdateTask applies a partial update. A new assignee is checked against the
// project's members before anything is written.
func (s *Service) UpdateTask(ctx context.Context, actorID, taskID uuid.UUID, changes store.TaskChanges) (*models.Task, error) {
	_, members, err := s.taskScope(ctx, actorID, taskID, access.ActionManageTasks)
	if err != nil {
		return nil, err
	}

	if changes.AssigneeID != nil && !changes.ClearAssignee {
		if err := access.EnsureAssignable(members, *changes.AssigneeID); err != nil {
			return nil, err
		}
	}

	task, err := s.store.UpdateTask(ctx, taskID, changes)
	if err != nil {
		return nil, err
	}

	if !changes.IsEmpty() {
		s.logger.Info("updated task", "id", taskID, "actor_id", actorID)
	}
	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error {
	if _, _, err := s.taskScope(ctx, actorID, taskID, access.ActionManageTasks); err != nil {
		return err
	}

	removed, err := s.store.DeleteTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrNotFound
	}

	s.logger.Info("deleted task", "id", taskID, "actor_id", actorID)
	return nil
}
