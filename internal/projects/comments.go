package projects

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/access"
	"github.com/hugh/go-taskboard/internal/database/models"
)

func (s *Service) ListComments(ctx context.Context, actorID, taskID uuid.UUID) ([]models.Comment, error) {
	if _, _, err := s.taskScope(ctx, actorID, taskID, access.ActionViewProject); err != nil {
		return nil, err
	}
	return s.store.ListComments(ctx, taskID)
}

// AddComment posts a comment as the actor. Anyone allowed to manage tasks
// may comment.
func (s *Service) AddComment(ctx context.Context, actorID, taskID uuid.UUID, content string) (*models.Comment, error) {
	if _, _, err := s.taskScope(ctx, actorID, taskID, access.ActionManageTasks); err != nil {
		return nil, err
	}

	comment := &models.Comment{TaskID: taskID, AuthorID: actorID, Content: content}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Debug("added comment", "id", comment.ID, "task_id", taskID)
	return comment, nil
}
