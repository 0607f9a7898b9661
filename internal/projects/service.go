// Package projects orchestrates every project-scoped operation: it resolves
// the caller's membership, asks the access package for a decision and only
// then touches the store.
package projects

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/access"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/store"
)

// Service handles projects, members, boards, tasks and comments on behalf of
// an authenticated actor.
type Service struct {
	store  *store.Store
	authz  *access.Authorizer
	logger *slog.Logger
}

// NewService creates a new project service
func NewService(st *store.Store, authz *access.Authorizer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, authz: authz, logger: logger}
}

// boardScope loads a board and checks action against its project.
func (s *Service) boardScope(ctx context.Context, actorID, boardID uuid.UUID, action access.Action) (*models.Board, []models.ProjectMember, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.authz.Require(ctx, actorID, board.ProjectID, action)
	if err != nil {
		return nil, nil, err
	}
	return board, members, nil
}

// taskScope loads a task with its board and checks action against the
// board's project.
func (s *Service) taskScope(ctx context.Context, actorID, taskID uuid.UUID, action access.Action) (*models.Task, []models.ProjectMember, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	if task.Board == nil {
		if task.Board, err = s.store.GetBoard(ctx, task.BoardID); err != nil {
			return nil, nil, err
		}
	}

	members, err := s.authz.Require(ctx, actorID, task.Board.ProjectID, action)
	if err != nil {
		return nil, nil, err
	}
	return task, members, nil
}
