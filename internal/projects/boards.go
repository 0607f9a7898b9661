package projects

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/access"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/store"
)

// BoardInput describes a new board. A nil position appends the board.
type BoardInput struct {
	Title    string
	Position *int
}

func (s *Service) CreateBoard(ctx context.Context, actorID, projectID uuid.UUID, input BoardInput) (*models.Board, error) {
	if _, err := s.authz.Require(ctx, actorID, projectID, access.ActionManageBoards); err != nil {
		return nil, err
	}

	board := &models.Board{ProjectID: projectID, Title: input.Title}
	if err := s.store.CreateBoard(ctx, board, input.Position); err != nil {
		return nil, err
	}

	s.logger.Info("created board", "id", board.ID, "project_id", projectID, "title", board.Title)
	return board, nil
}

// GetBoard returns a board with its tasks.
func (s *Service) GetBoard(ctx context.Context, actorID, boardID uuid.UUID) (*models.Board, error) {
	if _, _, err := s.boardScope(ctx, actorID, boardID, access.ActionViewProject); err != nil {
		return nil, err
	}
	return s.store.GetBoardWithTasks(ctx, boardID)
}

func (s *Service) ListBoards(ctx context.Context, actorID, projectID uuid.UUID) ([]models.Board, error) {
	if _, err := s.authz.Require(ctx, actorID, projectID, access.ActionViewProject); err != nil {
		return nil, err
	}
	return s.store.ListBoards(ctx, projectID)
}

func (s *Service) UpdateBoard(ctx context.Context, actorID, boardID uuid.UUID, changes store.BoardChanges) (*models.Board, error) {
	if _, _, err := s.boardScope(ctx, actorID, boardID, access.ActionManageBoards); err != nil {
		return nil, err
	}

	board, err := s.store.UpdateBoard(ctx, boardID, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("updated board", "id", boardID, "actor_id", actorID)
	return board, nil
}

// DeleteBoard removes a board with its tasks.
func (s *Service) DeleteBoard(ctx context.Context, actorID, boardID uuid.UUID) error {
	if _, _, err := s.boardScope(ctx, actorID, boardID, access.ActionManageBoards); err != nil {
		return err
	}

	removed, err := s.store.DeleteBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrNotFound
	}

	s.logger.Info("deleted board", "id", boardID, "actor_id", actorID)
	return nil
}
