package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/database/models"
	"gorm.io/gorm"
)

type BoardChanges struct {
	Title    *string
	Position *int
}

func (c BoardChanges) columns() map[string]interface{} {
	updates := make(map[string]interface{})
	if c.Title != nil {
		updates["title"] = *c.Title
	}
	if c.Position != nil {
		updates["position"] = *c.Position
	}
	return updates
}

// CreateBoard inserts a board. A board with the same title under the same
// project yields ErrBoardTitleTaken and nothing is written. A nil position
// places the board after the existing ones.
func (s *Store) CreateBoard(ctx context.Context, board *models.Board, position *int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.projectExists(tx, board.ProjectID); err != nil {
			return err
		}
		if err := boardTitleFree(tx, board.ProjectID, board.Title, uuid.Nil); err != nil {
			return err
		}

		if position != nil {
			board.Position = *position
		} else {
			var count int64
			if err := tx.Model(&models.Board{}).Where("project_id = ?", board.ProjectID).Count(&count).Error; err != nil {
				return err
			}
			board.Position = int(count)
		}

		if err := tx.Omit("Tasks").Create(board).Error; err != nil {
			return boardConflict(err)
		}
		return nil
	})
}

func (s *Store) GetBoard(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	var board models.Board
	if err := s.db.WithContext(ctx).First(&board, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &board, nil
}

// GetBoardWithTasks loads a board and its ordered tasks.
func (s *Store) GetBoardWithTasks(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	var board models.Board
	err := s.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Tasks.Assignee").
		First(&board, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &board, nil
}

func (s *Store) ListBoards(ctx context.Context, projectID uuid.UUID) ([]models.Board, error) {
	var boards []models.Board
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC, created_at ASC").
		Find(&boards).Error
	if err != nil {
		return nil, translate(err)
	}
	return boards, nil
}

// UpdateBoard applies the supplied changes. Renaming to a title used by
// another board of the same project yields ErrBoardTitleTaken.
func (s *Store) UpdateBoard(ctx context.Context, id uuid.UUID, changes BoardChanges) (*models.Board, error) {
	var board models.Board
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&board, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		updates := changes.columns()
		if len(updates) == 0 {
			return nil
		}

		if changes.Title != nil && *changes.Title != board.Title {
			if err := boardTitleFree(tx, board.ProjectID, *changes.Title, board.ID); err != nil {
				return err
			}
		}

		if err := tx.Model(&board).Updates(updates).Error; err != nil {
			return boardConflict(err)
		}
		return translate(tx.First(&board, "id = ?", id).Error)
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// DeleteBoard removes a board with its tasks and their comments. It reports
// whether the board existed.
func (s *Store) DeleteBoard(ctx context.Context, id uuid.UUID) (bool, error) {
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("board_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Board{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, translate(err)
	}
	return removed, nil
}

func boardTitleFree(tx *gorm.DB, projectID uuid.UUID, title string, except uuid.UUID) error {
	q := tx.Model(&models.Board{}).Where("project_id = ? AND title = ?", projectID, title)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrBoardTitleTaken
	}
	return nil
}

// boardConflict reports a unique index violation on boards as a title clash.
func boardConflict(err error) error {
	err = translate(err)
	if errors.Is(err, ErrConflict) {
		return ErrBoardTitleTaken
	}
	return err
}
