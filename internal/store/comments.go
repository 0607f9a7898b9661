package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/database/models"
	"gorm.io/gorm"
)

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Select("id").First(&task, "id = ?", comment.TaskID).Error; err != nil {
			return translate(err)
		}

		if err := tx.Omit("Author").Create(comment).Error; err != nil {
			return translate(err)
		}

		var author models.User
		if err := tx.First(&author, "id = ?", comment.AuthorID).Error; err != nil {
			return translate(err)
		}
		comment.Author = &author
		return nil
	})
}

// ListComments returns a task's comments, oldest first.
func (s *Store) ListComments(ctx context.Context, taskID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err)
	}
	return comments, nil
}
