package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/database/models"
	"gorm.io/gorm"
)

// TaskChanges is a partial update. Nil fields are left untouched; the Clear
// flags null out the optional columns.
type TaskChanges struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	Position      *int
	Deadline      *time.Time
	ClearDeadline bool
	AssigneeID    *uuid.UUID
	ClearAssignee bool
}

func (c TaskChanges) columns() map[string]interface{} {
	updates := make(map[string]interface{})
	if c.Title != nil {
		updates["title"] = *c.Title
	}
	if c.Description != nil {
		updates["description"] = *c.Description
	}
	if c.Status != nil {
		updates["status"] = *c.Status
	}
	if c.Priority != nil {
		updates["priority"] = *c.Priority
	}
	if c.Position != nil {
		updates["position"] = *c.Position
	}
	if c.ClearDeadline {
		updates["deadline"] = nil
	} else if c.Deadline != nil {
		updates["deadline"] = *c.Deadline
	}
	if c.ClearAssignee {
		updates["assignee_id"] = nil
	} else if c.AssigneeID != nil {
		updates["assignee_id"] = *c.AssigneeID
	}
	return updates
}

// IsEmpty reports whether the change set touches no column.
func (c TaskChanges) IsEmpty() bool {
	return len(c.columns()) == 0
}

// CreateTask inserts a task under an existing board. The assignee is stored
// as given; membership of the assignee is checked by the caller. A nil
// position places the task after the board's existing tasks.
func (s *Store) CreateTask(ctx context.Context, task *models.Task, position *int) error {
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board models.Board
		if err := tx.Select("id").First(&board, "id = ?", task.BoardID).Error; err != nil {
			return translate(err)
		}

		if position != nil {
			task.Position = *position
		} else {
			var count int64
			if err := tx.Model(&models.Task{}).Where("board_id = ?", task.BoardID).Count(&count).Error; err != nil {
				return err
			}
			task.Position = int(count)
		}

		if err := tx.Omit("Board", "Assignee", "Comments").Create(task).Error; err != nil {
			return translate(err)
		}
		return loadAssignee(tx, task)
	})
}

// GetTask loads a task with its board and assignee.
func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).
		Preload("Board").
		Preload("Assignee").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (s *Store) ListTasks(ctx context.Context, boardID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Preload("Assignee").
		Where("board_id = ?", boardID).
		Order("position ASC, created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, translate(err)
	}
	return tasks, nil
}

// UpdateTask applies the supplied changes and returns the stored task. An
// empty change set returns the current row unchanged.
func (s *Store) UpdateTask(ctx context.Context, id uuid.UUID, changes TaskChanges) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Board").Preload("Assignee").First(&task, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		updates := changes.columns()
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return translate(err)
		}

		task = models.Task{}
		return translate(tx.Preload("Board").Preload("Assignee").First(&task, "id = ?", id).Error)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task and its comments. It reports whether the task
// existed.
func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) (bool, error) {
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Task{})
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

func loadAssignee(tx *gorm.DB, task *models.Task) error {
	if task.AssigneeID == nil {
		task.Assignee = nil
		return nil
	}

	var user models.User
	if err := tx.First(&user, "id = ?", *task.AssigneeID).Error; err != nil {
		return translate(err)
	}
	task.Assignee = &user
	return nil
}
