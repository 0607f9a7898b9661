package store

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/database/models"
	"gorm.io/gorm"
)

// ProjectChanges is a partial update. Nil fields are left untouched.
type ProjectChanges struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

func (c ProjectChanges) columns() map[string]interface{} {
	updates := make(map[string]interface{})
	if c.Name != nil {
		updates["name"] = *c.Name
	}
	if c.Description != nil {
		updates["description"] = *c.Description
	}
	if c.Status != nil {
		updates["status"] = *c.Status
	}
	return updates
}

// CreateProject writes the project and its owner membership in one
// transaction; either both rows persist or neither does.
func (s *Store) CreateProject(ctx context.Context, project *models.Project, ownerID uuid.UUID) error {
	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userExists(tx, ownerID); err != nil {
			return err
		}

		if err := tx.Omit("Members", "Boards").Create(project).Error; err != nil {
			return translate(err)
		}

		owner := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      models.RoleOwner,
			JoinedAt:  time.Now(),
		}
		if err := tx.Omit("User", "Project").Create(&owner).Error; err != nil {
			return translate(err)
		}

		project.Members = []models.ProjectMember{owner}
		return nil
	})
}

// GetProjectDetails loads a project with its members, its boards and every
// board's tasks.
func (s *Store) GetProjectDetails(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Preload("Members.User").
		Preload("Boards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Boards.Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Boards.Tasks.Assignee").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

// ListProjectsForUser returns the memberships of a user with each project
// attached, newest project first.
func (s *Store) ListProjectsForUser(ctx context.Context, userID uuid.UUID) ([]models.ProjectMember, error) {
	var memberships []models.ProjectMember
	err := s.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Find(&memberships).Error
	if err != nil {
		return nil, translate(err)
	}

	slices.SortFunc(memberships, func(a, b models.ProjectMember) int {
		if a.Project == nil || b.Project == nil {
			return 0
		}
		return b.Project.CreatedAt.Compare(a.Project.CreatedAt)
	})

	return memberships, nil
}

// UpdateProject applies the supplied changes. An empty change set returns
// the current row unchanged.
func (s *Store) UpdateProject(ctx context.Context, id uuid.UUID, changes ProjectChanges) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		updates := changes.columns()
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&project).Updates(updates).Error; err != nil {
			return translate(err)
		}
		return translate(tx.First(&project, "id = ?", id).Error)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project with its boards, tasks, comments and
// memberships. It reports whether the project existed.
func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) (bool, error) {
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		boardIDs := tx.Model(&models.Board{}).Select("id").Where("project_id = ?", id)
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("board_id IN (?)", boardIDs)

		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id IN (?)", boardIDs).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Board{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Project{})
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

func (s *Store) projectExists(tx *gorm.DB, id uuid.UUID) error {
	var project models.Project
	return translate(tx.Select("id").First(&project, "id = ?", id).Error)
}
