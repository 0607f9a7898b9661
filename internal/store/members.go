package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListMembers returns the full member list of a project with users attached.
// A missing project yields ErrNotFound rather than an empty list.
func (s *Store) ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMember, error) {
	db := s.db.WithContext(ctx)
	if err := s.projectExists(db, projectID); err != nil {
		return nil, err
	}

	var members []models.ProjectMember
	err := db.Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, translate(err)
	}
	return members, nil
}

// AddMember creates a membership. The project and user must exist and the
// user must not already belong to the project.
func (s *Store) AddMember(ctx context.Context, member *models.ProjectMember) error {
	if member.Role == "" {
		member.Role = models.RoleMember
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.projectExists(tx, member.ProjectID); err != nil {
			return err
		}
		if err := s.userExists(tx, member.UserID); err != nil {
			return err
		}

		var count int64
		err := tx.Model(&models.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", member.ProjectID, member.UserID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyMember
		}

		if err := tx.Omit("User", "Project").Create(member).Error; err != nil {
			return translate(err)
		}

		var user models.User
		if err := tx.First(&user, "id = ?", member.UserID).Error; err != nil {
			return translate(err)
		}
		member.User = &user
		return nil
	})
}

// UpdateMemberRole changes a member's role. Demoting the last owner fails
// with ErrLastOwner.
func (s *Store) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role models.Role) (*models.ProjectMember, error) {
	var member models.ProjectMember
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, "project_id = ? AND user_id = ?", projectID, userID).Error; err != nil {
			return translate(err)
		}
		if member.Role == role {
			return nil
		}

		if member.Role == models.RoleOwner {
			if err := ensureAnotherOwner(tx, projectID); err != nil {
				return err
			}
		}

		err := tx.Model(&models.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", projectID, userID).
			Update("role", role).Error
		if err != nil {
			return translate(err)
		}
		member.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	member.User, err = s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember deletes a membership and clears the user from any task of the
// project they were assigned to. Removing the last owner fails with
// ErrLastOwner. It reports whether a membership was removed.
func (s *Store) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.ProjectMember
		err := tx.First(&member, "project_id = ? AND user_id = ?", projectID, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if member.Role == models.RoleOwner {
			if err := ensureAnotherOwner(tx, projectID); err != nil {
				return err
			}
		}

		boardIDs := tx.Model(&models.Board{}).Select("id").Where("project_id = ?", projectID)
		err = tx.Model(&models.Task{}).
			Where("assignee_id = ? AND board_id IN (?)", userID, boardIDs).
			Update("assignee_id", nil).Error
		if err != nil {
			return err
		}

		result := tx.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.ProjectMember{})
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

// ensureAnotherOwner locks the project's owner rows before counting them, so
// two transactions demoting or removing different owners cannot both pass.
func ensureAnotherOwner(tx *gorm.DB, projectID uuid.UUID) error {
	var owners []uuid.UUID
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Model(&models.ProjectMember{}).
		Where("project_id = ? AND role = ?", projectID, models.RoleOwner).
		Pluck("user_id", &owners).Error
	if err != nil {
		return err
	}
	if len(owners) <= 1 {
		return ErrLastOwner
	}
	return nil
}
