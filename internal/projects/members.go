package projects

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/access"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/store"
)

// ListMembers is restricted to owners like every other member operation.
func (s *Service) ListMembers(ctx context.Context, actorID, projectID uuid.UUID) ([]models.ProjectMember, error) {
	members, err := s.authz.Require(ctx, actorID, projectID, access.ActionManageMembers)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// AddMember invites userID into the project. An empty role means member.
func (s *Service) AddMember(ctx context.Context, actorID, projectID, userID uuid.UUID, role models.Role) (*models.ProjectMember, error) {
	if _, err := s.authz.Require(ctx, actorID, projectID, access.ActionManageMembers); err != nil {
		return nil, err
	}

	member := &models.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}
	if err := s.store.AddMember(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("added member",
		"project_id", projectID,
		"user_id", userID,
		"role", member.Role,
	)
	return member, nil
}

func (s *Service) UpdateMemberRole(ctx context.Context, actorID, projectID, userID uuid.UUID, role models.Role) (*models.ProjectMember, error) {
	if _, err := s.authz.Require(ctx, actorID, projectID, access.ActionManageMembers); err != nil {
		return nil, err
	}

	member, err := s.store.UpdateMemberRole(ctx, projectID, userID, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("changed member role", "project_id", projectID, "user_id", userID, "role", role)
	return member, nil
}

// RemoveMember drops userID from the project and unassigns their tasks.
func (s *Service) RemoveMember(ctx context.Context, actorID, projectID, userID uuid.UUID) error {
	if _, err := s.authz.Require(ctx, actorID, projectID, access.ActionManageMembers); err != nil {
		return err
	}

	removed, err := s.store.RemoveMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrNotFound
	}

	s.logger.Info("removed member", "project_id", projectID, "user_id", userID)
	return nil
}
