package projects

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/access"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/store"
)

// ProjectInput describes a new project. An empty status means active.
type ProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
}

// ListProjects returns the actor's memberships with each project attached.
// Identity is the only requirement.
func (s *Service) ListProjects(ctx context.Context, actorID uuid.UUID) ([]models.ProjectMember, error) {
	return s.store.ListProjectsForUser(ctx, actorID)
}

// CreateProject creates a project owned by the actor.
func (s *Service) CreateProject(ctx context.Context, actorID uuid.UUID, input ProjectInput) (*models.Project, error) {
	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
	}
	if err := s.store.CreateProject(ctx, project, actorID); err != nil {
		return nil, err
	}

	s.logger.Info("created project", "id", project.ID, "name", project.Name, "owner_id", actorID)
	return project, nil
}

// GetProject returns a project with its members, boards and tasks.
func (s *Service) GetProject(ctx context.Context, actorID, projectID uuid.UUID) (*models.Project, error) {
	if _, err := s.authz.Require(ctx, actorID, projectID, access.ActionViewProject); err != nil {
		return nil, err
	}
	return s.store.GetProjectDetails(ctx, projectID)
}

func (s *Service) UpdateProject(ctx context.Context, actorID, projectID uuid.UUID, changes store.ProjectChanges) (*models.Project, error) {
	if _, err := s.authz.Require(ctx, actorID, projectID, access.ActionUpdateProject); err != nil {
		return nil, err
	}

	project, err := s.store.UpdateProject(ctx, projectID, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("updated project", "id", projectID, "actor_id", actorID)
	return project, nil
}

// DeleteProject removes a project and everything under it.
func (s *Service) DeleteProject(ctx context.Context, actorID, projectID uuid.UUID) error {
	if _, err := s.authz.Require(ctx, actorID, projectID, access.ActionDeleteProject); err != nil {
		return err
	}

	removed, err := s.store.DeleteProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrNotFound
	}

	s.logger.Info("deleted project", "id", projectID, "actor_id", actorID)
	return nil
}
