package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/store"
)

var (
	ErrForbidden         = errors.New("forbidden")
	ErrAssigneeNotMember = fmt.Errorf("%w: assignee not a project member", store.ErrConflict)
)

const (
	ReasonNotMember        = "not a member"
	ReasonInsufficientRole = "insufficient role"
)

// Decision is the outcome of an authorization check. Reason is set when the
// request is denied.
type Decision struct {
	Allowed bool
	Reason  string
	Role    models.Role
}

func Allow(role models.Role) Decision {
	return Decision{Allowed: true, Role: role}
}

func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err converts a denial into an error wrapping ErrForbidden.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
}

// MemberLister loads the full member list of a project.
type MemberLister interface {
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMember, error)
}

type Authorizer struct {
	members MemberLister
}

func NewAuthorizer(members MemberLister) *Authorizer {
	return &Authorizer{members: members}
}

// Evaluate decides action for userID against an already loaded member list.
func Evaluate(members []models.ProjectMember, userID uuid.UUID, action Action) Decision {
	for _, m := range members {
		if m.UserID != userID {
			continue
		}
		if !Can(m.Role, action) {
			return Deny(ReasonInsufficientRole)
		}
		return Allow(m.Role)
	}
	return Deny(ReasonNotMember)
}

// Authorize loads the project's members and evaluates action for userID. A
// missing project is reported as store.ErrNotFound.
func (a *Authorizer) Authorize(ctx context.Context, userID, projectID uuid.UUID, action Action) (Decision, error) {
	members, err := a.members.ListMembers(ctx, projectID)
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(members, userID, action), nil
}

// Require is Authorize for callers that only proceed on Allow. It returns the
// member list it loaded so follow-up checks need not query it again.
func (a *Authorizer) Require(ctx context.Context, userID, projectID uuid.UUID, action Action) ([]models.ProjectMember, error) {
	members, err := a.members.ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := Evaluate(members, userID, action).Err(); err != nil {
		return nil, err
	}
	return members, nil
}

// EnsureAssignable fails with ErrAssigneeNotMember unless assigneeID is in
// members.
func EnsureAssignable(members []models.ProjectMember, assigneeID uuid.UUID) error {
	for _, m := range members {
		if m.UserID == assigneeID {
			return nil
		}
	}
	return ErrAssigneeNotMember
}
