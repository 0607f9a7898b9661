package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusPaused    ProjectStatus = "paused"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusPaused:
		return true
	}
	return false
}

type Project struct {
	Base
	Name        string        `gorm:"size:100;not null" json:"name"`
	Description string        `gorm:"size:256" json:"description"`
	Status      ProjectStatus `gorm:"size:20;not null;default:'active'" json:"status"`

	// Relationships
	Members []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Boards  []Board         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"boards,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

// Role is a user's standing within a single project.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleMember     Role = "member"
	RoleRestricted Role = "restricted"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleMember, RoleRestricted:
		return true
	}
	return false
}

// ProjectMember is the join row that carries every authorization decision.
type ProjectMember struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	Role      Role      `gorm:"size:20;not null;default:'member'" json:"role"`
	JoinedAt  time.Time `gorm:"not null" json:"joined_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
