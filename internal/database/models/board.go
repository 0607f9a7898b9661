package models

import "github.com/google/uuid"

// Board titles are unique within a project.
type Board struct {
	Base
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_boards_project_title" json:"project_id"`
	Title     string    `gorm:"size:100;not null;uniqueIndex:idx_boards_project_title" json:"title"`
	Position  int       `gorm:"not null;default:0" json:"position"`

	Tasks []Task `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

func (Board) TableName() string {
	return "boards"
}
