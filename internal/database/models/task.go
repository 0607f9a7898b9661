package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusArchived   TaskStatus = "archived"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusArchived:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityCritical:
		return true
	}
	return false
}

type Task struct {
	Base
	BoardID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"board_id"`
	Title       string       `gorm:"size:200;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"size:20;not null;default:'todo'" json:"status"`
	Priority    TaskPriority `gorm:"size:20;not null;default:'medium'" json:"priority"`
	Position    int          `gorm:"not null;default:0" json:"position"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	AssigneeID  *uuid.UUID   `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	CreatorID   uuid.UUID    `gorm:"type:uuid;not null" json:"creator_id"`

	// Relationships
	Board    *Board    `gorm:"foreignKey:BoardID" json:"-"`
	Assignee *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Comments []Comment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

type Comment struct {
	Base
	TaskID   uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Content  string    `gorm:"type:text;not null" json:"content"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
