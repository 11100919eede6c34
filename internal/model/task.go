package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title            string     `gorm:"not null"`
	Description      string
	Type             string     `gorm:"not null;default:'Task';check:type IN ('Task', 'Bug', 'Story', 'Epic')"`
	Status           string     `gorm:"not null;default:'To Do';check:status IN ('To Do', 'In Progress', 'Blocked', 'Review', 'Done')"`
	Priority         string     `gorm:"not null;default:'medium';check:priority IN ('low', 'medium', 'high', 'critical')"`
	AssigneeID       *uuid.UUID `gorm:"type:uuid"`
	StartDate        *time.Time
	DueDate          *time.Time
	EstimatedMinutes int
	TotalMinutes     int    // accumulated from time entries
	Tags             string // comma-separated
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time

	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Assignee *User   `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL"`
}

// Типы задач
const (
	TaskTypeTask  = "Task"
	TaskTypeBug   = "Bug"
	TaskTypeStory = "Story"
	TaskTypeEpic  = "Epic"
)

// Статусы задач
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusBlocked    = "Blocked"
	StatusReview     = "Review"
	StatusDone       = "Done"
)

// Приоритеты задач
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// TimeEntry records time spent on a task, either as a started/ended
// interval or as a manually entered duration.
type TimeEntry struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID          uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	StartedAt       *time.Time
	EndedAt         *time.Time
	DurationMinutes int
	IsManual        bool `gorm:"not null;default:false"`
	Description     string
	CreatedAt       time.Time `gorm:"autoCreateTime"`

	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}
