package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a single alert delivered to one user. ProjectID and
// TaskID carry optional context; ActorID is the user whose action
// produced the alert, nil for system-triggered ones.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type      string     `gorm:"not null"`
	Title     string     `gorm:"not null"`
	Message   string     `gorm:"not null"`
	ProjectID *uuid.UUID `gorm:"type:uuid"`
	TaskID    *uuid.UUID `gorm:"type:uuid"`
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	IsRead    bool       `gorm:"not null;default:false"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`

	User    User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Task    *Task    `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Actor   *User    `gorm:"foreignKey:ActorID;constraint:OnDelete:RESTRICT"`
}

// Типы уведомлений
const (
	NotificationStatusChange = "task_status_change"
	NotificationCompleted    = "task_completed"
	NotificationBlocked      = "task_blocked"
	NotificationOverdue      = "task_overdue"
	NotificationSLAWarning   = "sla_warning"
)
