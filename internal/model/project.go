package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrganizationID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"not null"`
	Description     string
	Template        string
	ImageURL        string
	IsActive        bool `gorm:"not null;default:true"`
	SLAHours        *int // per-project SLA budget, consumed by external scheduling
	SLAWarningHours *int // lead time before the SLA deadline to warn the assignee
	CreatedAt       time.Time `gorm:"autoCreateTime"`

	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

// ProjectMember представляет связь между пользователем и проектом
type ProjectMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_project_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_project_user"`
	Role      string    `gorm:"not null;check:role IN ('pm', 'member', 'viewer')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

// Роли пользователей в проекте
const (
	ProjectRolePM     = "pm"     // управляет проектом, получает эскалации
	ProjectRoleMember = "member" // может редактировать задачи
	ProjectRoleViewer = "viewer" // может только просматривать
)

// ProjectNote is a free-form card on the project's whiteboard.
type ProjectNote struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null"`
	Title       string
	Content     string
	Color       string
	PositionX   float64
	PositionY   float64
	Width       float64
	Height      float64
	ImageURL    string
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CreatedBy User    `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
}
