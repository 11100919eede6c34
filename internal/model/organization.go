package model

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"not null"`
	Slug      *string   // unique when non-null, enforced by partial index in migrations
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// OrganizationMember представляет связь между пользователем и организацией
type OrganizationMember struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_org_user"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_org_user"`
	Role           string    `gorm:"not null;check:role IN ('admin', 'pm', 'member')"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	User         User         `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

// Роли пользователей в организации
const (
	OrgRoleAdmin  = "admin"  // управляет организацией и приглашениями
	OrgRolePM     = "pm"     // управляет проектами
	OrgRoleMember = "member" // обычный участник
)

// OrganizationInvitation is a single-use, expiring invite to join an
// organization. UsedAt and UsedByUserID are set together when IsUsed
// transitions to true.
type OrganizationInvitation struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Token          string     `gorm:"uniqueIndex;not null"`
	Email          *string
	Role           string     `gorm:"not null;check:role IN ('admin', 'pm', 'member')"`
	IsUsed         bool       `gorm:"not null;default:false"`
	UsedAt         *time.Time
	UsedByUserID   *uuid.UUID `gorm:"type:uuid"`
	ExpiresAt      time.Time  `gorm:"not null"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`

	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	UsedBy       *User        `gorm:"foreignKey:UsedByUserID;constraint:OnDelete:RESTRICT"`
}
