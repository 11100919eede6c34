package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectComment представляет комментарий на уровне проекта
type ProjectComment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null"`
	Content   string    `gorm:"not null"`
	IsPinned  bool      `gorm:"not null;default:false"`
	Color     string
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Author  User    `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
}

// TaskComment представляет комментарий к задаче. ParentID задает
// один уровень вложенности: у ответа не может быть своих ответов.
type TaskComment struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	Content   string     `gorm:"not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`

	Task   Task         `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Author User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	Parent *TaskComment `gorm:"foreignKey:ParentID;constraint:OnDelete:RESTRICT"`
}

// CommentAttachment belongs to exactly one of ProjectComment or
// TaskComment; the one-parent rule is a CHECK constraint in migrations.
type CommentAttachment struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectCommentID *uuid.UUID `gorm:"type:uuid;index"`
	TaskCommentID    *uuid.UUID `gorm:"type:uuid;index"`
	FileName         string     `gorm:"not null"`
	FileURL          string     `gorm:"not null"`
	FileType         string
	FileSize         int64
	CreatedAt        time.Time `gorm:"autoCreateTime"`

	ProjectComment *ProjectComment `gorm:"foreignKey:ProjectCommentID;constraint:OnDelete:CASCADE"`
	TaskComment    *TaskComment    `gorm:"foreignKey:TaskCommentID;constraint:OnDelete:CASCADE"`
}

// CommentReaction представляет эмодзи-реакцию пользователя на комментарий
type CommentReaction struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskCommentID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_comment_user_emoji"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_user_emoji"`
	Emoji         string    `gorm:"not null;uniqueIndex:idx_comment_user_emoji"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	TaskComment TaskComment `gorm:"foreignKey:TaskCommentID;constraint:OnDelete:CASCADE"`
	User        User        `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}
