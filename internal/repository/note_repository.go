package repository

import (
	"context"
	"errors"

	"projecthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create adds a new note to the project board
func (r *NoteRepository) Create(ctx context.Context, note *model.ProjectNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// GetByID retrieves a note by its ID
func (r *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectNote, error) {
	var note model.ProjectNote
	result := r.db.WithContext(ctx).First(&note, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, result.Error
	}
	return &note, nil
}

// GetByProjectID retrieves all notes on the project board
func (r *NoteRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.ProjectNote, error) {
	var notes []model.ProjectNote
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&notes).Error
	return notes, err
}

// Update updates an existing note (content, color, canvas geometry)
func (r *NoteRepository) Update(ctx context.Context, note *model.ProjectNote) error {
	result := r.db.WithContext(ctx).Save(note)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Delete removes a note by its ID
func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.ProjectNote{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}
