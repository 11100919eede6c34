package repository

import (
	"context"
	"errors"

	"projecthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTimeEntryNotFound = errors.New("time entry not found")
)

type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

// Create inserts a time entry and bumps the owning task's accumulated
// total in the same transaction.
func (r *TimeEntryRepository) Create(ctx context.Context, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Model(&model.Task{}).
			Where("id = ?", entry.TaskID).
			Update("total_minutes", gorm.Expr("total_minutes + ?", entry.DurationMinutes)).Error
	})
}

// GetByTaskID retrieves all time entries of a task
func (r *TimeEntryRepository) GetByTaskID(ctx context.Context, taskID uuid.UUID) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&entries).Error
	return entries, err
}

// GetByID retrieves a time entry by its ID
func (r *TimeEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	result := r.db.WithContext(ctx).First(&entry, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTimeEntryNotFound
		}
		return nil, result.Error
	}
	return &entry, nil
}

// Delete removes a time entry and subtracts its minutes from the task's
// accumulated total in the same transaction.
func (r *TimeEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry model.TimeEntry
		if err := tx.First(&entry, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTimeEntryNotFound
			}
			return err
		}

		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&model.Task{}).
			Where("id = ?", entry.TaskID).
			Update("total_minutes", gorm.Expr("total_minutes - ?", entry.DurationMinutes)).Error
	})
}
