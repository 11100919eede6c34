package repository

import (
	"context"
	"errors"

	"projecthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectMemberRepository struct {
	db *gorm.DB
}

func NewProjectMemberRepository(db *gorm.DB) *ProjectMemberRepository {
	return &ProjectMemberRepository{db: db}
}

// AddMember добавляет пользователя в проект с указанной ролью
func (r *ProjectMemberRepository) AddMember(ctx context.Context, projectID, userID uuid.UUID, role string) error {
	member := model.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}

	// Используем транзакцию для предотвращения гонок
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ProjectMember
		err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).First(&existing).Error

		// Если запись уже существует, обновляем роль
		if err == nil {
			existing.Role = role
			return tx.Save(&existing).Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&member).Error
	})
}

// RemoveMember удаляет пользователя из проекта
func (r *ProjectMemberRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{}).Error
}

// GetMembers возвращает список участников проекта
func (r *ProjectMemberRepository) GetMembers(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error
	return members, err
}

// GetUserRole возвращает роль пользователя в проекте (или пустую строку, если нет членства)
func (r *ProjectMemberRepository) GetUserRole(ctx context.Context, projectID, userID uuid.UUID) (string, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	return member.Role, nil
}

// ListMemberIDs returns the IDs of every project member except the
// excluded user. Each qualifying member appears exactly once; no
// ordering is guaranteed.
func (r *ProjectMemberRepository) ListMemberIDs(ctx context.Context, projectID, exclude uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id <> ?", projectID, exclude).
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListMemberIDsByRole returns the IDs of project members holding the
// given role, except the excluded user.
func (r *ProjectMemberRepository) ListMemberIDsByRole(ctx context.Context, projectID uuid.UUID, role string, exclude uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND role = ? AND user_id <> ?", projectID, role, exclude).
		Pluck("user_id", &ids).Error
	return ids, err
}

// CheckAccess проверяет, имеет ли пользователь доступ к проекту с указанной ролью или выше
func (r *ProjectMemberRepository) CheckAccess(ctx context.Context, projectID, userID uuid.UUID, requiredRole string) (bool, error) {
	role, err := r.GetUserRole(ctx, projectID, userID)
	if err != nil {
		return false, err
	}

	// Нет членства - нет доступа
	if role == "" {
		return false, nil
	}

	// Если требуется роль "viewer", то подойдет любая роль
	if requiredRole == model.ProjectRoleViewer {
		return true, nil
	}

	// Если требуется роль "member", подойдет "member" или "pm"
	if requiredRole == model.ProjectRoleMember {
		return role == model.ProjectRoleMember || role == model.ProjectRolePM, nil
	}

	// Если требуется роль "pm", проверяем что у пользователя роль "pm"
	return role == model.ProjectRolePM, nil
}
