package repository

import (
	"context"
	"errors"

	"projecthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrgMemberRepository struct {
	db *gorm.DB
}

func NewOrgMemberRepository(db *gorm.DB) *OrgMemberRepository {
	return &OrgMemberRepository{db: db}
}

// AddMember добавляет пользователя в организацию с указанной ролью
func (r *OrgMemberRepository) AddMember(ctx context.Context, orgID, userID uuid.UUID, role string) error {
	member := model.OrganizationMember{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
	}

	// Используем транзакцию для предотвращения гонок
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Проверяем, существует ли уже членство
		var existing model.OrganizationMember
		err := tx.Where("organization_id = ? AND user_id = ?", orgID, userID).First(&existing).Error

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

// RemoveMember удаляет пользователя из организации
func (r *OrgMemberRepository) RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Delete(&model.OrganizationMember{}).Error
}

// GetMembers возвращает список участников организации
func (r *OrgMemberRepository) GetMembers(ctx context.Context, orgID uuid.UUID) ([]model.OrganizationMember, error) {
	var members []model.OrganizationMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", orgID).
		Find(&members).Error
	return members, err
}

// GetUserRole возвращает роль пользователя в организации (или пустую строку, если нет членства)
func (r *OrgMemberRepository) GetUserRole(ctx context.Context, orgID, userID uuid.UUID) (string, error) {
	var member model.OrganizationMember
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	return member.Role, nil
}
