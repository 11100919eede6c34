package repository

import (
	"context"
	"errors"
	"time"

	"projecthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create adds a new invitation to the database
func (r *InvitationRepository) Create(ctx context.Context, inv *model.OrganizationInvitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// FindByToken retrieves an invitation by its token. Expired and used
// invitations are still returned; the acceptance logic decides what to
// do with them.
func (r *InvitationRepository) FindByToken(ctx context.Context, token string) (*model.OrganizationInvitation, error) {
	var inv model.OrganizationInvitation
	result := r.db.WithContext(ctx).First(&inv, "token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, result.Error
	}
	return &inv, nil
}

// GetByOrganizationID retrieves all invitations for an organization
func (r *InvitationRepository) GetByOrganizationID(ctx context.Context, orgID uuid.UUID) ([]model.OrganizationInvitation, error) {
	var invs []model.OrganizationInvitation
	err := r.db.WithContext(ctx).Where("organization_id = ?", orgID).Find(&invs).Error
	return invs, err
}

// MarkUsed flips the invitation into the used state. IsUsed, UsedAt and
// UsedByUserID change together in a single update so the row is never
// half-consumed.
func (r *InvitationRepository) MarkUsed(ctx context.Context, id, usedBy uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.OrganizationInvitation{}).
		Where("id = ? AND is_used = false", id).
		Updates(map[string]interface{}{
			"is_used":         true,
			"used_at":         now,
			"used_by_user_id": usedBy,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
