package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	invitationRepo *repository.InvitationRepository
	orgMemberRepo  *repository.OrgMemberRepository
	ttlDays        int
}

func NewInvitationHandler(
	invitationRepo *repository.InvitationRepository,
	orgMemberRepo *repository.OrgMemberRepository,
	ttlDays int,
) *InvitationHandler {
	return &InvitationHandler{
		invitationRepo: invitationRepo,
		orgMemberRepo:  orgMemberRepo,
		ttlDays:        ttlDays,
	}
}

// InvitationRequest представляет запрос на создание приглашения
type InvitationRequest struct {
	Email *string `json:"email"`
	Role  string  `json:"role" binding:"required,oneof=admin pm member"`
}

// Create создает приглашение в организацию; только для администраторов
func (h *InvitationHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orgID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.orgMemberRepo.GetUserRole(c.Request.Context(), orgID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if role != model.OrgRoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
		return
	}

	var req InvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, err := generateInviteToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	inv := &model.OrganizationInvitation{
		OrganizationID: orgID,
		Token:          token,
		Email:          req.Email,
		Role:           req.Role,
		ExpiresAt:      time.Now().AddDate(0, 0, h.ttlDays),
	}

	if err := h.invitationRepo.Create(c.Request.Context(), inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         inv.ID,
		"token":      inv.Token,
		"role":       inv.Role,
		"expires_at": inv.ExpiresAt,
	})
}

// GetByOrganization возвращает приглашения организации; только для администраторов
func (h *InvitationHandler) GetByOrganization(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orgID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.orgMemberRepo.GetUserRole(c.Request.Context(), orgID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if role != model.OrgRoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
		return
	}

	invs, err := h.invitationRepo.GetByOrganizationID(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitations"})
		return
	}

	c.JSON(http.StatusOK, invs)
}

// Accept принимает приглашение по токену. Использованные и истекшие
// приглашения отклоняются; сама строка остается читаемой.
func (h *InvitationHandler) Accept(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
		return
	}

	inv, err := h.invitationRepo.FindByToken(c.Request.Context(), token)
	if err != nil {
		if err == repository.ErrInvitationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitation"})
		return
	}

	if inv.IsUsed {
		c.JSON(http.StatusGone, gin.H{"error": "Invitation already used"})
		return
	}

	if time.Now().After(inv.ExpiresAt) {
		c.JSON(http.StatusGone, gin.H{"error": "Invitation expired"})
		return
	}

	if err := h.orgMemberRepo.AddMember(c.Request.Context(), inv.OrganizationID, userID, inv.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	// IsUsed, UsedAt и UsedByUserID выставляются вместе и только один раз
	if err := h.invitationRepo.MarkUsed(c.Request.Context(), inv.ID, userID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation already used"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Invitation accepted",
		"organization_id": inv.OrganizationID,
		"role":            inv.Role,
	})
}

func generateInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
