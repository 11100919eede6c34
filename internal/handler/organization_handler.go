package handler

import (
	"net/http"

	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrganizationHandler struct {
	orgRepo    *repository.OrganizationRepository
	memberRepo *repository.OrgMemberRepository
	userRepo   repository.UserRepositoryInterface
}

func NewOrganizationHandler(
	orgRepo *repository.OrganizationRepository,
	memberRepo *repository.OrgMemberRepository,
	userRepo repository.UserRepositoryInterface,
) *OrganizationHandler {
	return &OrganizationHandler{
		orgRepo:    orgRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
	}
}

// OrganizationRequest представляет запрос на создание или обновление организации
type OrganizationRequest struct {
	Name string  `json:"name" binding:"required"`
	Slug *string `json:"slug"`
}

// OrgMemberRequest представляет запрос на добавление участника
type OrgMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"required,oneof=admin pm member"`
}

// Create создает новую организацию; создатель становится администратором
func (h *OrganizationHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	org := &model.Organization{
		Name:     req.Name,
		Slug:     req.Slug,
		IsActive: true,
	}

	if err := h.orgRepo.Create(c.Request.Context(), org); err != nil {
		// Дубликат slug нарушает частичный уникальный индекс
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create organization"})
		return
	}

	if err := h.memberRepo.AddMember(c.Request.Context(), org.ID, userID, model.OrgRoleAdmin); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add creator as admin"})
		return
	}

	c.JSON(http.StatusCreated, org)
}

// GetMine возвращает организации, в которых состоит пользователь
func (h *OrganizationHandler) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orgs, err := h.orgRepo.GetForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organizations"})
		return
	}

	c.JSON(http.StatusOK, orgs)
}

// GetByID возвращает организацию; доступна только участникам
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orgID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.memberRepo.GetUserRole(c.Request.Context(), orgID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if role == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this organization"})
		return
	}

	org, err := h.orgRepo.GetByID(c.Request.Context(), orgID)
	if err != nil {
		if err == repository.ErrOrganizationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organization"})
		return
	}

	c.JSON(http.StatusOK, org)
}

// Update обновляет организацию; только для администраторов
func (h *OrganizationHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orgID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireAdmin(c, orgID, userID) {
		return
	}

	var req OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	org, err := h.orgRepo.GetByID(c.Request.Context(), orgID)
	if err != nil {
		if err == repository.ErrOrganizationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organization"})
		return
	}

	org.Name = req.Name
	org.Slug = req.Slug

	if err := h.orgRepo.Update(c.Request.Context(), org); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to update organization"})
		return
	}

	c.JSON(http.StatusOK, org)
}

// Delete удаляет организацию вместе с членствами и проектами (каскад)
func (h *OrganizationHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orgID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireAdmin(c, orgID, userID) {
		return
	}

	if err := h.orgRepo.Delete(c.Request.Context(), orgID); err != nil {
		if err == repository.ErrOrganizationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete organization"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Organization deleted"})
}

// AddMember добавляет пользователя в организацию; только для администраторов
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orgID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireAdmin(c, orgID, userID) {
		return
	}

	var req OrgMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	memberID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.memberRepo.AddMember(c.Request.Context(), orgID, memberID, req.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Member added"})
}

// GetMembers возвращает участников организации
func (h *OrganizationHandler) GetMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orgID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.memberRepo.GetUserRole(c.Request.Context(), orgID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if role == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this organization"})
		return
	}

	members, err := h.memberRepo.GetMembers(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := make([]gin.H, len(members))
	for i, m := range members {
		response[i] = gin.H{
			"user_id": m.UserID,
			"name":    m.User.Name,
			"email":   m.User.Email,
			"role":    m.Role,
		}
	}

	c.JSON(http.StatusOK, response)
}

// RemoveMember удаляет участника; только для администраторов.
// Удаляется только членство, сам пользователь остается.
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orgID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	memberID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return
	}

	if !h.requireAdmin(c, orgID, userID) {
		return
	}

	if err := h.memberRepo.RemoveMember(c.Request.Context(), orgID, memberID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

func (h *OrganizationHandler) requireAdmin(c *gin.Context, orgID, userID uuid.UUID) bool {
	role, err := h.memberRepo.GetUserRole(c.Request.Context(), orgID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return false
	}
	if role != model.OrgRoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
		return false
	}
	return true
}
