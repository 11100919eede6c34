package handler

import (
	"net/http"

	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	projectRepo   *repository.ProjectRepository
	memberRepo    *repository.ProjectMemberRepository
	orgMemberRepo *repository.OrgMemberRepository
	userRepo      repository.UserRepositoryInterface
}

func NewProjectHandler(
	projectRepo *repository.ProjectRepository,
	memberRepo *repository.ProjectMemberRepository,
	orgMemberRepo *repository.OrgMemberRepository,
	userRepo repository.UserRepositoryInterface,
) *ProjectHandler {
	return &ProjectHandler{
		projectRepo:   projectRepo,
		memberRepo:    memberRepo,
		orgMemberRepo: orgMemberRepo,
		userRepo:      userRepo,
	}
}

// ProjectRequest представляет запрос на создание или обновление проекта
type ProjectRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Template        string `json:"template"`
	ImageURL        string `json:"image_url"`
	SLAHours        *int   `json:"sla_hours"`
	SLAWarningHours *int   `json:"sla_warning_hours"`
}

// ProjectMemberRequest представляет запрос на добавление участника проекта
type ProjectMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"required,oneof=pm member viewer"`
}

// Create создает проект в организации; создатель становится pm проекта.
// Требуется роль admin или pm в организации.
func (h *ProjectHandler) Create(c *gin.Context) {
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
	if role != model.OrgRoleAdmin && role != model.OrgRolePM {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin or pm role required"})
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project := &model.Project{
		OrganizationID:  orgID,
		Name:            req.Name,
		Description:     req.Description,
		Template:        req.Template,
		ImageURL:        req.ImageURL,
		IsActive:        true,
		SLAHours:        req.SLAHours,
		SLAWarningHours: req.SLAWarningHours,
	}

	if err := h.projectRepo.Create(c.Request.Context(), project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	if err := h.memberRepo.AddMember(c.Request.Context(), project.ID, userID, model.ProjectRolePM); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add creator as pm"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetByOrganization возвращает проекты организации
func (h *ProjectHandler) GetByOrganization(c *gin.Context) {
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
	if role == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this organization"})
		return
	}

	projects, err := h.projectRepo.GetByOrganizationID(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetMine возвращает проекты, в которых состоит пользователь
func (h *ProjectHandler) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectRepo.GetForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetByID возвращает проект; доступен участникам проекта
func (h *ProjectHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, userID, model.ProjectRoleViewer) {
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), projectID)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// Update обновляет проект; требуется роль pm
func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, userID, model.ProjectRolePM) {
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), projectID)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	project.Name = req.Name
	project.Description = req.Description
	project.Template = req.Template
	project.ImageURL = req.ImageURL
	project.SLAHours = req.SLAHours
	project.SLAWarningHours = req.SLAWarningHours

	if err := h.projectRepo.Update(c.Request.Context(), project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// Delete удаляет проект вместе с задачами, комментариями и заметками (каскад)
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, userID, model.ProjectRolePM) {
		return
	}

	if err := h.projectRepo.Delete(c.Request.Context(), projectID); err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// AddMember добавляет участника в проект; требуется роль pm
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, userID, model.ProjectRolePM) {
		return
	}

	var req ProjectMemberRequest
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

	if err := h.memberRepo.AddMember(c.Request.Context(), projectID, memberID, req.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Member added"})
}

// GetMembers возвращает участников проекта
func (h *ProjectHandler) GetMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, userID, model.ProjectRoleViewer) {
		return
	}

	members, err := h.memberRepo.GetMembers(c.Request.Context(), projectID)
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

// RemoveMember удаляет участника из проекта; требуется роль pm.
// Удаляется только членство, сам пользователь остается.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	memberID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, userID, model.ProjectRolePM) {
		return
	}

	if err := h.memberRepo.RemoveMember(c.Request.Context(), projectID, memberID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

func (h *ProjectHandler) requireAccess(c *gin.Context, projectID, userID uuid.UUID, requiredRole string) bool {
	hasAccess, err := h.memberRepo.CheckAccess(c.Request.Context(), projectID, userID, requiredRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return false
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this project"})
		return false
	}
	return true
}
