package handler

import (
	"net/http"

	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentRepo *repository.CommentRepository
	taskRepo    *repository.TaskRepository
	projectRepo *repository.ProjectRepository
	memberRepo  *repository.ProjectMemberRepository
}

func NewCommentHandler(
	commentRepo *repository.CommentRepository,
	taskRepo *repository.TaskRepository,
	projectRepo *repository.ProjectRepository,
	memberRepo *repository.ProjectMemberRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
	}
}

// TaskCommentRequest представляет запрос на создание комментария к задаче
type TaskCommentRequest struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

// ProjectCommentRequest представляет запрос на создание комментария проекта
type ProjectCommentRequest struct {
	Content string `json:"content" binding:"required"`
	Color   string `json:"color"`
}

// ReactionRequest представляет запрос на добавление или удаление реакции
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// AttachmentRequest представляет запрос на добавление вложения
type AttachmentRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FileURL  string `json:"file_url" binding:"required"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

// CreateTaskComment добавляет комментарий к задаче; parent_id задает
// ответ на существующий комментарий (один уровень)
func (h *CommentHandler) CreateTaskComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	if !h.requireAccess(c, task.ProjectID, userID, model.ProjectRoleMember) {
		return
	}

	var req TaskCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment := &model.TaskComment{
		TaskID:   taskID,
		AuthorID: userID,
		Content:  req.Content,
	}

	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent ID format"})
			return
		}
		comment.ParentID = &parentID
	}

	if err := h.commentRepo.CreateTaskComment(c.Request.Context(), comment); err != nil {
		if err == repository.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetTaskComments возвращает комментарии задачи
func (h *CommentHandler) GetTaskComments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	if !h.requireAccess(c, task.ProjectID, userID, model.ProjectRoleViewer) {
		return
	}

	comments, err := h.commentRepo.GetTaskComments(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// DeleteTaskComment удаляет комментарий; разрешено только автору.
// Комментарий с ответами удалить нельзя (RESTRICT).
func (h *CommentHandler) DeleteTaskComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentRepo.GetTaskComment(c.Request.Context(), commentID)
	if err != nil {
		if err == repository.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}

	if comment.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	if err := h.commentRepo.DeleteTaskComment(c.Request.Context(), commentID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// AddReaction добавляет эмодзи-реакцию на комментарий задачи
func (h *CommentHandler) AddReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.commentRepo.GetTaskComment(c.Request.Context(), commentID); err != nil {
		if err == repository.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reaction := &model.CommentReaction{
		TaskCommentID: commentID,
		UserID:        userID,
		Emoji:         req.Emoji,
	}

	if err := h.commentRepo.AddReaction(c.Request.Context(), reaction); err != nil {
		// Повтор той же реакции нарушает уникальный индекс
		c.JSON(http.StatusConflict, gin.H{"error": "Reaction already exists"})
		return
	}

	c.JSON(http.StatusCreated, reaction)
}

// GetReactions возвращает реакции на комментарий задачи
func (h *CommentHandler) GetReactions(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.commentRepo.GetTaskComment(c.Request.Context(), commentID); err != nil {
		if err == repository.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}

	reactions, err := h.commentRepo.GetReactions(c.Request.Context(), commentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reactions"})
		return
	}

	c.JSON(http.StatusOK, reactions)
}

// RemoveReaction удаляет реакцию пользователя
func (h *CommentHandler) RemoveReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.commentRepo.RemoveReaction(c.Request.Context(), commentID, userID, req.Emoji); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove reaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reaction removed"})
}

// AddTaskCommentAttachment добавляет вложение к комментарию задачи
func (h *CommentHandler) AddTaskCommentAttachment(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.commentRepo.GetTaskComment(c.Request.Context(), commentID); err != nil {
		if err == repository.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}

	var req AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	attachment := &model.CommentAttachment{
		TaskCommentID: &commentID,
		FileName:      req.FileName,
		FileURL:       req.FileURL,
		FileType:      req.FileType,
		FileSize:      req.FileSize,
	}

	if err := h.commentRepo.AddAttachment(c.Request.Context(), attachment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add attachment"})
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// GetTaskCommentAttachments возвращает вложения комментария задачи
func (h *CommentHandler) GetTaskCommentAttachments(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.commentRepo.GetTaskComment(c.Request.Context(), commentID); err != nil {
		if err == repository.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}

	attachments, err := h.commentRepo.GetTaskCommentAttachments(c.Request.Context(), commentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attachments"})
		return
	}

	c.JSON(http.StatusOK, attachments)
}

// AddProjectCommentAttachment добавляет вложение к комментарию проекта
func (h *CommentHandler) AddProjectCommentAttachment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentRepo.GetProjectComment(c.Request.Context(), commentID)
	if err != nil {
		if err == repository.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}

	if !h.requireAccess(c, comment.ProjectID, userID, model.ProjectRoleMember) {
		return
	}

	var req AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	attachment := &model.CommentAttachment{
		ProjectCommentID: &commentID,
		FileName:         req.FileName,
		FileURL:          req.FileURL,
		FileType:         req.FileType,
		FileSize:         req.FileSize,
	}

	if err := h.commentRepo.AddAttachment(c.Request.Context(), attachment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add attachment"})
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// GetProjectCommentAttachments возвращает вложения комментария проекта
func (h *CommentHandler) GetProjectCommentAttachments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentRepo.GetProjectComment(c.Request.Context(), commentID)
	if err != nil {
		if err == repository.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}

	if !h.requireAccess(c, comment.ProjectID, userID, model.ProjectRoleViewer) {
		return
	}

	attachments, err := h.commentRepo.GetProjectCommentAttachments(c.Request.Context(), commentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attachments"})
		return
	}

	c.JSON(http.StatusOK, attachments)
}

// CreateProjectComment добавляет комментарий на уровне проекта
func (h *CommentHandler) CreateProjectComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.projectRepo.GetByID(c.Request.Context(), projectID); err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	if !h.requireAccess(c, projectID, userID, model.ProjectRoleMember) {
		return
	}

	var req ProjectCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment := &model.ProjectComment{
		ProjectID: projectID,
		AuthorID:  userID,
		Content:   req.Content,
		Color:     req.Color,
	}

	if err := h.commentRepo.CreateProjectComment(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetProjectComments возвращает комментарии проекта
func (h *CommentHandler) GetProjectComments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.projectRepo.GetByID(c.Request.Context(), projectID); err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	if !h.requireAccess(c, projectID, userID, model.ProjectRoleViewer) {
		return
	}

	comments, err := h.commentRepo.GetProjectComments(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// PinProjectComment закрепляет или открепляет комментарий проекта
func (h *CommentHandler) PinProjectComment(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Pinned bool `json:"pinned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.commentRepo.SetPinned(c.Request.Context(), commentID, req.Pinned); err != nil {
		if err == repository.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment updated"})
}

func (h *CommentHandler) requireAccess(c *gin.Context, projectID, userID uuid.UUID, requiredRole string) bool {
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
