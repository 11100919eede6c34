package handler

import (
	"net/http"

	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NoteHandler struct {
	noteRepo   *repository.NoteRepository
	memberRepo *repository.ProjectMemberRepository
}

func NewNoteHandler(noteRepo *repository.NoteRepository, memberRepo *repository.ProjectMemberRepository) *NoteHandler {
	return &NoteHandler{noteRepo: noteRepo, memberRepo: memberRepo}
}

// NoteRequest представляет запрос на создание или обновление заметки
// на доске проекта
type NoteRequest struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Color     string  `json:"color"`
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	ImageURL  string  `json:"image_url"`
}

// Create добавляет заметку на доску проекта
func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, userID) {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	note := &model.ProjectNote{
		ProjectID:   projectID,
		CreatedByID: userID,
		Title:       req.Title,
		Content:     req.Content,
		Color:       req.Color,
		PositionX:   req.PositionX,
		PositionY:   req.PositionY,
		Width:       req.Width,
		Height:      req.Height,
		ImageURL:    req.ImageURL,
	}

	if err := h.noteRepo.Create(c.Request.Context(), note); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	c.JSON(http.StatusCreated, note)
}

// GetByProject возвращает заметки доски проекта
func (h *NoteHandler) GetByProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	hasAccess, err := h.memberRepo.CheckAccess(c.Request.Context(), projectID, userID, model.ProjectRoleViewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this project"})
		return
	}

	notes, err := h.noteRepo.GetByProjectID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

// Update обновляет заметку (текст, цвет, положение на доске)
func (h *NoteHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	noteID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	note, err := h.noteRepo.GetByID(c.Request.Context(), noteID)
	if err != nil {
		if err == repository.ErrNoteNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		return
	}

	if !h.requireAccess(c, note.ProjectID, userID) {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	note.Title = req.Title
	note.Content = req.Content
	note.Color = req.Color
	note.PositionX = req.PositionX
	note.PositionY = req.PositionY
	note.Width = req.Width
	note.Height = req.Height
	note.ImageURL = req.ImageURL

	if err := h.noteRepo.Update(c.Request.Context(), note); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
		return
	}

	c.JSON(http.StatusOK, note)
}

// Delete удаляет заметку с доски
func (h *NoteHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	noteID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	note, err := h.noteRepo.GetByID(c.Request.Context(), noteID)
	if err != nil {
		if err == repository.ErrNoteNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		return
	}

	if !h.requireAccess(c, note.ProjectID, userID) {
		return
	}

	if err := h.noteRepo.Delete(c.Request.Context(), noteID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}

func (h *NoteHandler) requireAccess(c *gin.Context, projectID, userID uuid.UUID) bool {
	hasAccess, err := h.memberRepo.CheckAccess(c.Request.Context(), projectID, userID, model.ProjectRoleMember)
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
