package handler

import (
	"net/http"
	"time"

	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TimeEntryHandler struct {
	entryRepo  *repository.TimeEntryRepository
	taskRepo   *repository.TaskRepository
	memberRepo *repository.ProjectMemberRepository
}

func NewTimeEntryHandler(
	entryRepo *repository.TimeEntryRepository,
	taskRepo *repository.TaskRepository,
	memberRepo *repository.ProjectMemberRepository,
) *TimeEntryHandler {
	return &TimeEntryHandler{
		entryRepo:  entryRepo,
		taskRepo:   taskRepo,
		memberRepo: memberRepo,
	}
}

// TimeEntryRequest представляет запрос на добавление записи времени:
// либо интервал started_at/ended_at, либо ручная длительность
type TimeEntryRequest struct {
	StartedAt       *time.Time `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Description     string     `json:"description"`
}

// Create добавляет запись времени к задаче и увеличивает ее накопленный итог
func (h *TimeEntryHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	if !h.requireAccess(c, task.ProjectID, userID) {
		return
	}

	var req TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	entry := &model.TimeEntry{
		TaskID:      task.ID,
		UserID:      userID,
		Description: req.Description,
	}

	switch {
	case req.StartedAt != nil && req.EndedAt != nil:
		if !req.EndedAt.After(*req.StartedAt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ended_at must be after started_at"})
			return
		}
		entry.StartedAt = req.StartedAt
		entry.EndedAt = req.EndedAt
		entry.DurationMinutes = int(req.EndedAt.Sub(*req.StartedAt).Minutes())
	case req.DurationMinutes > 0:
		entry.DurationMinutes = req.DurationMinutes
		entry.IsManual = true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either an interval or a positive duration is required"})
		return
	}

	if err := h.entryRepo.Create(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create time entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetByTask возвращает записи времени задачи
func (h *TimeEntryHandler) GetByTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	hasAccess, err := h.memberRepo.CheckAccess(c.Request.Context(), task.ProjectID, userID, model.ProjectRoleViewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this project"})
		return
	}

	entries, err := h.entryRepo.GetByTaskID(c.Request.Context(), task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve time entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Delete удаляет запись времени; разрешено только ее автору
func (h *TimeEntryHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.entryRepo.GetByID(c.Request.Context(), entryID)
	if err != nil {
		if err == repository.ErrTimeEntryNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Time entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve time entry"})
		return
	}

	if entry.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own time entries"})
		return
	}

	if err := h.entryRepo.Delete(c.Request.Context(), entryID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete time entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Time entry deleted"})
}

func (h *TimeEntryHandler) loadTask(c *gin.Context) (*model.Task, bool) {
	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return nil, false
	}

	return task, true
}

func (h *TimeEntryHandler) requireAccess(c *gin.Context, projectID, userID uuid.UUID) bool {
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
