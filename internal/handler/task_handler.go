package handler

import (
	"log"
	"net/http"
	"time"

	"projecthub/internal/model"
	"projecthub/internal/notification"
	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo   *repository.TaskRepository
	memberRepo *repository.ProjectMemberRepository
	userRepo   repository.UserRepositoryInterface
	notifier   *notification.Service
}

func NewTaskHandler(
	taskRepo *repository.TaskRepository,
	memberRepo *repository.ProjectMemberRepository,
	userRepo repository.UserRepositoryInterface,
	notifier *notification.Service,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:   taskRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// TaskRequest представляет запрос на создание или обновление задачи
type TaskRequest struct {
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description"`
	Type             string     `json:"type" binding:"omitempty,oneof=Task Bug Story Epic"`
	Priority         string     `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssigneeID       *string    `json:"assignee_id" binding:"omitempty,uuid"`
	StartDate        *time.Time `json:"start_date"`
	DueDate          *time.Time `json:"due_date"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Tags             string     `json:"tags"`
}

// TaskStatusRequest представляет запрос на смену статуса
type TaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof='To Do' 'In Progress' Blocked Review Done"`
}

// TaskAssignRequest представляет запрос на назначение исполнителя
type TaskAssignRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// Create создает новую задачу в проекте
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, userID, model.ProjectRoleMember) {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task := &model.Task{
		ProjectID:        projectID,
		Title:            req.Title,
		Description:      req.Description,
		Type:             model.TaskTypeTask,
		Status:           model.StatusToDo,
		Priority:         model.PriorityMedium,
		StartDate:        req.StartDate,
		DueDate:          req.DueDate,
		EstimatedMinutes: req.EstimatedMinutes,
		Tags:             req.Tags,
	}

	if req.Type != "" {
		task.Type = req.Type
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}

	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
			return
		}
		task.AssigneeID = &assigneeID
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetByProject возвращает задачи проекта
func (h *TaskHandler) GetByProject(c *gin.Context) {
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

	tasks, err := h.taskRepo.GetByProjectID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetAssigned возвращает задачи, назначенные текущему пользователю,
// по всем проектам
func (h *TaskHandler) GetAssigned(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskRepo.GetByAssignee(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetByID возвращает задачу
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	if !h.requireAccess(c, task.ProjectID, userID, model.ProjectRoleViewer) {
		return
	}

	c.JSON(http.StatusOK, task)
}

// Update обновляет поля задачи, кроме статуса
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	if !h.requireAccess(c, task.ProjectID, userID, model.ProjectRoleMember) {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.StartDate = req.StartDate
	task.DueDate = req.DueDate
	task.EstimatedMinutes = req.EstimatedMinutes
	task.Tags = req.Tags

	if req.Type != "" {
		task.Type = req.Type
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}

	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
			return
		}
		task.AssigneeID = &assigneeID
	}

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateStatus меняет статус задачи и рассылает уведомления. Рассылка
// идет после записи статуса; частично выполненная рассылка не
// откатывается и не повторяется.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	if !h.requireAccess(c, task.ProjectID, userID, model.ProjectRoleMember) {
		return
	}

	var req TaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	oldStatus := task.Status
	if oldStatus == req.Status {
		c.JSON(http.StatusOK, task)
		return
	}

	task.Status = req.Status
	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	ctx := c.Request.Context()
	if err := h.notifier.NotifyStatusChange(ctx, task, oldStatus, task.Status, userID); err != nil {
		log.Printf("⚠️  Status change fan-out incomplete for task %s: %v", task.ID, err)
	}

	switch task.Status {
	case model.StatusDone:
		if err := h.notifier.NotifyCompleted(ctx, task, userID); err != nil {
			log.Printf("⚠️  Completion fan-out incomplete for task %s: %v", task.ID, err)
		}
	case model.StatusBlocked:
		if err := h.notifier.NotifyBlocked(ctx, task, userID); err != nil {
			log.Printf("⚠️  Blocked fan-out incomplete for task %s: %v", task.ID, err)
		}
	}

	c.JSON(http.StatusOK, task)
}

// Delete удаляет задачу вместе с записями времени, комментариями и
// уведомлениями (каскад)
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	if !h.requireAccess(c, task.ProjectID, userID, model.ProjectRoleMember) {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), task.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// AssignUser назначает исполнителя задачи
func (h *TaskHandler) AssignUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	if !h.requireAccess(c, task.ProjectID, userID, model.ProjectRoleMember) {
		return
	}

	var req TaskAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	assigneeID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), assigneeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.taskRepo.AssignUser(c.Request.Context(), task.ID, assigneeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User assigned"})
}

// UnassignUser снимает исполнителя с задачи
func (h *TaskHandler) UnassignUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	if !h.requireAccess(c, task.ProjectID, userID, model.ProjectRoleMember) {
		return
	}

	if err := h.taskRepo.UnassignUser(c.Request.Context(), task.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unassigned"})
}

func (h *TaskHandler) loadTask(c *gin.Context) (*model.Task, bool) {
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

func (h *TaskHandler) requireAccess(c *gin.Context, projectID, userID uuid.UUID, requiredRole string) bool {
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
