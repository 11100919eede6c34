package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"projecthub/internal/handler"
	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupCommentTest(t *testing.T, userID uuid.UUID) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := newMockDB(t)

	commentRepo := repository.NewCommentRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	memberRepo := repository.NewProjectMemberRepository(gormDB)
	commentHandler := handler.NewCommentHandler(commentRepo, taskRepo, projectRepo, memberRepo)

	r := gin.Default()
	r.Use(authAs(userID))
	r.POST("/project-comments/:id/attachments", commentHandler.AddProjectCommentAttachment)
	r.GET("/project-comments/:id/attachments", commentHandler.GetProjectCommentAttachments)

	return r, mock
}

func projectCommentRows(commentID, projectID, authorID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "project_id", "author_id", "content", "is_pinned", "color", "created_at"}).
		AddRow(commentID.String(), projectID.String(), authorID.String(), "Release notes", false, "", time.Now())
}

func projectMemberRows(projectID, userID uuid.UUID, role string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "project_id", "user_id", "role", "created_at"}).
		AddRow(uuid.New().String(), projectID.String(), userID.String(), role, time.Now())
}

func TestAddProjectCommentAttachment_Success(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mock := setupCommentTest(t, userID)

	commentID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "project_comments" WHERE id = .*`).
		WillReturnRows(projectCommentRows(commentID, projectID, uuid.New()))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND user_id = .*`).
		WillReturnRows(projectMemberRows(projectID, userID, model.ProjectRoleMember))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "comment_attachments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	reqBody := map[string]interface{}{
		"file_name": "spec.pdf",
		"file_url":  "https://files.example.com/spec.pdf",
		"file_type": "application/pdf",
		"file_size": 2048,
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/project-comments/"+commentID.String()+"/attachments", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), "spec.pdf")
	assert.Contains(t, resp.Body.String(), commentID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddProjectCommentAttachment_CommentNotFound(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mock := setupCommentTest(t, userID)

	mock.ExpectQuery(`SELECT .* FROM "project_comments" WHERE id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	reqBody := map[string]interface{}{
		"file_name": "spec.pdf",
		"file_url":  "https://files.example.com/spec.pdf",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/project-comments/"+uuid.New().String()+"/attachments", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Comment not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddProjectCommentAttachment_NonMemberForbidden(t *testing.T) {
	// Arrange: пользователь не состоит в проекте - вложение не создается
	userID := uuid.New()
	router, mock := setupCommentTest(t, userID)

	commentID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "project_comments" WHERE id = .*`).
		WillReturnRows(projectCommentRows(commentID, projectID, uuid.New()))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND user_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	reqBody := map[string]interface{}{
		"file_name": "spec.pdf",
		"file_url":  "https://files.example.com/spec.pdf",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/project-comments/"+commentID.String()+"/attachments", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: отказ до какой-либо записи
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProjectCommentAttachments_NonMemberForbidden(t *testing.T) {
	// Arrange: метаданные вложений чужого проекта недоступны
	userID := uuid.New()
	router, mock := setupCommentTest(t, userID)

	commentID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "project_comments" WHERE id = .*`).
		WillReturnRows(projectCommentRows(commentID, projectID, uuid.New()))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND user_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	req, _ := http.NewRequest("GET", "/project-comments/"+commentID.String()+"/attachments", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: список вложений не запрашивается вовсе
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProjectCommentAttachments_Success(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mock := setupCommentTest(t, userID)

	commentID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "project_comments" WHERE id = .*`).
		WillReturnRows(projectCommentRows(commentID, projectID, uuid.New()))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND user_id = .*`).
		WillReturnRows(projectMemberRows(projectID, userID, model.ProjectRoleViewer))
	mock.ExpectQuery(`SELECT .* FROM "comment_attachments" WHERE project_comment_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_comment_id", "task_comment_id", "file_name", "file_url", "file_type", "file_size", "created_at"}).
			AddRow(uuid.New().String(), commentID.String(), nil, "spec.pdf", "https://files.example.com/spec.pdf", "application/pdf", 2048, time.Now()))

	req, _ := http.NewRequest("GET", "/project-comments/"+commentID.String()+"/attachments", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "spec.pdf")
	assert.NoError(t, mock.ExpectationsWereMet())
}
