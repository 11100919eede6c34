package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"projecthub/internal/handler"
	"projecthub/internal/middleware"
	"projecthub/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

// authAs подставляет пользователя в контекст вместо JWT middleware
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	}
}

func setupInvitationTest(t *testing.T, userID uuid.UUID) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := newMockDB(t)

	invitationRepo := repository.NewInvitationRepository(gormDB)
	orgMemberRepo := repository.NewOrgMemberRepository(gormDB)
	invitationHandler := handler.NewInvitationHandler(invitationRepo, orgMemberRepo, 30)

	r := gin.Default()
	r.Use(authAs(userID))
	r.POST("/invitations/:token/accept", invitationHandler.Accept)

	return r, mock
}

func invitationRows(invID, orgID uuid.UUID, token string, isUsed bool, expiresAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "organization_id", "token", "email", "role",
		"is_used", "used_at", "used_by_user_id", "expires_at", "created_at",
	}).AddRow(
		invID.String(), orgID.String(), token, nil, "member",
		isUsed, nil, nil, expiresAt, time.Now().Add(-time.Hour),
	)
}

func TestAcceptInvitation_Success(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mock := setupInvitationTest(t, userID)

	invID := uuid.New()
	orgID := uuid.New()
	token := "valid-token"

	// Приглашение валидно: не использовано и не истекло
	mock.ExpectQuery(`SELECT .* FROM "organization_invitations" WHERE token = .*`).
		WillReturnRows(invitationRows(invID, orgID, token, false, time.Now().Add(24*time.Hour)))

	// Добавление участника: членства еще нет, создаем новое
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "organization_members" WHERE organization_id = .* AND user_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "organization_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Приглашение помечается использованным одним обновлением
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "organization_invitations" SET .* WHERE id = .* AND is_used = false`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, _ := http.NewRequest("POST", "/invitations/"+token+"/accept", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invitation accepted")
	assert.Contains(t, resp.Body.String(), orgID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptInvitation_AlreadyUsed(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mock := setupInvitationTest(t, userID)

	invID := uuid.New()
	orgID := uuid.New()
	token := "used-token"

	// Использованное приглашение возвращается из БД, но отклоняется
	mock.ExpectQuery(`SELECT .* FROM "organization_invitations" WHERE token = .*`).
		WillReturnRows(invitationRows(invID, orgID, token, true, time.Now().Add(24*time.Hour)))

	req, _ := http.NewRequest("POST", "/invitations/"+token+"/accept", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusGone, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invitation already used")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptInvitation_Expired(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mock := setupInvitationTest(t, userID)

	invID := uuid.New()
	orgID := uuid.New()
	token := "expired-token"

	// Истекшее приглашение не дает членства, но строка остается читаемой
	mock.ExpectQuery(`SELECT .* FROM "organization_invitations" WHERE token = .*`).
		WillReturnRows(invitationRows(invID, orgID, token, false, time.Now().Add(-time.Hour)))

	req, _ := http.NewRequest("POST", "/invitations/"+token+"/accept", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusGone, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invitation expired")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptInvitation_NotFound(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mock := setupInvitationTest(t, userID)

	mock.ExpectQuery(`SELECT .* FROM "organization_invitations" WHERE token = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	req, _ := http.NewRequest("POST", "/invitations/unknown-token/accept", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invitation not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptInvitation_MarkUsedRace(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mock := setupInvitationTest(t, userID)

	invID := uuid.New()
	orgID := uuid.New()
	token := "raced-token"

	mock.ExpectQuery(`SELECT .* FROM "organization_invitations" WHERE token = .*`).
		WillReturnRows(invitationRows(invID, orgID, token, false, time.Now().Add(24*time.Hour)))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "organization_members" WHERE organization_id = .* AND user_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "organization_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Кто-то успел использовать приглашение между чтением и обновлением
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "organization_invitations" SET .* WHERE id = .* AND is_used = false`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	req, _ := http.NewRequest("POST", "/invitations/"+token+"/accept", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invitation already used")
	assert.NoError(t, mock.ExpectationsWereMet())
}
