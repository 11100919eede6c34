package repository_test

import (
	"context"
	"testing"

	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestProjectMemberRepository_ListMemberIDs(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewProjectMemberRepository(gormDB)

	projectID := uuid.New()
	exclude := uuid.New()
	first := uuid.New()
	second := uuid.New()

	// Проекция возвращает только user_id, без полных строк членства
	mock.ExpectQuery(`SELECT "user_id" FROM "project_members" WHERE project_id = .* AND user_id <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).
			AddRow(first.String()).
			AddRow(second.String()))

	// Act
	ids, err := memberRepo.ListMemberIDs(context.Background(), projectID, exclude)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectMemberRepository_ListMemberIDs_Empty(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewProjectMemberRepository(gormDB)

	// Пустой проект - пустой список, не ошибка
	mock.ExpectQuery(`SELECT "user_id" FROM "project_members" WHERE project_id = .* AND user_id <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	// Act
	ids, err := memberRepo.ListMemberIDs(context.Background(), uuid.New(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectMemberRepository_ListMemberIDsByRole(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewProjectMemberRepository(gormDB)

	pmID := uuid.New()

	// Фильтр по роли выполняется в БД, а не в памяти
	mock.ExpectQuery(`SELECT "user_id" FROM "project_members" WHERE project_id = .* AND role = .* AND user_id <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(pmID.String()))

	// Act
	ids, err := memberRepo.ListMemberIDsByRole(context.Background(), uuid.New(), model.ProjectRolePM, uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{pmID}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectMemberRepository_CheckAccess(t *testing.T) {
	tests := []struct {
		name         string
		memberRole   string
		requiredRole string
		want         bool
	}{
		{"ViewerSatisfiedByViewer", model.ProjectRoleViewer, model.ProjectRoleViewer, true},
		{"ViewerSatisfiedByPM", model.ProjectRolePM, model.ProjectRoleViewer, true},
		{"MemberRejectsViewer", model.ProjectRoleViewer, model.ProjectRoleMember, false},
		{"MemberSatisfiedByPM", model.ProjectRolePM, model.ProjectRoleMember, true},
		{"PMRejectsMember", model.ProjectRoleMember, model.ProjectRolePM, false},
		{"PMSatisfiedByPM", model.ProjectRolePM, model.ProjectRolePM, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			gormDB, mock := setupMockDB(t)
			memberRepo := repository.NewProjectMemberRepository(gormDB)

			projectID := uuid.New()
			userID := uuid.New()

			mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND user_id = .*`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "user_id", "role"}).
					AddRow(uuid.New().String(), projectID.String(), userID.String(), tt.memberRole))

			// Act
			ok, err := memberRepo.CheckAccess(context.Background(), projectID, userID, tt.requiredRole)

			// Assert
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProjectMemberRepository_CheckAccess_NotMember(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewProjectMemberRepository(gormDB)

	// Нет членства - нет доступа, даже на чтение
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND user_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	ok, err := memberRepo.CheckAccess(context.Background(), uuid.New(), uuid.New(), model.ProjectRoleViewer)

	// Assert
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
