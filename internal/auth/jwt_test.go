package auth_test

import (
	"testing"
	"time"

	"projecthub/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	manager := auth.NewManager("test-secret-key", 24)

	// Генерируем токен
	userID := uuid.New()
	token, err := manager.Generate(userID)

	// Проверяем, что токен создан без ошибок
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Парсим токен
	parsedUserID, err := manager.Parse(token)

	// Проверяем, что токен был успешно проверен и из него извлечен правильный ID пользователя
	assert.NoError(t, err)
	assert.Equal(t, userID, parsedUserID)
}

func TestParseToken_InvalidToken(t *testing.T) {
	manager := auth.NewManager("test-secret-key", 24)

	// Пытаемся парсить неверный токен
	_, err := manager.Parse("invalid-token")

	// Проверяем, что возникла ошибка
	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_ExpiredToken(t *testing.T) {
	manager := auth.NewManager("test-secret-key", 24)

	// Создаем токен с истекшим сроком действия
	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(-1 * time.Hour).Unix(), // Токен истек 1 час назад
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte("test-secret-key"))

	// Пытаемся парсить истекший токен
	_, err := manager.Parse(expiredToken)

	// Проверяем, что возникла ошибка
	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_MissingClaims(t *testing.T) {
	manager := auth.NewManager("test-secret-key", 24)

	// Создаем токен без ID пользователя
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		// Отсутствует "user_id"
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutUserID, _ := token.SignedString([]byte("test-secret-key"))

	// Пытаемся парсить токен
	_, err := manager.Parse(tokenWithoutUserID)

	// Проверяем, что возникла ошибка
	assert.Error(t, err)
	assert.Equal(t, "invalid claims", err.Error())
}

func TestParseToken_WrongSecret(t *testing.T) {
	manager := auth.NewManager("test-secret-key", 24)
	other := auth.NewManager("another-secret", 24)

	token, err := other.Generate(uuid.New())
	assert.NoError(t, err)

	// Токен подписан другим ключом
	_, err = manager.Parse(token)
	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}
