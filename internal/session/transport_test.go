package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"projecthub/internal/session"

	"github.com/stretchr/testify/assert"
)

func TestTransport_AttachesBearerToken(t *testing.T) {
	// Arrange
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	guard, _ := newGuard()
	token := makeToken(time.Now().Add(time.Hour))
	guard.SetToken(token)

	client := &http.Client{Transport: session.NewTransport(guard)}

	// Act
	resp, err := client.Get(server.URL)

	// Assert
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "Bearer "+token, gotAuth)
}

func TestTransport_ExpiredTokenShortCircuits(t *testing.T) {
	// Arrange: сервер не должен получить ни одного запроса
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	var redirected string
	guard := session.NewGuard(store, func(path string) { redirected = path })
	guard.SetToken(makeToken(time.Now().Add(-time.Hour)))

	client := &http.Client{Transport: session.NewTransport(guard)}

	// Act
	_, err := client.Get(server.URL)

	// Assert: запрос отклонен до отправки, токен очищен, редирект на логин
	assert.ErrorIs(t, err, session.ErrSessionExpired)
	assert.Equal(t, 0, requests)
	assert.Empty(t, guard.Token())
	assert.Equal(t, "/login", redirected)
}

func TestTransport_ServerUnauthorizedClearsToken(t *testing.T) {
	// Arrange: токен еще валиден по мнению клиента, но сервер отвечает 401 -
	// авторитет у сервера
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	var redirected string
	guard := session.NewGuard(store, func(path string) { redirected = path })
	guard.SetToken(makeToken(time.Now().Add(time.Hour)))

	client := &http.Client{Transport: session.NewTransport(guard)}

	// Act
	resp, err := client.Get(server.URL)

	// Assert
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, guard.Token())
	assert.Equal(t, "/login", redirected)
}

func TestTransport_DoesNotMutateOriginalRequest(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	guard, _ := newGuard()
	guard.SetToken(makeToken(time.Now().Add(time.Hour)))

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	transport := session.NewTransport(guard)

	// Act
	resp, err := transport.RoundTrip(req)

	// Assert
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Empty(t, req.Header.Get("Authorization"))
}
