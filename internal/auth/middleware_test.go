package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/studyprep/prep-platform/internal/db/repository"
)

func adminToken(t *testing.T, service *Service, store *stubUserStore) string {
	t.Helper()

	hash, err := HashPassword("correct horse")
	assert.NoError(t, err)
	store.users["admin@example.com"] = repository.User{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: &hash,
		DisplayName:  "Admin",
		IsAdmin:      true,
		CreatedAt:    time.Now(),
	}

	_, tokens, err := service.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "correct horse",
	})
	assert.NoError(t, err)
	return tokens.AccessToken
}

func TestMiddlewareInjectsClaimsForRequireAdmin(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	var served bool
	handler := Middleware(service, service.logger)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
	})))

	req := httptest.NewRequest(http.MethodPost, "/v1/questions", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, service, store))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, served)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	_, tokens, err := service.Register(context.Background(), RegisterRequest{
		Email:       "student@example.com",
		Password:    "correct horse",
		DisplayName: "Student",
	})
	assert.NoError(t, err)

	handler := Middleware(service, service.logger)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})))

	req := httptest.NewRequest(http.MethodPost, "/v1/questions", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAuthWithoutToken(t *testing.T) {
	service := newTestService(newStubUserStore())

	handler := Middleware(service, service.logger)(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})))

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
