package auth

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/studyprep/prep-platform/internal/auth/jwt"
	"github.com/studyprep/prep-platform/internal/db/repository"
)

var errNoUser = errors.New("user not found")

type stubUserStore struct {
	users      map[string]repository.User
	lastLogins []uuid.UUID
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: map[string]repository.User{}}
}

func (s *stubUserStore) Create(_ context.Context, params repository.NewUser) (repository.User, error) {
	if _, exists := s.users[params.Email]; exists {
		return repository.User{}, repository.ErrDuplicate
	}
	user := repository.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		DisplayName:  params.DisplayName,
		CreatedAt:    time.Now(),
	}
	s.users[params.Email] = user
	return user, nil
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	if user, ok := s.users[email]; ok {
		return user, nil
	}
	return repository.User{}, errNoUser
}

func (s *stubUserStore) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return repository.User{}, errNoUser
}

func (s *stubUserStore) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	s.lastLogins = append(s.lastLogins, id)
	return nil
}

func newTestService(store UserStore) *Service {
	return NewService(store, ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte("access-secret"),
			RefreshSecret: []byte("refresh-secret"),
		},
	}, zerolog.New(io.Discard))
}

func TestRegisterAndLogin(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	user, tokens, err := service.Register(context.Background(), RegisterRequest{
		Email:       "student@example.com",
		Password:    "correct horse",
		DisplayName: "Student",
	})
	assert.NoError(t, err)
	assert.Equal(t, "student@example.com", user.Email)
	assert.False(t, user.IsAdmin, "registration never grants admin")
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)

	loggedIn, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "student@example.com",
		Password: "correct horse",
	})
	assert.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, []uuid.UUID{user.ID}, store.lastLogins)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service := newTestService(newStubUserStore())

	req := RegisterRequest{Email: "dup@example.com", Password: "long enough", DisplayName: "Dup"}
	_, _, err := service.Register(context.Background(), req)
	assert.NoError(t, err)

	_, _, err = service.Register(context.Background(), req)
	assert.EqualError(t, err, "email already registered")
}

func TestRegisterShortPassword(t *testing.T) {
	service := newTestService(newStubUserStore())

	_, _, err := service.Register(context.Background(), RegisterRequest{
		Email:       "short@example.com",
		Password:    "short",
		DisplayName: "Short",
	})
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	_, _, err := service.Register(context.Background(), RegisterRequest{
		Email:       "student@example.com",
		Password:    "correct horse",
		DisplayName: "Student",
	})
	assert.NoError(t, err)

	_, _, err = service.Login(context.Background(), LoginRequest{
		Email:    "student@example.com",
		Password: "wrong password",
	})
	assert.EqualError(t, err, "invalid credentials")

	_, _, err = service.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse",
	})
	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginPasswordlessAccount(t *testing.T) {
	store := newStubUserStore()
	store.users["oauth@example.com"] = repository.User{
		ID:          uuid.New(),
		Email:       "oauth@example.com",
		DisplayName: "OAuth User",
	}
	service := newTestService(store)

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "oauth@example.com",
		Password: "anything at all",
	})
	assert.EqualError(t, err, "invalid credentials")
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	_, tokens, err := service.Register(context.Background(), RegisterRequest{
		Email:       "student@example.com",
		Password:    "correct horse",
		DisplayName: "Student",
	})
	assert.NoError(t, err)

	refreshed, err := service.RefreshToken(context.Background(), tokens.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = service.RefreshToken(context.Background(), tokens.AccessToken)
	assert.Error(t, err, "access token must not pass refresh validation")
}

func TestValidateTokenClaims(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	user, tokens, err := service.Register(context.Background(), RegisterRequest{
		Email:       "student@example.com",
		Password:    "correct horse",
		DisplayName: "Student",
	})
	assert.NoError(t, err)

	claims, err := service.ValidateToken(tokens.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)

	_, err = service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
