package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a platform account row.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash *string
	DisplayName  string
	IsAdmin      bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// NewUser carries the fields for account creation.
type NewUser struct {
	Email        string
	PasswordHash *string
	DisplayName  string
	IsAdmin      bool
}

// UserRepository exposes the user operations the auth flows need.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "user_id, email, password_hash, display_name, is_admin, created_at, last_login_at"

// Create inserts a new account; a duplicate email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, params NewUser) (User, error) {
	user := User{
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		DisplayName:  params.DisplayName,
		IsAdmin:      params.IsAdmin,
	}
	row := r.db.QueryRow(ctx,
		"INSERT INTO users (email, password_hash, display_name, is_admin) VALUES ($1, $2, $3, $4) RETURNING user_id, created_at",
		params.Email, params.PasswordHash, params.DisplayName, params.IsAdmin,
	)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrDuplicate
		}
		return User{}, err
	}
	return user, nil
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.scanOne(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return r.scanOne(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE user_id = $1", id))
}

// UpdateLastLogin records the last login timestamp.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET last_login_at = now() WHERE user_id = $1", id)
	return err
}

func (r *UserRepository) scanOne(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.IsAdmin, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}
