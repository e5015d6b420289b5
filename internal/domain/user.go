// Package domain
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidRole   = errors.New("invalid role")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RolePublisher Role = "publisher"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RolePublisher:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoleUpdateRequest struct {
	Role Role `json:"role" validate:"required"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashed string) error
	UpdateRole(ctx context.Context, userID uuid.UUID, role Role) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type UserService interface {
	List(ctx context.Context) ([]*User, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role Role) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
