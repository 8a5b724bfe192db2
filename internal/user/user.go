package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role controls what a user may do. Tenants book, owners list properties,
// admins can do both plus review.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTenant Role = "tenant"
	RoleOwner  Role = "owner"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("user account is deactivated")
	ErrValidation         = errors.New("invalid user details")
)

type User struct {
	ID             uuid.UUID
	Email          string
	Username       string
	HashedPassword string
	FullName       string
	Phone          string
	Role           Role
	IsActive       bool
	CreatedAt      time.Time
}
