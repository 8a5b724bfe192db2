package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListAdminEmails(ctx context.Context) ([]string, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterParams struct {
	Email    string
	Username string
	Password string
	FullName string
	Phone    string
	Role     Role
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if params.Email == "" || params.Username == "" {
		return nil, fmt.Errorf("%w: email and username are required", ErrValidation)
	}

	if len(params.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	role := params.Role
	if role == "" {
		role = RoleTenant
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Email:          params.Email,
		Username:       params.Username,
		HashedPassword: string(hash),
		FullName:       params.FullName,
		Phone:          params.Phone,
		Role:           role,
		IsActive:       true,
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate checks email+password and returns the user on success.
// Disabled accounts authenticate like unknown ones to avoid leaking state.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// AdminEmails lists the active admin accounts, used to address the
// worker's summary notifications.
func (s *Service) AdminEmails(ctx context.Context) ([]string, error) {
	return s.repo.ListAdminEmails(ctx)
}
