package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectUserColumns = `
	id, email, username, hashed_password, full_name, phone, role, is_active, created_at
`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*user.User, error) {
	var u user.User

	var roleStr string

	if err := s.Scan(
		&u.ID, &u.Email, &u.Username, &u.HashedPassword, &u.FullName,
		&u.Phone, &roleStr, &u.IsActive, &u.CreatedAt,
	); err != nil {
		return nil, err
	}

	u.Role = user.Role(roleStr)

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, username, hashed_password, full_name, phone, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		u.Email,
		u.Username,
		u.HashedPassword,
		u.FullName,
		u.Phone,
		u.Role,
		u.IsActive,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		// Unique violations on email/username surface as domain errors
		// so the handler can answer with a useful message.
		msg := err.Error()
		if strings.Contains(msg, "users_email_key") {
			return user.ErrEmailTaken
		}

		if strings.Contains(msg, "users_username_key") {
			return user.ErrUsernameTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	return u, nil
}

func (s *Store) ListAdminEmails(ctx context.Context) ([]string, error) {
	query := `SELECT email FROM users WHERE role = $1 AND is_active`

	rows, err := s.db.QueryContext(ctx, query, user.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	defer rows.Close()

	var emails []string

	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scanning admin email: %w", err)
		}

		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating admin rows: %w", err)
	}

	return emails, nil
}
