package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=audit
type Repository interface {
	InsertEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error)
}

type ListFilter struct {
	UserID     *uuid.UUID
	Action     *Action
	EntityType *string
	Since      *time.Time
	Limit      int
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record writes an audit entry on a best-effort basis. A failed write is
// logged and swallowed; audit must never fail or roll back the operation
// it describes.
func (s *Service) Record(ctx context.Context, e Entry) {
	if err := s.repo.InsertEntry(ctx, &e); err != nil {
		slog.Error("failed to write audit entry",
			"action", e.Action, "entity_type", e.EntityType, "error", err)
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	return s.repo.ListEntries(ctx, filter)
}
