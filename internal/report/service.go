package report

import (
	"context"
)

type Repository interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	return s.repo.DashboardStats(ctx)
}
