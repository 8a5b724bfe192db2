package churn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

var ErrNoHistory = errors.New("tenant has no booking history")

// riskThreshold is the score at or above which a tenant counts as at
// risk of leaving.
const riskThreshold = 70

//go:generate mockgen -source=service.go -destination=service_mock.go -package=churn
type HistoryRepository interface {
	TenantFeatures(ctx context.Context, tenantID uuid.UUID) (*FeatureRecord, error)
	AllTenantFeatures(ctx context.Context) ([]*FeatureRecord, error)
}

// Score is the retention outlook for one tenant.
type Score struct {
	TenantID uuid.UUID
	Risk     int
	AtRisk   bool
	Features *FeatureRecord
}

type Service struct {
	repo  HistoryRepository
	model *Model
}

func NewService(repo HistoryRepository, model *Model) *Service {
	return &Service{repo: repo, model: model}
}

func (s *Service) ScoreTenant(ctx context.Context, tenantID uuid.UUID) (*Score, error) {
	rec, err := s.repo.TenantFeatures(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feature record: %w", err)
	}

	return s.score(rec), nil
}

// ScoreAll scores every tenant with at least one booking. Records that
// fail validation are skipped and logged rather than failing the whole
// sweep.
func (s *Service) ScoreAll(ctx context.Context) ([]*Score, error) {
	records, err := s.repo.AllTenantFeatures(ctx)
	if err != nil {
		return nil, err
	}

	scores := make([]*Score, 0, len(records))

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			slog.Warn("skipping tenant with invalid features", "tenant_id", rec.TenantID, "error", err)
			continue
		}

		scores = append(scores, s.score(rec))
	}

	return scores, nil
}

func (s *Service) score(rec *FeatureRecord) *Score {
	risk := s.model.RiskScore(rec)

	return &Score{
		TenantID: rec.TenantID,
		Risk:     risk,
		AtRisk:   risk >= riskThreshold,
		Features: rec,
	}
}
