package property

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=property
type Repository interface {
	CreateProperty(ctx context.Context, p *Property) error
	GetProperty(ctx context.Context, id uuid.UUID) (*Property, error)
	UpdateProperty(ctx context.Context, p *Property) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	ListProperties(ctx context.Context, filter ListFilter) ([]*Property, int, error)

	// DeleteProperty removes a property. It must fail with
	// ErrActiveBookings while any pending or confirmed booking still
	// references the property, checked atomically with the delete.
	DeleteProperty(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	OwnerID      *uuid.UUID
	Name         string
	Description  string
	Address      string
	MonthlyPrice int64
	Bedrooms     int
	Bathrooms    int
	SizeSqm      float64
	Images       []string
}

type ListFilter struct {
	Search        *string
	MinPrice      *int64
	MaxPrice      *int64
	Bedrooms      *int
	AvailableOnly bool
	Page          int
	PerPage       int
}

// ListResult pairs a page of properties with the unpaginated total.
type ListResult struct {
	Properties []*Property
	Total      int
	Page       int
	PerPage    int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Property, error) {
	if params.MonthlyPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	p := &Property{
		OwnerID:      params.OwnerID,
		Name:         params.Name,
		Description:  params.Description,
		Address:      params.Address,
		MonthlyPrice: params.MonthlyPrice,
		Bedrooms:     params.Bedrooms,
		Bathrooms:    params.Bathrooms,
		SizeSqm:      params.SizeSqm,
		IsAvailable:  true,
		Status:       StatusPending,
		Images:       params.Images,
	}

	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Property, error) {
	return s.repo.GetProperty(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}

	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 10
	}

	properties, total, err := s.repo.ListProperties(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Properties: properties,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
	}, nil
}

func (s *Service) Update(ctx context.Context, p *Property) error {
	if p.MonthlyPrice <= 0 {
		return ErrInvalidPrice
	}

	return s.repo.UpdateProperty(ctx, p)
}

// Review sets the listing-approval status. Authorization is enforced at
// the HTTP layer (admin only).
func (s *Service) Review(ctx context.Context, id uuid.UUID, status Status) error {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return ErrInvalidStatus
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProperty(ctx, id)
}
