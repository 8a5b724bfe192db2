package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/audit"
	"github.com/MrJamesThe3rd/casita/internal/property"
	"github.com/MrJamesThe3rd/casita/internal/user"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=booking
type Repository interface {
	// CreateBooking persists b. The store re-runs the conflict check for
	// b's property under a per-property serializing lock in the same
	// transaction as the insert and returns ErrDateConflict when a
	// blocking booking overlaps, so two concurrent requests for the same
	// dates cannot both commit.
	CreateBooking(ctx context.Context, b *Booking) error

	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	ListBookings(ctx context.Context, filter ListFilter) ([]*Booking, error)

	// FindConflicts returns the blocking bookings for the property whose
	// ranges overlap [start, end), optionally excluding one booking id.
	FindConflicts(ctx context.Context, propertyID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*Booking, error)
}

// Properties is the slice of the property service the booking engine needs.
type Properties interface {
	Get(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

// Auditor records best-effort audit entries.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Service struct {
	repo       Repository
	properties Properties
	auditor    Auditor
}

func NewService(repo Repository, properties Properties, auditor Auditor) *Service {
	return &Service{repo: repo, properties: properties, auditor: auditor}
}

type CreateParams struct {
	PropertyID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
}

type ListFilter struct {
	UserID     *uuid.UUID
	PropertyID *uuid.UUID
	Status     *Status
}

// Availability is the outcome of an availability check.
type Availability struct {
	Available bool
	Message   string
}

// CheckAvailability reports whether the property can be booked for
// [start, end). Read-only; the authoritative check happens again inside
// the create transaction.
func (s *Service) CheckAvailability(ctx context.Context, propertyID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (*Availability, error) {
	prop, err := s.properties.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if !prop.IsAvailable {
		return &Availability{Available: false, Message: "Property is not currently available for booking"}, nil
	}

	conflicts, err := s.repo.FindConflicts(ctx, propertyID, start, end, exclude)
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		slog.Debug("availability check found conflicts",
			"property_id", propertyID, "conflicts", len(conflicts))

		return &Availability{Available: false, Message: "Dates overlap with an existing booking"}, nil
	}

	return &Availability{Available: true, Message: "Property is available"}, nil
}

// Create books the property for the requester. The price is derived from
// the property's monthly rate; the booking starts out pending until a
// payment completes or a reviewer confirms it.
func (s *Service) Create(ctx context.Context, requester *user.User, params CreateParams) (*Booking, error) {
	if !params.EndDate.After(params.StartDate) {
		return nil, ErrInvalidDateRange
	}

	prop, err := s.properties.Get(ctx, params.PropertyID)
	if err != nil {
		return nil, err
	}

	if !prop.IsAvailable {
		return nil, ErrPropertyUnavailable
	}

	// Fast pre-check so obviously taken dates fail before we contend for
	// the property lock. The store repeats this under the lock.
	conflicts, err := s.repo.FindConflicts(ctx, params.PropertyID, params.StartDate, params.EndDate, nil)
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		return nil, ErrDateConflict
	}

	b := &Booking{
		UserID:      requester.ID,
		PropertyID:  params.PropertyID,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		TotalAmount: TotalAmount(prop.MonthlyPrice, params.StartDate, params.EndDate),
		Status:      StatusPending,
	}

	if err := s.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	slog.Info("booking created",
		"booking_id", b.ID, "property_id", b.PropertyID, "user_id", b.UserID, "amount", b.TotalAmount)

	if s.auditor != nil {
		s.auditor.Record(ctx, audit.Entry{
			UserID:      &requester.ID,
			Action:      audit.ActionBooking,
			EntityType:  "booking",
			EntityID:    &b.ID,
			Description: "Created booking",
			Metadata:    map[string]any{"property_id": b.PropertyID, "amount": b.TotalAmount},
		})
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, requester *user.User, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, requester, b); err != nil {
		return nil, err
	}

	return b, nil
}

// List returns every booking for admins and the requester's own bookings
// for everyone else.
func (s *Service) List(ctx context.Context, requester *user.User) ([]*Booking, error) {
	filter := ListFilter{}
	if requester.Role != user.RoleAdmin {
		filter.UserID = &requester.ID
	}

	return s.repo.ListBookings(ctx, filter)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error) {
	return s.repo.ListBookings(ctx, ListFilter{UserID: &userID})
}

// OccupiedRanges returns the blocking bookings for a property, used by
// clients to grey out taken dates.
func (s *Service) OccupiedRanges(ctx context.Context, propertyID uuid.UUID) ([]*Booking, error) {
	pending := StatusPending

	pendingBookings, err := s.repo.ListBookings(ctx, ListFilter{PropertyID: &propertyID, Status: &pending})
	if err != nil {
		return nil, err
	}

	confirmed := StatusConfirmed

	confirmedBookings, err := s.repo.ListBookings(ctx, ListFilter{PropertyID: &propertyID, Status: &confirmed})
	if err != nil {
		return nil, err
	}

	return append(pendingBookings, confirmedBookings...), nil
}

// Cancel sets the booking to cancelled. Only the booking's owner, an
// admin, or the owner of the booked property may cancel, and only while
// the booking is still pending or confirmed.
func (s *Service) Cancel(ctx context.Context, requester *user.User, id uuid.UUID) error {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, requester, b); err != nil {
		return err
	}

	if !b.Status.Blocks() {
		return ErrNotCancellable
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return err
	}

	slog.Info("booking cancelled", "booking_id", id, "by", requester.ID)

	if s.auditor != nil {
		s.auditor.Record(ctx, audit.Entry{
			UserID:      &requester.ID,
			Action:      audit.ActionBooking,
			EntityType:  "booking",
			EntityID:    &id,
			Description: "Cancelled booking",
		})
	}

	return nil
}

// UpdateStatus is the administrative review path: it sets any valid
// status directly, bypassing the payment trigger. Only admins and the
// owner of the booked property may use it.
func (s *Service) UpdateStatus(ctx context.Context, requester *user.User, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if requester.Role != user.RoleAdmin {
		prop, err := s.properties.Get(ctx, b.PropertyID)
		if err != nil {
			return err
		}

		if prop.OwnerID == nil || *prop.OwnerID != requester.ID {
			return ErrForbidden
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	slog.Info("booking status updated", "booking_id", id, "status", status, "by", requester.ID)

	return nil
}

func (s *Service) authorize(ctx context.Context, requester *user.User, b *Booking) error {
	if requester.Role == user.RoleAdmin || b.UserID == requester.ID {
		return nil
	}

	prop, err := s.properties.Get(ctx, b.PropertyID)
	if err != nil {
		return err
	}

	if prop.OwnerID != nil && *prop.OwnerID == requester.ID {
		return nil
	}

	return ErrForbidden
}
