package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the booking lifecycle state. Pending and confirmed bookings
// block the property's dates; every other state is terminal and frees them.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusDeclined  Status = "declined"
)

// Blocks reports whether a booking in this status holds its date range
// against other bookings.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled,
		StatusCompleted, StatusRejected, StatusDeclined:
		return true
	}

	return false
}

var (
	ErrNotFound            = errors.New("booking not found")
	ErrPropertyUnavailable = errors.New("property is not available for booking")
	ErrDateConflict        = errors.New("dates overlap with an existing booking")
	ErrInvalidDateRange    = errors.New("end date must be after start date")
	ErrInvalidStatus       = errors.New("invalid booking status")
	ErrForbidden           = errors.New("not authorized for this booking")
	ErrNotCancellable      = errors.New("booking is no longer cancellable")
)

type Booking struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	PropertyID  uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	TotalAmount int64 // centavos
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
