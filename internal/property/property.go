package property

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the listing-approval state, set by admin review.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var (
	ErrNotFound       = errors.New("property not found")
	ErrInvalidPrice   = errors.New("monthly price must be positive")
	ErrInvalidStatus  = errors.New("invalid property status")
	ErrActiveBookings = errors.New("property has active bookings")
)

// Property is a rentable unit. OwnerID is nil for legacy properties
// imported before ownership was tracked.
type Property struct {
	ID           uuid.UUID
	OwnerID      *uuid.UUID
	Name         string
	Description  string
	Address      string
	MonthlyPrice int64 // centavos
	Bedrooms     int
	Bathrooms    int
	SizeSqm      float64
	IsAvailable  bool
	Status       Status
	Images       []string
	CreatedAt    time.Time
}
