package audit

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionLogin   Action = "login"
	ActionBooking Action = "booking"
	ActionPayment Action = "payment"
)

// Entry is one audit trail record. UserID is nil for anonymous actions.
type Entry struct {
	ID          uuid.UUID
	UserID      *uuid.UUID
	Action      Action
	EntityType  string
	EntityID    *uuid.UUID
	Description string
	IPAddress   string
	UserAgent   string
	Metadata    map[string]any
	CreatedAt   time.Time
}
