package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/audit"
	"github.com/MrJamesThe3rd/casita/internal/booking"
	"github.com/MrJamesThe3rd/casita/internal/property"
	"github.com/MrJamesThe3rd/casita/internal/user"
)

const currency = "php"

//go:generate mockgen -source=service.go -destination=service_mock.go -package=payment
type Repository interface {
	CreatePayment(ctx context.Context, p *Payment) error
	SetIntentID(ctx context.Context, id uuid.UUID, intentID string) error
	GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetPaymentByIntentID(ctx context.Context, intentID string) (*Payment, error)
	ListPayments(ctx context.Context, filter ListFilter) ([]*Payment, error)
	HasCompletedPayment(ctx context.Context, bookingID uuid.UUID) (bool, error)

	// CompletePayment marks the payment completed and confirms its booking
	// in one transaction. It must fail if the payment is no longer pending
	// so that two concurrent confirmations cannot both settle.
	CompletePayment(ctx context.Context, id uuid.UUID, receiptNumber string) (*Payment, error)

	// FailPayment marks the payment failed and cancels its booking in one
	// transaction, freeing the dates the booking was holding.
	FailPayment(ctx context.Context, id uuid.UUID) error

	// RefundPayment marks the payment refunded and cancels its booking in
	// one transaction.
	RefundPayment(ctx context.Context, id uuid.UUID) error
}

// Bookings is the slice of the booking layer the payment flow needs.
type Bookings interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
}

// Properties resolves property ownership for the manual review path.
type Properties interface {
	Get(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

// Auditor records best-effort audit entries.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Service struct {
	repo       Repository
	bookings   Bookings
	properties Properties
	gateway    Gateway
	auditor    Auditor
}

func NewService(repo Repository, bookings Bookings, properties Properties, gateway Gateway, auditor Auditor) *Service {
	return &Service{repo: repo, bookings: bookings, properties: properties, gateway: gateway, auditor: auditor}
}

type ListFilter struct {
	BookingID *uuid.UUID
	UserID    *uuid.UUID
	Status    *Status
}

// CreateIntent opens a payment for a pending booking. Cash payments are
// recorded locally and settled later by a reviewer; every other method
// goes through the gateway.
func (s *Service) CreateIntent(ctx context.Context, requester *user.User, bookingID uuid.UUID, method Method) (*Intent, error) {
	if !method.Valid() {
		return nil, ErrUnsupportedMethod
	}

	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if requester.Role != user.RoleAdmin && b.UserID != requester.ID {
		return nil, ErrForbidden
	}

	if !b.Status.Blocks() {
		return nil, ErrNotPayable
	}

	paid, err := s.repo.HasCompletedPayment(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if paid {
		return nil, ErrAlreadyPaid
	}

	p := &Payment{
		BookingID: bookingID,
		Amount:    b.TotalAmount,
		Method:    method,
		Status:    StatusPending,
	}

	if method == MethodCash {
		if err := s.repo.CreatePayment(ctx, p); err != nil {
			return nil, err
		}

		intentID := "cash_" + p.ID.String()
		if err := s.repo.SetIntentID(ctx, p.ID, intentID); err != nil {
			return nil, err
		}

		slog.Info("cash payment opened", "payment_id", p.ID, "booking_id", bookingID, "amount", p.Amount)

		return &Intent{
			PaymentID:    p.ID,
			IntentID:     intentID,
			ClientSecret: "cash_payment",
			Amount:       p.Amount,
		}, nil
	}

	gi, err := s.gateway.CreateIntent(ctx, b.TotalAmount, currency, map[string]string{
		"booking_id": bookingID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	p.IntentID = gi.ID
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	slog.Info("payment intent created",
		"payment_id", p.ID, "booking_id", bookingID, "method", method, "intent_id", gi.ID)

	return &Intent{
		PaymentID:    p.ID,
		IntentID:     gi.ID,
		ClientSecret: gi.ClientSecret,
		Amount:       p.Amount,
	}, nil
}

// Confirm settles the payment identified by its intent id and confirms
// the parent booking. Confirming an already completed payment is a
// no-op, so clients may safely retry.
func (s *Service) Confirm(ctx context.Context, requester *user.User, intentID string) (*Payment, error) {
	p, err := s.repo.GetPaymentByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.GetBooking(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}

	if requester.Role != user.RoleAdmin && b.UserID != requester.ID {
		return nil, ErrForbidden
	}

	if p.Status == StatusCompleted {
		return p, nil
	}

	if p.Status != StatusPending {
		return nil, ErrNotPayable
	}

	if !b.Status.Blocks() {
		return nil, ErrNotPayable
	}

	if p.Amount != b.TotalAmount {
		return nil, ErrAmountMismatch
	}

	prefix := "RCPT"

	if strings.HasPrefix(intentID, "cash_") {
		prefix = "CASH"
	} else {
		gi, err := s.gateway.RetrieveIntent(ctx, intentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGateway, err)
		}

		if gi.Status != "succeeded" {
			return nil, ErrNotPayable
		}
	}

	receipt, err := receiptNumber(prefix)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.CompletePayment(ctx, p.ID, receipt)
	if err != nil {
		return nil, err
	}

	slog.Info("payment completed",
		"payment_id", completed.ID, "booking_id", completed.BookingID, "receipt", receipt)

	if s.auditor != nil {
		s.auditor.Record(ctx, audit.Entry{
			UserID:      &requester.ID,
			Action:      audit.ActionPayment,
			EntityType:  "payment",
			EntityID:    &completed.ID,
			Description: "Completed payment",
			Metadata:    map[string]any{"booking_id": completed.BookingID, "amount": completed.Amount},
		})
	}

	return completed, nil
}

// Review is the manual settlement path for cash payments. Admins and the
// owner of the booked property may approve or reject a pending payment.
// Rejection fails the payment and cancels its booking.
func (s *Service) Review(ctx context.Context, requester *user.User, id uuid.UUID, approve bool) (*Payment, error) {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.GetBooking(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}

	if requester.Role != user.RoleAdmin {
		prop, err := s.properties.Get(ctx, b.PropertyID)
		if err != nil {
			return nil, err
		}

		if prop.OwnerID == nil || *prop.OwnerID != requester.ID {
			return nil, ErrForbidden
		}
	}

	if p.Status != StatusPending {
		return nil, ErrNotPayable
	}

	if !approve {
		if err := s.repo.FailPayment(ctx, p.ID); err != nil {
			return nil, err
		}

		slog.Info("payment rejected", "payment_id", p.ID, "by", requester.ID)

		return s.repo.GetPayment(ctx, p.ID)
	}

	if !b.Status.Blocks() {
		return nil, ErrNotPayable
	}

	if p.Amount != b.TotalAmount {
		return nil, ErrAmountMismatch
	}

	prefix := "RCPT"
	if p.Method == MethodCash {
		prefix = "CASH"
	}

	receipt, err := receiptNumber(prefix)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.CompletePayment(ctx, p.ID, receipt)
	if err != nil {
		return nil, err
	}

	slog.Info("payment approved", "payment_id", completed.ID, "by", requester.ID, "receipt", receipt)

	return completed, nil
}

// Refund reverses a completed payment and cancels its booking. Admin
// only.
func (s *Service) Refund(ctx context.Context, requester *user.User, id uuid.UUID) (*Payment, error) {
	if requester.Role != user.RoleAdmin {
		return nil, ErrForbidden
	}

	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status != StatusCompleted {
		return nil, ErrNotRefundable
	}

	if !strings.HasPrefix(p.IntentID, "cash_") {
		if err := s.gateway.RefundIntent(ctx, p.IntentID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGateway, err)
		}
	}

	if err := s.repo.RefundPayment(ctx, p.ID); err != nil {
		return nil, err
	}

	slog.Info("payment refunded", "payment_id", p.ID, "booking_id", p.BookingID, "by", requester.ID)

	if s.auditor != nil {
		s.auditor.Record(ctx, audit.Entry{
			UserID:      &requester.ID,
			Action:      audit.ActionPayment,
			EntityType:  "payment",
			EntityID:    &p.ID,
			Description: "Refunded payment",
			Metadata:    map[string]any{"booking_id": p.BookingID, "amount": p.Amount},
		})
	}

	return s.repo.GetPayment(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, requester *user.User, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if requester.Role != user.RoleAdmin {
		b, err := s.bookings.GetBooking(ctx, p.BookingID)
		if err != nil {
			return nil, err
		}

		if b.UserID != requester.ID {
			return nil, ErrForbidden
		}
	}

	return p, nil
}

func (s *Service) ListForBooking(ctx context.Context, requester *user.User, bookingID uuid.UUID) ([]*Payment, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if requester.Role != user.RoleAdmin && b.UserID != requester.ID {
		return nil, ErrForbidden
	}

	return s.repo.ListPayments(ctx, ListFilter{BookingID: &bookingID})
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Payment, error) {
	return s.repo.ListPayments(ctx, ListFilter{UserID: &userID})
}

func (s *Service) ListAll(ctx context.Context, filter ListFilter) ([]*Payment, error) {
	return s.repo.ListPayments(ctx, filter)
}
