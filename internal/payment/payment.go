package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("payment not found")
	ErrForbidden         = errors.New("payment does not belong to user")
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	ErrAlreadyPaid       = errors.New("booking already has a completed payment")
	ErrAmountMismatch    = errors.New("payment amount does not match booking total")
	ErrNotPayable        = errors.New("payment cannot be completed in its current state")
	ErrNotRefundable     = errors.New("only completed payments can be refunded")
	ErrGateway           = errors.New("payment gateway error")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

type Method string

const (
	MethodCash         Method = "cash"
	MethodGCash        Method = "gcash"
	MethodBPI          Method = "bpi"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodGCash, MethodBPI, MethodCard, MethodBankTransfer:
		return true
	}

	return false
}

// MethodInfo describes a payment method offered to clients.
type MethodInfo struct {
	ID          Method
	Name        string
	Description string
}

// AvailableMethods lists the methods the backend accepts. Cash skips the
// gateway entirely and is settled by a reviewer.
func AvailableMethods() []MethodInfo {
	return []MethodInfo{
		{ID: MethodCash, Name: "Cash", Description: "Pay in cash at the property office"},
		{ID: MethodGCash, Name: "GCash", Description: "Pay with your GCash wallet"},
		{ID: MethodBPI, Name: "BPI", Description: "Pay via BPI online banking"},
		{ID: MethodCard, Name: "Credit/Debit Card", Description: "Pay with a credit or debit card"},
		{ID: MethodBankTransfer, Name: "Bank Transfer", Description: "Pay via bank transfer"},
	}
}

// Payment is one settlement attempt for a booking. Amount is in centavos.
type Payment struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	Amount        int64
	Method        Method
	IntentID      string
	Status        Status
	ReceiptNumber string
	ReceiptURL    string
	PaidAt        *time.Time
	CreatedAt     time.Time
}

// Intent is what a client needs to continue the payment flow.
type Intent struct {
	PaymentID    uuid.UUID
	IntentID     string
	ClientSecret string
	Amount       int64
}
