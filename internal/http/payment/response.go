package payment

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/payment"
)

type paymentResponse struct {
	ID            uuid.UUID      `json:"id"`
	BookingID     uuid.UUID      `json:"booking_id"`
	Amount        int64          `json:"amount"`
	Method        payment.Method `json:"method"`
	IntentID      string         `json:"payment_intent_id,omitempty"`
	Status        payment.Status `json:"status"`
	ReceiptNumber string         `json:"receipt_number,omitempty"`
	ReceiptURL    string         `json:"receipt_url,omitempty"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

type intentResponse struct {
	PaymentID       uuid.UUID `json:"payment_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	ClientSecret    string    `json:"client_secret"`
	Amount          int64     `json:"amount"`
}

type methodResponse struct {
	ID          payment.Method `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
}

func toResponse(p *payment.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Method:        p.Method,
		IntentID:      p.IntentID,
		Status:        p.Status,
		ReceiptNumber: p.ReceiptNumber,
		ReceiptURL:    p.ReceiptURL,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
	}
}

func toResponseList(payments []*payment.Payment) []paymentResponse {
	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toResponse(p)
	}

	return resp
}

func toIntentResponse(intent *payment.Intent) intentResponse {
	return intentResponse{
		PaymentID:       intent.PaymentID,
		PaymentIntentID: intent.IntentID,
		ClientSecret:    intent.ClientSecret,
		Amount:          intent.Amount,
	}
}

func toMethodsResponse(methods []payment.MethodInfo) []methodResponse {
	resp := make([]methodResponse, len(methods))
	for i, m := range methods {
		resp[i] = methodResponse{ID: m.ID, Name: m.Name, Description: m.Description}
	}

	return resp
}
