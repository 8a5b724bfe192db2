package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/booking"
)

type bookingResponse struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	PropertyID  uuid.UUID      `json:"property_id"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	TotalAmount int64          `json:"total_amount"`
	Status      booking.Status `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type availabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type occupiedRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func toResponse(b *booking.Booking) bookingResponse {
	return bookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		PropertyID:  b.PropertyID,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		TotalAmount: b.TotalAmount,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toResponseList(bookings []*booking.Booking) []bookingResponse {
	resp := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toResponse(b)
	}

	return resp
}

func toOccupiedResponse(bookings []*booking.Booking) []occupiedRange {
	resp := make([]occupiedRange, len(bookings))
	for i, b := range bookings {
		resp[i] = occupiedRange{StartDate: b.StartDate, EndDate: b.EndDate}
	}

	return resp
}
