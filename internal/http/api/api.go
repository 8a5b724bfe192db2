// Package api holds the response helpers shared by every handler: JSON
// encoding and the single place where domain errors become HTTP status
// codes.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/casita/internal/auth"
	"github.com/MrJamesThe3rd/casita/internal/booking"
	"github.com/MrJamesThe3rd/casita/internal/churn"
	"github.com/MrJamesThe3rd/casita/internal/payment"
	"github.com/MrJamesThe3rd/casita/internal/property"
	"github.com/MrJamesThe3rd/casita/internal/user"
)

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorResponse{Error: message})
}

// Error translates a domain error into a response. Every handler funnels
// service errors through here so a sentinel maps to the same status
// everywhere.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, property.ErrNotFound),
		errors.Is(err, booking.ErrNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, churn.ErrNoHistory):
		Fail(w, http.StatusNotFound, err.Error())

	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		Fail(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, booking.ErrForbidden),
		errors.Is(err, payment.ErrForbidden),
		errors.Is(err, user.ErrInactive):
		Fail(w, http.StatusForbidden, err.Error())

	case errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, user.ErrUsernameTaken):
		Fail(w, http.StatusConflict, err.Error())

	case errors.Is(err, user.ErrValidation),
		errors.Is(err, property.ErrInvalidPrice),
		errors.Is(err, property.ErrInvalidStatus),
		errors.Is(err, property.ErrActiveBookings),
		errors.Is(err, booking.ErrInvalidDateRange),
		errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, booking.ErrPropertyUnavailable),
		errors.Is(err, booking.ErrDateConflict),
		errors.Is(err, booking.ErrNotCancellable),
		errors.Is(err, payment.ErrUnsupportedMethod),
		errors.Is(err, payment.ErrAlreadyPaid),
		errors.Is(err, payment.ErrAmountMismatch),
		errors.Is(err, payment.ErrNotPayable),
		errors.Is(err, payment.ErrNotRefundable):
		Fail(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, payment.ErrGateway):
		Fail(w, http.StatusBadGateway, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		Fail(w, http.StatusInternalServerError, "internal error")
	}
}
