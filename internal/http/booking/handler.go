package booking

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/booking"
	"github.com/MrJamesThe3rd/casita/internal/http/api"
	"github.com/MrJamesThe3rd/casita/internal/http/middleware"
)

type Handler struct {
	svc *booking.Service
}

func NewHandler(svc *booking.Service) *Handler {
	return &Handler{svc: svc}
}

// PublicRoutes expose availability checks to unauthenticated browsers.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/check-availability", h.checkAvailability)
	r.Get("/property/{propertyID}/occupied", h.occupiedDates)
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/my-bookings", h.myBookings)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.updateStatus)
	r.Delete("/{id}", h.cancel)
}

func (h *Handler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	propertyID, err := uuid.Parse(q.Get("property_id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid property_id")
		return
	}

	start, err := time.Parse(time.DateOnly, q.Get("start_date"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid start_date, want YYYY-MM-DD")
		return
	}

	end, err := time.Parse(time.DateOnly, q.Get("end_date"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid end_date, want YYYY-MM-DD")
		return
	}

	if !end.After(start) {
		api.Error(w, booking.ErrInvalidDateRange)
		return
	}

	var exclude *uuid.UUID

	if s := q.Get("exclude_booking_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			exclude = &id
		}
	}

	availability, err := h.svc.CheckAvailability(r.Context(), propertyID, start, end, exclude)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, availabilityResponse{
		Available: availability.Available,
		Message:   availability.Message,
	})
}

func (h *Handler) occupiedDates(w http.ResponseWriter, r *http.Request) {
	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid property id")
		return
	}

	bookings, err := h.svc.OccupiedRanges(r.Context(), propertyID)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toOccupiedResponse(bookings))
}

type createBookingRequest struct {
	PropertyID uuid.UUID `json:"property_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid start_date, want YYYY-MM-DD")
		return
	}

	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid end_date, want YYYY-MM-DD")
		return
	}

	b, err := h.svc.Create(r.Context(), u, booking.CreateParams{
		PropertyID: req.PropertyID,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	bookings, err := h.svc.List(r.Context(), u)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponseList(bookings))
}

func (h *Handler) myBookings(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	bookings, err := h.svc.ListForUser(r.Context(), u.ID)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponseList(bookings))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	b, err := h.svc.Get(r.Context(), u, id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(b))
}

type updateStatusRequest struct {
	Status booking.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), u, id, req.Status); err != nil {
		api.Error(w, err)
		return
	}

	b, err := h.svc.Get(r.Context(), u, id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Cancel(r.Context(), u, id); err != nil {
		api.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
