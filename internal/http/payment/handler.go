package payment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/http/api"
	"github.com/MrJamesThe3rd/casita/internal/http/middleware"
	"github.com/MrJamesThe3rd/casita/internal/payment"
	"github.com/MrJamesThe3rd/casita/internal/user"
)

type Handler struct {
	svc *payment.Service
}

func NewHandler(svc *payment.Service) *Handler {
	return &Handler{svc: svc}
}

// PublicRoutes expose method discovery so the checkout page can render
// before login.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/methods", h.methods)
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/create-intent", h.createIntent)
	r.Post("/confirm", h.confirm)
	r.Get("/my-payments", h.myPayments)
	r.Get("/booking/{bookingID}", h.listForBooking)
	r.With(middleware.RequireRole(user.RoleAdmin)).Get("/", h.listAll)
	r.Get("/{id}", h.get)
	r.With(middleware.RequireRole(user.RoleAdmin, user.RoleOwner)).Put("/{id}/review", h.review)
	r.With(middleware.RequireRole(user.RoleAdmin)).Post("/{id}/refund", h.refund)
}

func (h *Handler) methods(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, toMethodsResponse(payment.AvailableMethods()))
}

type createIntentRequest struct {
	BookingID uuid.UUID      `json:"booking_id"`
	Method    payment.Method `json:"method"`
}

func (h *Handler) createIntent(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	intent, err := h.svc.CreateIntent(r.Context(), u, req.BookingID, req.Method)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, toIntentResponse(intent))
}

type confirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.PaymentIntentID == "" {
		api.Fail(w, http.StatusBadRequest, "payment_intent_id is required")
		return
	}

	p, err := h.svc.Confirm(r.Context(), u, req.PaymentIntentID)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) myPayments(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	payments, err := h.svc.ListForUser(r.Context(), u.ID)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponseList(payments))
}

func (h *Handler) listForBooking(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	payments, err := h.svc.ListForBooking(r.Context(), u, bookingID)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponseList(payments))
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	filter := payment.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := payment.Status(s)
		filter.Status = &status
	}

	payments, err := h.svc.ListAll(r.Context(), filter)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponseList(payments))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.svc.Get(r.Context(), u, id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	action := r.URL.Query().Get("action")
	if action != "approve" && action != "reject" {
		api.Fail(w, http.StatusBadRequest, "action must be approve or reject")
		return
	}

	p, err := h.svc.Review(r.Context(), u, id, action == "approve")
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.svc.Refund(r.Context(), u, id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(p))
}
