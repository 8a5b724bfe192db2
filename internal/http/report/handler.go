package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/casita/internal/http/api"
	"github.com/MrJamesThe3rd/casita/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
}

type dashboardResponse struct {
	TotalProperties    int   `json:"total_properties"`
	ApprovedProperties int   `json:"approved_properties"`
	TotalUsers         int   `json:"total_users"`
	ActiveTenants      int   `json:"active_tenants"`
	TotalBookings      int   `json:"total_bookings"`
	PendingBookings    int   `json:"pending_bookings"`
	ConfirmedBookings  int   `json:"confirmed_bookings"`
	BookingsThisMonth  int   `json:"bookings_this_month"`
	TotalRevenue       int64 `json:"total_revenue"`
	RevenueThisMonth   int64 `json:"revenue_this_month"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, dashboardResponse{
		TotalProperties:    stats.TotalProperties,
		ApprovedProperties: stats.ApprovedProperties,
		TotalUsers:         stats.TotalUsers,
		ActiveTenants:      stats.ActiveTenants,
		TotalBookings:      stats.TotalBookings,
		PendingBookings:    stats.PendingBookings,
		ConfirmedBookings:  stats.ConfirmedBookings,
		BookingsThisMonth:  stats.BookingsThisMonth,
		TotalRevenue:       stats.TotalRevenue,
		RevenueThisMonth:   stats.RevenueThisMonth,
	})
}
