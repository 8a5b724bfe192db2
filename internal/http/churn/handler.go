package churn

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/churn"
	"github.com/MrJamesThe3rd/casita/internal/http/api"
)

type Handler struct {
	svc *churn.Service
}

func NewHandler(svc *churn.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/tenants", h.scoreAll)
	r.Get("/tenants/{id}", h.scoreTenant)
}

type scoreResponse struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Risk     int       `json:"risk"`
	AtRisk   bool      `json:"at_risk"`
}

func toScoreResponse(s *churn.Score) scoreResponse {
	return scoreResponse{TenantID: s.TenantID, Risk: s.Risk, AtRisk: s.AtRisk}
}

func (h *Handler) scoreAll(w http.ResponseWriter, r *http.Request) {
	scores, err := h.svc.ScoreAll(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}

	resp := make([]scoreResponse, len(scores))
	for i, s := range scores {
		resp[i] = toScoreResponse(s)
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) scoreTenant(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	score, err := h.svc.ScoreTenant(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toScoreResponse(score))
}
