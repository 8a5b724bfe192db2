package audit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/audit"
	"github.com/MrJamesThe3rd/casita/internal/http/api"
)

type Handler struct {
	svc *audit.Service
}

func NewHandler(svc *audit.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type entryResponse struct {
	ID          uuid.UUID      `json:"id"`
	UserID      *uuid.UUID     `json:"user_id,omitempty"`
	Action      audit.Action   `json:"action"`
	EntityType  string         `json:"entity_type,omitempty"`
	EntityID    *uuid.UUID     `json:"entity_id,omitempty"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := audit.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("user_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.UserID = &id
		}
	}

	if s := q.Get("action"); s != "" {
		action := audit.Action(s)
		filter.Action = &action
	}

	if s := q.Get("entity_type"); s != "" {
		filter.EntityType = &s
	}

	if s := q.Get("since"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			filter.Since = &t
		}
	}

	if s := q.Get("limit"); s != "" {
		filter.Limit, _ = strconv.Atoi(s)
	}

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		api.Error(w, err)
		return
	}

	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = entryResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			Action:      e.Action,
			EntityType:  e.EntityType,
			EntityID:    e.EntityID,
			Description: e.Description,
			Metadata:    e.Metadata,
			CreatedAt:   e.CreatedAt,
		}
	}

	api.JSON(w, http.StatusOK, resp)
}
