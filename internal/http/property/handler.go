package property

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/audit"
	"github.com/MrJamesThe3rd/casita/internal/http/api"
	"github.com/MrJamesThe3rd/casita/internal/http/middleware"
	"github.com/MrJamesThe3rd/casita/internal/property"
	"github.com/MrJamesThe3rd/casita/internal/user"
)

type Handler struct {
	svc     *property.Service
	auditor *audit.Service
}

func NewHandler(svc *property.Service, auditor *audit.Service) *Handler {
	return &Handler{svc: svc, auditor: auditor}
}

// PublicRoutes are browsable without a token.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

// Routes require authentication; role checks are per-route.
func (h *Handler) Routes(r chi.Router) {
	r.With(middleware.RequireRole(user.RoleOwner, user.RoleAdmin)).Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.With(middleware.RequireRole(user.RoleAdmin)).Patch("/{id}/review", h.review)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := property.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("search"); s != "" {
		filter.Search = &s
	}

	if s := q.Get("min_price"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.MinPrice = &n
		}
	}

	if s := q.Get("max_price"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.MaxPrice = &n
		}
	}

	if s := q.Get("bedrooms"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.Bedrooms = &n
		}
	}

	if q.Get("available") == "true" {
		filter.AvailableOnly = true
	}

	if s := q.Get("page"); s != "" {
		filter.Page, _ = strconv.Atoi(s)
	}

	if s := q.Get("per_page"); s != "" {
		filter.PerPage, _ = strconv.Atoi(s)
	}

	result, err := h.svc.List(r.Context(), filter)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toListResponse(result))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(p))
}

type createPropertyRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	MonthlyPrice int64    `json:"monthly_price"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	SizeSqm      float64  `json:"size_sqm"`
	Images       []string `json:"images"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Create(r.Context(), property.CreateParams{
		OwnerID:      &u.ID,
		Name:         req.Name,
		Description:  req.Description,
		Address:      req.Address,
		MonthlyPrice: req.MonthlyPrice,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SizeSqm:      req.SizeSqm,
		Images:       req.Images,
	})
	if err != nil {
		api.Error(w, err)
		return
	}

	if h.auditor != nil {
		h.auditor.Record(r.Context(), audit.Entry{
			UserID:      &u.ID,
			Action:      audit.ActionCreate,
			EntityType:  "property",
			EntityID:    &p.ID,
			Description: "Created property listing",
		})
	}

	api.JSON(w, http.StatusCreated, toResponse(p))
}

type updatePropertyRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Address      *string  `json:"address,omitempty"`
	MonthlyPrice *int64   `json:"monthly_price,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	SizeSqm      *float64 `json:"size_sqm,omitempty"`
	IsAvailable  *bool    `json:"is_available,omitempty"`
	Images       []string `json:"images,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	if !h.canManage(u, p) {
		api.Fail(w, http.StatusForbidden, "not the property owner")
		return
	}

	var req updatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}

	if req.Description != nil {
		p.Description = *req.Description
	}

	if req.Address != nil {
		p.Address = *req.Address
	}

	if req.MonthlyPrice != nil {
		p.MonthlyPrice = *req.MonthlyPrice
	}

	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}

	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}

	if req.SizeSqm != nil {
		p.SizeSqm = *req.SizeSqm
	}

	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
	}

	if req.Images != nil {
		p.Images = req.Images
	}

	if err := h.svc.Update(r.Context(), p); err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	if !h.canManage(u, p) {
		api.Fail(w, http.StatusForbidden, "not the property owner")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.Error(w, err)
		return
	}

	if h.auditor != nil {
		h.auditor.Record(r.Context(), audit.Entry{
			UserID:      &u.ID,
			Action:      audit.ActionDelete,
			EntityType:  "property",
			EntityID:    &id,
			Description: "Deleted property listing",
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

type reviewPropertyRequest struct {
	Status property.Status `json:"status"`
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req reviewPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Review(r.Context(), id, req.Status); err != nil {
		api.Error(w, err)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) canManage(u *user.User, p *property.Property) bool {
	if u.Role == user.RoleAdmin {
		return true
	}

	return p.OwnerID != nil && *p.OwnerID == u.ID
}
