package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/casita/internal/audit"
	"github.com/MrJamesThe3rd/casita/internal/auth"
	"github.com/MrJamesThe3rd/casita/internal/http/api"
	"github.com/MrJamesThe3rd/casita/internal/user"
)

type Handler struct {
	users   *user.Service
	tokens  *auth.Service
	auditor *audit.Service
}

func NewHandler(users *user.Service, tokens *auth.Service, auditor *audit.Service) *Handler {
	return &Handler{users: users, tokens: tokens, auditor: auditor}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

type registerRequest struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Password string    `json:"password"`
	FullName string    `json:"full_name"`
	Phone    string    `json:"phone"`
	Role     user.Role `json:"role"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	// Self-service registration never grants admin.
	role := req.Role
	if role != user.RoleOwner {
		role = user.RoleTenant
	}

	u, err := h.users.Register(r.Context(), user.RegisterParams{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     role,
	})
	if err != nil {
		api.Error(w, err)
		return
	}

	token, err := h.tokens.Mint(u)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, tokenResponse{Token: token, User: toUserResponse(u)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		api.Error(w, err)
		return
	}

	token, err := h.tokens.Mint(u)
	if err != nil {
		api.Error(w, err)
		return
	}

	if h.auditor != nil {
		h.auditor.Record(r.Context(), audit.Entry{
			UserID:      &u.ID,
			Action:      audit.ActionLogin,
			EntityType:  "user",
			EntityID:    &u.ID,
			Description: "User logged in",
			IPAddress:   r.RemoteAddr,
			UserAgent:   r.UserAgent(),
		})
	}

	api.JSON(w, http.StatusOK, tokenResponse{Token: token, User: toUserResponse(u)})
}
