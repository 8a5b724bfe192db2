package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/casita/internal/auth"
	auditHandler "github.com/MrJamesThe3rd/casita/internal/http/audit"
	authHandler "github.com/MrJamesThe3rd/casita/internal/http/auth"
	bookingHandler "github.com/MrJamesThe3rd/casita/internal/http/booking"
	churnHandler "github.com/MrJamesThe3rd/casita/internal/http/churn"
	importHandler "github.com/MrJamesThe3rd/casita/internal/http/importcsv"
	"github.com/MrJamesThe3rd/casita/internal/http/middleware"
	paymentHandler "github.com/MrJamesThe3rd/casita/internal/http/payment"
	propertyHandler "github.com/MrJamesThe3rd/casita/internal/http/property"
	reportHandler "github.com/MrJamesThe3rd/casita/internal/http/report"
	"github.com/MrJamesThe3rd/casita/internal/user"
)

type Handlers struct {
	Auth       *authHandler.Handler
	Properties *propertyHandler.Handler
	Bookings   *bookingHandler.Handler
	Payments   *paymentHandler.Handler
	Reports    *reportHandler.Handler
	Churn      *churnHandler.Handler
	Import     *importHandler.Handler
	Audit      *auditHandler.Handler
}

func New(tokens *auth.Service, users *user.Service, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	authenticate := middleware.Authenticate(tokens, users)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(chimiddleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Route("/properties", func(r chi.Router) {
			h.Properties.PublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				h.Properties.Routes(r)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			h.Bookings.PublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				h.Bookings.Routes(r)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			h.Payments.PublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				h.Payments.Routes(r)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(authenticate, middleware.RequireRole(user.RoleAdmin))
			h.Reports.Routes(r)
		})

		r.Route("/churn", func(r chi.Router) {
			r.Use(authenticate, middleware.RequireRole(user.RoleAdmin))
			h.Churn.Routes(r)
		})

		r.Route("/import", func(r chi.Router) {
			r.Use(authenticate, middleware.RequireRole(user.RoleAdmin))
			h.Import.Routes(r)
		})

		r.Route("/audit-logs", func(r chi.Router) {
			r.Use(authenticate, middleware.RequireRole(user.RoleAdmin))
			h.Audit.Routes(r)
		})
	})

	return router
}
