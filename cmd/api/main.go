package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/casita/internal/audit"
	auditStore "github.com/MrJamesThe3rd/casita/internal/audit/store"
	"github.com/MrJamesThe3rd/casita/internal/auth"
	"github.com/MrJamesThe3rd/casita/internal/booking"
	bookingStore "github.com/MrJamesThe3rd/casita/internal/booking/store"
	"github.com/MrJamesThe3rd/casita/internal/churn"
	churnStore "github.com/MrJamesThe3rd/casita/internal/churn/store"
	"github.com/MrJamesThe3rd/casita/internal/config"
	"github.com/MrJamesThe3rd/casita/internal/database"
	casitaHttp "github.com/MrJamesThe3rd/casita/internal/http"
	auditHandler "github.com/MrJamesThe3rd/casita/internal/http/audit"
	authHandler "github.com/MrJamesThe3rd/casita/internal/http/auth"
	bookingHandler "github.com/MrJamesThe3rd/casita/internal/http/booking"
	churnHandler "github.com/MrJamesThe3rd/casita/internal/http/churn"
	importHandler "github.com/MrJamesThe3rd/casita/internal/http/importcsv"
	paymentHandler "github.com/MrJamesThe3rd/casita/internal/http/payment"
	propertyHandler "github.com/MrJamesThe3rd/casita/internal/http/property"
	reportHandler "github.com/MrJamesThe3rd/casita/internal/http/report"
	"github.com/MrJamesThe3rd/casita/internal/importer"
	"github.com/MrJamesThe3rd/casita/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/casita/internal/payment/store"
	"github.com/MrJamesThe3rd/casita/internal/property"
	propertyStore "github.com/MrJamesThe3rd/casita/internal/property/store"
	"github.com/MrJamesThe3rd/casita/internal/report"
	reportStore "github.com/MrJamesThe3rd/casita/internal/report/store"
	"github.com/MrJamesThe3rd/casita/internal/user"
	userStore "github.com/MrJamesThe3rd/casita/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpen:  cfg.DB.MaxOpenConns,
		MaxIdle:  cfg.DB.MaxIdleConns,
		Lifetime: cfg.DB.ConnLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	churnModel, err := churn.LoadDefaultModel()
	if err != nil {
		slog.Error("failed to load churn model", "error", err)
		os.Exit(1)
	}

	var (
		auditService    = audit.NewService(auditStore.New(db))
		userService     = user.NewService(userStore.New(db))
		tokenService    = auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		propertyService = property.NewService(propertyStore.New(db))
		bookingService  = booking.NewService(bookingStore.New(db), propertyService, auditService)
		paymentService  = payment.NewService(
			paymentStore.New(db),
			bookingStore.New(db),
			propertyService,
			payment.NewOfflineGateway(),
			auditService,
		)
		reportService = report.NewService(reportStore.New(db))
		churnService  = churn.NewService(churnStore.New(db), churnModel)
		importService = importer.NewService(propertyService)
	)

	handlers := casitaHttp.Handlers{
		Auth:       authHandler.NewHandler(userService, tokenService, auditService),
		Properties: propertyHandler.NewHandler(propertyService, auditService),
		Bookings:   bookingHandler.NewHandler(bookingService),
		Payments:   paymentHandler.NewHandler(paymentService),
		Reports:    reportHandler.NewHandler(reportService),
		Churn:      churnHandler.NewHandler(churnService),
		Import:     importHandler.NewHandler(importService),
		Audit:      auditHandler.NewHandler(auditService),
	}

	router := casitaHttp.New(tokenService, userService, handlers)

	addr := fmt.Sprintf(":%d", cfg.App.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
