package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	bookingStore "github.com/MrJamesThe3rd/casita/internal/booking/store"
	"github.com/MrJamesThe3rd/casita/internal/churn"
	churnStore "github.com/MrJamesThe3rd/casita/internal/churn/store"
	"github.com/MrJamesThe3rd/casita/internal/config"
	"github.com/MrJamesThe3rd/casita/internal/database"
	"github.com/MrJamesThe3rd/casita/internal/notify"
	"github.com/MrJamesThe3rd/casita/internal/user"
	userStore "github.com/MrJamesThe3rd/casita/internal/user/store"
	"github.com/MrJamesThe3rd/casita/internal/worker"
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

	redisClient, err := notify.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	churnModel, err := churn.LoadDefaultModel()
	if err != nil {
		slog.Error("failed to load churn model", "error", err)
		os.Exit(1)
	}

	var (
		queue        = notify.NewQueue(redisClient)
		userService  = user.NewService(userStore.New(db))
		churnService = churn.NewService(churnStore.New(db), churnModel)
		retention    = worker.NewRetentionSweeper(churnService, userService, queue, cfg.Worker.SweepInterval)
		reminders    = worker.NewReminderSweeper(bookingStore.New(db), queue, cfg.Worker.SweepInterval)
		consumer     = worker.NewConsumer(queue, notify.LogNotifier{}, cfg.Worker.PollInterval)
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting worker",
		"sweep_interval", cfg.Worker.SweepInterval,
		"poll_interval", cfg.Worker.PollInterval)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		retention.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		reminders.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		consumer.Run(ctx)
	}()

	wg.Wait()
	slog.Info("worker stopped")
}
