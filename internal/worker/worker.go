package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/casita/internal/booking"
	"github.com/MrJamesThe3rd/casita/internal/churn"
	"github.com/MrJamesThe3rd/casita/internal/notify"
)

// Scorer produces retention scores for every active tenant.
type Scorer interface {
	ScoreAll(ctx context.Context) ([]*churn.Score, error)
}

// TaskQueue accepts tasks for later delivery.
type TaskQueue interface {
	Enqueue(ctx context.Context, task notify.Task) error
}

// Admins resolves the addresses the summary notification goes to.
type Admins interface {
	AdminEmails(ctx context.Context) ([]string, error)
}

// RetentionSweeper periodically scores all tenants and queues an alert
// for each one at risk, plus one summary for the admins.
type RetentionSweeper struct {
	scorer   Scorer
	admins   Admins
	queue    TaskQueue
	interval time.Duration
}

func NewRetentionSweeper(scorer Scorer, admins Admins, queue TaskQueue, interval time.Duration) *RetentionSweeper {
	return &RetentionSweeper{scorer: scorer, admins: admins, queue: queue, interval: interval}
}

// Run sweeps once immediately, then on every tick until ctx is done.
func (w *RetentionSweeper) Run(ctx context.Context) {
	slog.Info("retention sweeper started", "interval", w.interval)

	if err := w.Sweep(ctx); err != nil {
		slog.Error("retention sweep failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention sweeper stopped")
			return
		case <-ticker.C:
			if err := w.Sweep(ctx); err != nil {
				slog.Error("retention sweep failed", "error", err)
			}
		}
	}
}

func (w *RetentionSweeper) Sweep(ctx context.Context) error {
	scores, err := w.scorer.ScoreAll(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	atRisk := 0

	for _, score := range scores {
		if !score.AtRisk {
			continue
		}

		atRisk++

		task := notify.NewTask(notify.TypeRetentionAlert, map[string]any{
			"tenant_id": score.TenantID.String(),
			"risk":      score.Risk,
		}, now)

		if err := w.queue.Enqueue(ctx, task); err != nil {
			slog.Error("failed to queue retention alert", "tenant_id", score.TenantID, "error", err)
		}
	}

	recipients, err := w.admins.AdminEmails(ctx)
	if err != nil {
		slog.Error("failed to resolve admin recipients", "error", err)
	}

	summary := notify.NewTask(notify.TypeAdminSummary, map[string]any{
		"scored":     len(scores),
		"at_risk":    atRisk,
		"recipients": recipients,
	}, now)

	if err := w.queue.Enqueue(ctx, summary); err != nil {
		slog.Error("failed to queue admin summary", "error", err)
	}

	slog.Info("retention sweep complete", "scored", len(scores), "at_risk", atRisk)

	return nil
}

// BookingSource yields confirmed bookings starting inside a window.
type BookingSource interface {
	UpcomingBookings(ctx context.Context, from, to time.Time) ([]*booking.Booking, error)
}

// reminderLead is how long before move-in the reminder fires.
const reminderLead = 24 * time.Hour

// ReminderSweeper schedules a move-in reminder for every confirmed
// booking whose start date is coming up, delivered reminderLead before
// the start through the delayed queue.
type ReminderSweeper struct {
	bookings BookingSource
	queue    TaskQueue
	interval time.Duration
}

func NewReminderSweeper(bookings BookingSource, queue TaskQueue, interval time.Duration) *ReminderSweeper {
	return &ReminderSweeper{bookings: bookings, queue: queue, interval: interval}
}

func (w *ReminderSweeper) Run(ctx context.Context) {
	slog.Info("reminder sweeper started", "interval", w.interval)

	if err := w.Sweep(ctx); err != nil {
		slog.Error("reminder sweep failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder sweeper stopped")
			return
		case <-ticker.C:
			if err := w.Sweep(ctx); err != nil {
				slog.Error("reminder sweep failed", "error", err)
			}
		}
	}
}

// Sweep picks up bookings starting inside [now+lead, now+lead+interval).
// Consecutive sweeps on a fixed cadence partition time into disjoint
// windows, so a booking gets exactly one reminder.
func (w *ReminderSweeper) Sweep(ctx context.Context) error {
	now := time.Now()

	from := now.Add(reminderLead)
	to := from.Add(w.interval)

	upcoming, err := w.bookings.UpcomingBookings(ctx, from, to)
	if err != nil {
		return err
	}

	for _, b := range upcoming {
		task := notify.NewTask(notify.TypeBookingReminder, map[string]any{
			"booking_id":  b.ID.String(),
			"user_id":     b.UserID.String(),
			"property_id": b.PropertyID.String(),
			"start_date":  b.StartDate.Format(time.DateOnly),
		}, b.StartDate.Add(-reminderLead))

		if err := w.queue.Enqueue(ctx, task); err != nil {
			slog.Error("failed to queue booking reminder", "booking_id", b.ID, "error", err)
		}
	}

	slog.Info("reminder sweep complete", "upcoming", len(upcoming))

	return nil
}

// TaskSource yields tasks whose execution time has passed.
type TaskSource interface {
	PopDue(ctx context.Context, now time.Time) ([]notify.Task, error)
}

// Consumer drains due tasks from the queue and hands them to the
// notifier.
type Consumer struct {
	source   TaskSource
	notifier notify.Notifier
	interval time.Duration
}

func NewConsumer(source TaskSource, notifier notify.Notifier, interval time.Duration) *Consumer {
	return &Consumer{source: source, notifier: notifier, interval: interval}
}

func (c *Consumer) Run(ctx context.Context) {
	slog.Info("notification consumer started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("notification consumer stopped")
			return
		case <-ticker.C:
			if err := c.Drain(ctx); err != nil {
				slog.Error("draining notification queue failed", "error", err)
			}
		}
	}
}

func (c *Consumer) Drain(ctx context.Context) error {
	tasks, err := c.source.PopDue(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, task := range tasks {
		if err := c.notifier.Notify(ctx, task); err != nil {
			slog.Error("notification delivery failed", "task_id", task.ID, "type", task.Type, "error", err)
		}
	}

	return nil
}
