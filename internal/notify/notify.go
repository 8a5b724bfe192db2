package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TypeRetentionAlert  TaskType = "retention_alert"
	TypeAdminSummary    TaskType = "admin_summary"
	TypeBookingReminder TaskType = "booking_reminder"
)

// Task is one notification to deliver at or after ExecuteAt.
type Task struct {
	ID        string         `json:"id"`
	Type      TaskType       `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	ExecuteAt time.Time      `json:"execute_at"`
}

func NewTask(taskType TaskType, payload map[string]any, executeAt time.Time) Task {
	return Task{
		ID:        uuid.NewString(),
		Type:      taskType,
		Payload:   payload,
		ExecuteAt: executeAt,
	}
}

// Notifier delivers a due task to its audience.
type Notifier interface {
	Notify(ctx context.Context, task Task) error
}

// LogNotifier writes notifications to the structured log. It stands in
// for a mail or push channel in environments without one.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, task Task) error {
	slog.Info("notification", "task_id", task.ID, "type", task.Type, "payload", task.Payload)

	return nil
}
