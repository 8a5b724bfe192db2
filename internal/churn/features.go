package churn

import (
	"fmt"

	"github.com/google/uuid"
)

// FeatureRecord is one tenant's behavioral snapshot, aggregated from
// their booking and payment history.
type FeatureRecord struct {
	TenantID             uuid.UUID
	TotalBookings        int
	CompletedBookings    int
	CancelledBookings    int
	FailedPayments       int
	TotalSpent           int64
	DaysSinceLastBooking int
}

func (r *FeatureRecord) Validate() error {
	if r.TotalBookings < 0 || r.CompletedBookings < 0 || r.CancelledBookings < 0 || r.FailedPayments < 0 {
		return fmt.Errorf("tenant %s: negative booking counts", r.TenantID)
	}

	if r.CompletedBookings+r.CancelledBookings > r.TotalBookings {
		return fmt.Errorf("tenant %s: terminal bookings exceed total", r.TenantID)
	}

	if r.TotalSpent < 0 {
		return fmt.Errorf("tenant %s: negative total spent", r.TenantID)
	}

	if r.DaysSinceLastBooking < 0 {
		return fmt.Errorf("tenant %s: negative recency", r.TenantID)
	}

	return nil
}

// vector maps the record onto the model's named inputs. Counts are used
// as ratios where possible so tenants with very different volumes stay
// comparable; spend is scaled to thousands of pesos.
func (r *FeatureRecord) vector() map[string]float64 {
	total := float64(r.TotalBookings)
	if total == 0 {
		total = 1
	}

	return map[string]float64{
		"total_bookings":   float64(r.TotalBookings),
		"cancel_ratio":     float64(r.CancelledBookings) / total,
		"completion_ratio": float64(r.CompletedBookings) / total,
		"failed_payments":  float64(r.FailedPayments),
		"spend_thousands":  float64(r.TotalSpent) / 100 / 1000,
		"recency_months":   float64(r.DaysSinceLastBooking) / 30,
	}
}
