package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/casita/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DashboardStats gathers the admin overview in a single round trip.
// Scalar subqueries keep the counts consistent within one snapshot.
func (s *Store) DashboardStats(ctx context.Context) (*report.DashboardStats, error) {
	var stats report.DashboardStats

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM properties),
			(SELECT COUNT(*) FROM properties WHERE status = 'approved'),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'tenant' AND is_active),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COUNT(*) FROM bookings WHERE status = 'pending'),
			(SELECT COUNT(*) FROM bookings WHERE status = 'confirmed'),
			(SELECT COUNT(*) FROM bookings WHERE created_at >= date_trunc('month', NOW())),
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'completed'),
			(SELECT COALESCE(SUM(amount), 0) FROM payments
				WHERE status = 'completed' AND paid_at >= date_trunc('month', NOW()))`,
	).Scan(
		&stats.TotalProperties,
		&stats.ApprovedProperties,
		&stats.TotalUsers,
		&stats.ActiveTenants,
		&stats.TotalBookings,
		&stats.PendingBookings,
		&stats.ConfirmedBookings,
		&stats.BookingsThisMonth,
		&stats.TotalRevenue,
		&stats.RevenueThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("querying dashboard stats: %w", err)
	}

	return &stats, nil
}
