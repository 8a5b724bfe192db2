package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/churn"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// tenantFeaturesQuery aggregates per-tenant booking and payment history.
// Tenants with no bookings are excluded; there is nothing to score.
const tenantFeaturesQuery = `
	SELECT
		u.id,
		COUNT(b.id),
		COUNT(b.id) FILTER (WHERE b.status = 'completed'),
		COUNT(b.id) FILTER (WHERE b.status = 'cancelled'),
		COALESCE((
			SELECT COUNT(*) FROM payments p
			JOIN bookings pb ON pb.id = p.booking_id
			WHERE pb.user_id = u.id AND p.status = 'failed'
		), 0),
		COALESCE((
			SELECT SUM(p.amount) FROM payments p
			JOIN bookings pb ON pb.id = p.booking_id
			WHERE pb.user_id = u.id AND p.status = 'completed'
		), 0),
		COALESCE(EXTRACT(DAY FROM NOW() - MAX(b.created_at))::INT, 0)
	FROM users u
	JOIN bookings b ON b.user_id = u.id
	WHERE u.role = 'tenant' AND u.is_active`

func (s *Store) TenantFeatures(ctx context.Context, tenantID uuid.UUID) (*churn.FeatureRecord, error) {
	row := s.db.QueryRowContext(ctx, tenantFeaturesQuery+` AND u.id = $1 GROUP BY u.id`, tenantID)

	rec, err := scanFeatures(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, churn.ErrNoHistory
	}

	if err != nil {
		return nil, fmt.Errorf("querying tenant features: %w", err)
	}

	return rec, nil
}

func (s *Store) AllTenantFeatures(ctx context.Context) ([]*churn.FeatureRecord, error) {
	rows, err := s.db.QueryContext(ctx, tenantFeaturesQuery+` GROUP BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("querying tenant features: %w", err)
	}
	defer rows.Close()

	var records []*churn.FeatureRecord

	for rows.Next() {
		rec, err := scanFeatures(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tenant features: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tenant features: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeatures(s scanner) (*churn.FeatureRecord, error) {
	var rec churn.FeatureRecord

	err := s.Scan(
		&rec.TenantID,
		&rec.TotalBookings,
		&rec.CompletedBookings,
		&rec.CancelledBookings,
		&rec.FailedPayments,
		&rec.TotalSpent,
		&rec.DaysSinceLastBooking,
	)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}
