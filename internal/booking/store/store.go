package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/booking"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectBookingColumns = `id, user_id, property_id, start_date, end_date, total_amount, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner) (*booking.Booking, error) {
	var b booking.Booking

	err := s.Scan(
		&b.ID,
		&b.UserID,
		&b.PropertyID,
		&b.StartDate,
		&b.EndDate,
		&b.TotalAmount,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// propertyLockKey derives the advisory lock key serializing bookings for
// one property. Bookings for different properties do not contend.
func propertyLockKey(propertyID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(propertyID[:])

	return int64(h.Sum64())
}

// conflictCondition matches blocking bookings whose [start_date, end_date)
// range overlaps the requested range: the requested start falls inside an
// existing range, the requested end falls inside one, or an existing range
// sits wholly inside the requested one. Same-day handover is allowed
// because the end date is exclusive. Keep in sync with booking.Overlaps.
const conflictCondition = `
		status IN ('pending', 'confirmed')
		AND (
			(start_date <= $2 AND end_date > $2)
			OR (start_date < $3 AND end_date >= $3)
			OR (start_date >= $2 AND end_date <= $3)
		)`

func (s *Store) FindConflicts(ctx context.Context, propertyID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*booking.Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE property_id = $1 AND` + conflictCondition

	args := []any{propertyID, start, end}
	if exclude != nil {
		query += ` AND id <> $4`
		args = append(args, *exclude)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conflicting bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// CreateBooking inserts b after re-checking for conflicts inside a
// transaction holding the property's advisory lock. The lock forces
// concurrent creates for the same property to run the check one at a
// time, so at most one of two overlapping requests can commit.
func (s *Store) CreateBooking(ctx context.Context, b *booking.Booking) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, propertyLockKey(b.PropertyID)); err != nil {
		return fmt.Errorf("acquiring property lock: %w", err)
	}

	var available bool

	err = tx.QueryRowContext(ctx, `SELECT is_available FROM properties WHERE id = $1`, b.PropertyID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.ErrPropertyUnavailable
	}

	if err != nil {
		return fmt.Errorf("checking property availability: %w", err)
	}

	if !available {
		return booking.ErrPropertyUnavailable
	}

	var conflicts int

	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE property_id = $1 AND`+conflictCondition,
		b.PropertyID, b.StartDate, b.EndDate,
	).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("checking for conflicting bookings: %w", err)
	}

	if conflicts > 0 {
		return booking.ErrDateConflict
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, property_id, start_date, end_date, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		b.UserID, b.PropertyID, b.StartDate, b.EndDate, b.TotalAmount, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectBookingColumns+` FROM bookings WHERE id = $1`, id)

	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting booking: %w", err)
	}

	return b, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("updating booking status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if affected == 0 {
		return booking.ErrNotFound
	}

	return nil
}

func (s *Store) ListBookings(ctx context.Context, filter booking.ListFilter) ([]*booking.Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE 1=1`

	var args []any

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}

	if filter.PropertyID != nil {
		args = append(args, *filter.PropertyID)
		query += fmt.Sprintf(" AND property_id = $%d", len(args))
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UpcomingBookings returns confirmed bookings starting inside [from, to),
// used by the worker to schedule move-in reminders.
func (s *Store) UpcomingBookings(ctx context.Context, from, to time.Time) ([]*booking.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectBookingColumns+` FROM bookings
		 WHERE status = 'confirmed' AND start_date >= $1 AND start_date < $2
		 ORDER BY start_date`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("listing upcoming bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]*booking.Booking, error) {
	var bookings []*booking.Booking

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}

		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookings: %w", err)
	}

	return bookings, nil
}
