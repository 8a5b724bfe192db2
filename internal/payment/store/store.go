package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/payment"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectPaymentColumns = `p.id, p.booking_id, p.amount, p.method, COALESCE(p.intent_id, ''), p.status, p.receipt_number, p.receipt_url, p.paid_at, p.created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(s scanner) (*payment.Payment, error) {
	var p payment.Payment

	err := s.Scan(
		&p.ID,
		&p.BookingID,
		&p.Amount,
		&p.Method,
		&p.IntentID,
		&p.Status,
		&p.ReceiptNumber,
		&p.ReceiptURL,
		&p.PaidAt,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO payments (booking_id, amount, method, intent_id, status)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id, created_at`,
		p.BookingID, p.Amount, p.Method, p.IntentID, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}

	return nil
}

func (s *Store) SetIntentID(ctx context.Context, id uuid.UUID, intentID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET intent_id = $1 WHERE id = $2`, intentID, id)
	if err != nil {
		return fmt.Errorf("setting payment intent id: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if affected == 0 {
		return payment.ErrNotFound
	}

	return nil
}

func (s *Store) GetPayment(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectPaymentColumns+` FROM payments p WHERE p.id = $1`, id)

	return one(row)
}

func (s *Store) GetPaymentByIntentID(ctx context.Context, intentID string) (*payment.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectPaymentColumns+` FROM payments p WHERE p.intent_id = $1`, intentID)

	return one(row)
}

func one(row *sql.Row) (*payment.Payment, error) {
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, payment.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting payment: %w", err)
	}

	return p, nil
}

func (s *Store) HasCompletedPayment(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE booking_id = $1 AND status = 'completed'`,
		bookingID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting completed payments: %w", err)
	}

	return count > 0, nil
}

// CompletePayment settles the payment and confirms its booking in one
// transaction. The guarded UPDATE only matches a pending payment, so a
// concurrent settle of the same payment loses and gets ErrNotPayable.
func (s *Store) CompletePayment(ctx context.Context, id uuid.UUID, receiptNumber string) (*payment.Payment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE payments p SET status = 'completed', receipt_number = $1, paid_at = NOW()
		WHERE p.id = $2 AND p.status = 'pending'
		RETURNING `+selectPaymentColumns,
		receiptNumber, id)

	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool

		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("checking payment: %w", err)
		}

		if !exists {
			return nil, payment.ErrNotFound
		}

		return nil, payment.ErrNotPayable
	}

	if err != nil {
		return nil, fmt.Errorf("completing payment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'confirmed', updated_at = NOW() WHERE id = $1`,
		p.BookingID,
	); err != nil {
		return nil, fmt.Errorf("confirming booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return p, nil
}

// FailPayment marks the payment failed and cancels its booking in one
// transaction, so a rejected payment frees the dates it was holding.
func (s *Store) FailPayment(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var bookingID uuid.UUID

	err = tx.QueryRowContext(ctx, `
		UPDATE payments SET status = 'failed'
		WHERE id = $1 AND status = 'pending'
		RETURNING booking_id`,
		id,
	).Scan(&bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return payment.ErrNotPayable
	}

	if err != nil {
		return fmt.Errorf("failing payment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'cancelled', updated_at = NOW() WHERE id = $1`,
		bookingID,
	); err != nil {
		return fmt.Errorf("cancelling rejected booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// RefundPayment reverses a completed payment and cancels its booking in
// one transaction.
func (s *Store) RefundPayment(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var bookingID uuid.UUID

	err = tx.QueryRowContext(ctx, `
		UPDATE payments SET status = 'refunded'
		WHERE id = $1 AND status = 'completed'
		RETURNING booking_id`,
		id,
	).Scan(&bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return payment.ErrNotRefundable
	}

	if err != nil {
		return fmt.Errorf("refunding payment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'cancelled', updated_at = NOW() WHERE id = $1`,
		bookingID,
	); err != nil {
		return fmt.Errorf("cancelling refunded booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) ListPayments(ctx context.Context, filter payment.ListFilter) ([]*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments p`

	var args []any

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(` JOIN bookings b ON b.id = p.booking_id WHERE b.user_id = $%d`, len(args))
	} else {
		query += ` WHERE 1=1`
	}

	if filter.BookingID != nil {
		args = append(args, *filter.BookingID)
		query += fmt.Sprintf(` AND p.booking_id = $%d`, len(args))
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND p.status = $%d`, len(args))
	}

	query += ` ORDER BY p.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*payment.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return payments, nil
}
