package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/booking"
	"github.com/MrJamesThe3rd/casita/internal/property"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectPropertyColumns = `
	id, owner_id, name, description, address, monthly_price,
	bedrooms, bathrooms, size_sqm, is_available, status, images, created_at
`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(s scanner) (*property.Property, error) {
	var p property.Property

	var statusStr string

	var images []byte

	if err := s.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Address, &p.MonthlyPrice,
		&p.Bedrooms, &p.Bathrooms, &p.SizeSqm, &p.IsAvailable, &statusStr, &images, &p.CreatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = property.Status(statusStr)

	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("unmarshaling images: %w", err)
		}
	}

	return &p, nil
}

func (s *Store) CreateProperty(ctx context.Context, p *property.Property) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshaling images: %w", err)
	}

	if p.Images == nil {
		images = []byte("[]")
	}

	query := `
		INSERT INTO properties (owner_id, name, description, address, monthly_price, bedrooms, bathrooms, size_sqm, is_available, status, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		p.OwnerID,
		p.Name,
		p.Description,
		p.Address,
		p.MonthlyPrice,
		p.Bedrooms,
		p.Bathrooms,
		p.SizeSqm,
		p.IsAvailable,
		p.Status,
		images,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating property: %w", err)
	}

	return nil
}

func (s *Store) GetProperty(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	query := `SELECT ` + selectPropertyColumns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, property.ErrNotFound
		}

		return nil, fmt.Errorf("getting property: %w", err)
	}

	return p, nil
}

func (s *Store) ListProperties(ctx context.Context, filter property.ListFilter) ([]*property.Property, int, error) {
	where := " WHERE TRUE"

	var args []any

	argIdx := 1

	if filter.AvailableOnly {
		where += " AND is_available"
	}

	if filter.Search != nil {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR address ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx, argIdx)

		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	if filter.MinPrice != nil {
		where += fmt.Sprintf(" AND monthly_price >= $%d", argIdx)

		args = append(args, *filter.MinPrice)
		argIdx++
	}

	if filter.MaxPrice != nil {
		where += fmt.Sprintf(" AND monthly_price <= $%d", argIdx)

		args = append(args, *filter.MaxPrice)
		argIdx++
	}

	if filter.Bedrooms != nil {
		where += fmt.Sprintf(" AND bedrooms = $%d", argIdx)

		args = append(args, *filter.Bedrooms)
		argIdx++
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting properties: %w", err)
	}

	query := `SELECT ` + selectPropertyColumns + ` FROM properties` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var properties []*property.Property

	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning property: %w", err)
		}

		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating property rows: %w", err)
	}

	return properties, total, nil
}

func (s *Store) UpdateProperty(ctx context.Context, p *property.Property) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshaling images: %w", err)
	}

	if p.Images == nil {
		images = []byte("[]")
	}

	query := `
		UPDATE properties
		SET name = $1, description = $2, address = $3, monthly_price = $4,
		    bedrooms = $5, bathrooms = $6, size_sqm = $7, is_available = $8, images = $9
		WHERE id = $10
	`

	result, err := s.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.Address,
		p.MonthlyPrice,
		p.Bedrooms,
		p.Bathrooms,
		p.SizeSqm,
		p.IsAvailable,
		images,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if affected == 0 {
		return property.ErrNotFound
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status property.Status) error {
	query := `UPDATE properties SET status = $1 WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating property status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if affected == 0 {
		return property.ErrNotFound
	}

	return nil
}

// DeleteProperty removes a property unless a non-terminal booking still
// references it. Check and delete share one transaction so a booking
// created concurrently cannot slip between them.
func (s *Store) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete tx: %w", err)
	}
	defer tx.Rollback()

	var active int

	query := `SELECT COUNT(*) FROM bookings WHERE property_id = $1 AND status IN ($2, $3)`
	if err := tx.QueryRowContext(ctx, query, id, booking.StatusPending, booking.StatusConfirmed).Scan(&active); err != nil {
		return fmt.Errorf("counting active bookings: %w", err)
	}

	if active > 0 {
		return property.ErrActiveBookings
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if affected == 0 {
		return property.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return nil
}
