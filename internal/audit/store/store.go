package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/MrJamesThe3rd/casita/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertEntry(ctx context.Context, e *audit.Entry) error {
	var metadata []byte

	if e.Metadata != nil {
		var err error

		metadata, err = json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling audit metadata: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, description, ip_address, user_agent, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.UserID,
		e.Action,
		e.EntityType,
		e.EntityID,
		e.Description,
		e.IPAddress,
		e.UserAgent,
		metadata,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return nil
}

func (s *Store) ListEntries(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, error) {
	query := `
		SELECT id, user_id, action, entity_type, entity_id, description, ip_address, user_agent, metadata, created_at
		FROM audit_logs
		WHERE TRUE
	`

	var args []any

	argIdx := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argIdx)

		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.Action != nil {
		query += fmt.Sprintf(" AND action = $%d", argIdx)

		args = append(args, *filter.Action)
		argIdx++
	}

	if filter.EntityType != nil {
		query += fmt.Sprintf(" AND entity_type = $%d", argIdx)

		args = append(args, *filter.EntityType)
		argIdx++
	}

	if filter.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)

		args = append(args, *filter.Since)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIdx)
	args = append(args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry

	for rows.Next() {
		var e audit.Entry

		var actionStr string

		var metadata []byte

		if err := rows.Scan(
			&e.ID, &e.UserID, &actionStr, &e.EntityType, &e.EntityID,
			&e.Description, &e.IPAddress, &e.UserAgent, &metadata, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		e.Action = audit.Action(actionStr)

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling audit metadata: %w", err)
			}
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit rows: %w", err)
	}

	return entries, nil
}
