package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hideout/hideout/internal/model"
)

// ErrEventNotFound indicates the event does not exist or belongs to
// another user.
var ErrEventNotFound = errors.New("event not found")

// CreateEvent inserts a new calendar event.
func (r *Repository) CreateEvent(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (id, user_id, title, start_at, end_at, location, description, is_recurring, recurrence_rule, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.Title,
		event.StartAt,
		event.EndAt,
		event.Location,
		event.Description,
		event.IsRecurring,
		event.RecurrenceRule,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// ListEvents returns the user's events in chronological order.
func (r *Repository) ListEvents(ctx context.Context, userID string) ([]*model.Event, error) {
	query := `
		SELECT id, user_id, title, start_at, end_at, location, description, is_recurring, recurrence_rule, created_at, updated_at
		FROM events
		WHERE user_id = $1
		ORDER BY start_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}

// UpdateEvent replaces an event's mutable fields, scoped to its owner.
func (r *Repository) UpdateEvent(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		UPDATE events
		SET title = $3, start_at = $4, end_at = $5, location = $6, description = $7, is_recurring = $8, recurrence_rule = $9, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, start_at, end_at, location, description, is_recurring, recurrence_rule, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query,
		event.ID,
		event.UserID,
		event.Title,
		event.StartAt,
		event.EndAt,
		event.Location,
		event.Description,
		event.IsRecurring,
		event.RecurrenceRule,
	)

	updated, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return updated, nil
}

// DeleteEvent removes an event owned by the given user.
func (r *Repository) DeleteEvent(ctx context.Context, userID, eventID string) error {
	query := `DELETE FROM events WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Title,
		&event.StartAt,
		&event.EndAt,
		&event.Location,
		&event.Description,
		&event.IsRecurring,
		&event.RecurrenceRule,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
