package repository

import (
	"context"
	"encoding/json"

	"focusflow/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create appends a domain event to the log.
func (r *EventRepository) Create(ctx context.Context, e *domain.EventLog) error {
	detailsJSON, err := json.Marshal(e.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO event_log (user_id, action, details) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		e.UserID, e.Action, detailsJSON,
	).Scan(&e.ID, &e.CreatedAt)
}

// ListByUser returns the most recent events for a user.
func (r *EventRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.EventLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, action, details, created_at FROM event_log
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.EventLog
	for rows.Next() {
		var e domain.EventLog
		var details []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(details, &e.Details)
		out = append(out, e)
	}
	return out, rows.Err()
}
