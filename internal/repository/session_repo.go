package repository

import (
	"context"
	"time"

	"focusflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.FocusSession) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO focus_sessions (user_id, timer_type, duration_minutes)
		 VALUES ($1, $2, $3)
		 RETURNING id, started_at`,
		s.UserID, s.TimerType, s.DurationMinutes,
	).Scan(&s.ID, &s.StartedAt)
}

func (r *SessionRepository) GetByID(ctx context.Context, userID, id int64) (*domain.FocusSession, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, timer_type, duration_minutes, completed, started_at, completed_at
		 FROM focus_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	return scanSession(row)
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.FocusSession, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, timer_type, duration_minutes, completed, started_at, completed_at
		 FROM focus_sessions WHERE user_id = $1
		 ORDER BY started_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.FocusSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// MarkCompleted flips a running session to completed. Returns false when
// already completed.
func (r *SessionRepository) MarkCompleted(ctx context.Context, tx pgx.Tx, userID, id int64, at time.Time) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE focus_sessions SET completed = TRUE, completed_at = $3
		 WHERE id = $1 AND user_id = $2 AND completed = FALSE`,
		id, userID, at,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// TodayStats aggregates completed sessions and focus minutes for the given
// calendar day (UTC).
func (r *SessionRepository) TodayStats(ctx context.Context, userID int64, day time.Time) (count, minutes int, err error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0) FROM focus_sessions
		 WHERE user_id = $1 AND completed = TRUE AND completed_at >= $2 AND completed_at < $3`,
		userID, start, start.AddDate(0, 0, 1),
	).Scan(&count, &minutes)
	return count, minutes, err
}

// CountFocusCompletedBetween counts completed focus sessions (break
// timers excluded) finished in [from, to).
func (r *SessionRepository) CountFocusCompletedBetween(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM focus_sessions
		 WHERE user_id = $1 AND timer_type = 'focus' AND completed = TRUE
		   AND completed_at >= $2 AND completed_at < $3`,
		userID, from, to,
	).Scan(&count)
	return count, err
}

func scanSession(row pgx.Row) (*domain.FocusSession, error) {
	var s domain.FocusSession
	err := row.Scan(&s.ID, &s.UserID, &s.TimerType, &s.DurationMinutes, &s.Completed, &s.StartedAt, &s.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
