package repository

import (
	"context"
	"time"

	"focusflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.UserID, t.Title, t.Description,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *TaskRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, description, completed, created_at, completed_at
		 FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	return scanTask(row)
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int64, completed *bool) ([]*domain.Task, error) {
	query := `SELECT id, user_id, title, description, completed, created_at, completed_at
	          FROM tasks WHERE user_id = $1`
	args := []any{userID}
	if completed != nil {
		query += ` AND completed = $2`
		args = append(args, *completed)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// MarkCompleted flips a pending task to completed. Returns false when the
// task was already completed, so XP is awarded at most once per task.
func (r *TaskRepository) MarkCompleted(ctx context.Context, tx pgx.Tx, userID, id int64, at time.Time) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE tasks SET completed = TRUE, completed_at = $3
		 WHERE id = $1 AND user_id = $2 AND completed = FALSE`,
		id, userID, at,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	_, err := r.db.Exec(ctx,
		`UPDATE tasks SET title = $3, description = $4 WHERE id = $1 AND user_id = $2`,
		t.ID, t.UserID, t.Title, t.Description,
	)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CountCompletedToday returns how many tasks the user completed on the
// given calendar day (UTC), for the dashboard.
func (r *TaskRepository) CountCompletedToday(ctx context.Context, userID int64, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks
		 WHERE user_id = $1 AND completed = TRUE AND completed_at >= $2 AND completed_at < $3`,
		userID, start, start.AddDate(0, 0, 1),
	).Scan(&n)
	return n, err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
