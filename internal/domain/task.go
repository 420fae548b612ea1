package domain

import "time"

// TaskBaseXP and SessionBaseXP are the pre-bonus rewards for completing a
// task or a focus session.
const (
	TaskBaseXP    = 10
	SessionBaseXP = 25
)

type Task struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Completed   bool       `db:"completed" json:"completed"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// TimerType is the Pomodoro phase a focus session ran.
type TimerType string

const (
	TimerFocus      TimerType = "focus"
	TimerShortBreak TimerType = "short_break"
	TimerLongBreak  TimerType = "long_break"
)

type FocusSession struct {
	ID              int64      `db:"id" json:"id"`
	UserID          int64      `db:"user_id" json:"user_id"`
	TimerType       TimerType  `db:"timer_type" json:"timer_type"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	Completed       bool       `db:"completed" json:"completed"`
	StartedAt       time.Time  `db:"started_at" json:"started_at"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
