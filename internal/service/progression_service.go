package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"focusflow/internal/catalog"
	"focusflow/internal/domain"
	"focusflow/internal/logger"
	"focusflow/internal/progression"
	"focusflow/internal/repository"
	"focusflow/internal/subscription"
	"focusflow/internal/ws"
)

// ProgressionService drives the XP, streak and unlock pipeline for task
// and focus-session completion events. All state changes for one event
// commit in a single transaction with the user row locked, so concurrent
// events for the same user serialize.
type ProgressionService struct {
	db          *pgxpool.Pool
	users       *repository.UserRepository
	tasks       *repository.TaskRepository
	sessions    *repository.SessionRepository
	inventories *repository.InventoryRepository
	events      *repository.EventRepository
	hub         *ws.Hub
}

func NewProgressionService(db *pgxpool.Pool, hub *ws.Hub) *ProgressionService {
	return &ProgressionService{
		db:          db,
		users:       repository.NewUserRepository(db),
		tasks:       repository.NewTaskRepository(db),
		sessions:    repository.NewSessionRepository(db),
		inventories: repository.NewInventoryRepository(db),
		events:      repository.NewEventRepository(db),
		hub:         hub,
	}
}

// ProgressionResult summarizes what one completion event changed.
type ProgressionResult struct {
	XPAwarded      int64                     `json:"xp_awarded"`
	TotalXP        int64                     `json:"total_xp"`
	Level          int                       `json:"level"`
	LevelUp        bool                      `json:"level_up"`
	CurrentStreak  int                       `json:"current_streak"`
	ProtectionUsed bool                      `json:"protection_used"`
	Unlocked       []domain.RewardDefinition `json:"unlocked"`
}

// CompleteTask marks the task done and applies its XP, streak and unlock
// effects. A task grants XP at most once; completing an already-completed
// task returns ErrAlreadyCompleted without touching progression.
func (s *ProgressionService) CompleteTask(ctx context.Context, userID, taskID int64) (*ProgressionResult, error) {
	return s.complete(ctx, userID, domain.EventTaskCompleted, domain.TaskBaseXP,
		func(ctx context.Context, tx pgx.Tx, at time.Time) error {
			ok, err := s.tasks.MarkCompleted(ctx, tx, userID, taskID, at)
			if err != nil {
				return err
			}
			if !ok {
				if _, err := s.tasks.GetByID(ctx, userID, taskID); err != nil {
					return ErrTaskNotFound
				}
				return ErrAlreadyCompleted
			}
			return nil
		},
		func(u *domain.User) { u.TasksCompleted++ },
		map[string]interface{}{"task_id": taskID},
	)
}

// CompleteFocusSession marks the focus session done and applies its
// progression effects. Break timers record completion but grant no XP,
// so they bypass the progression pipeline entirely.
func (s *ProgressionService) CompleteFocusSession(ctx context.Context, userID, sessionID int64) (*ProgressionResult, error) {
	session, err := s.sessions.GetByID(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.TimerType != domain.TimerFocus {
		now := time.Now().UTC()
		tx, err := s.db.Begin(ctx)
		if err != nil {
			return nil, err
		}
		defer func() { _ = tx.Rollback(ctx) }()
		ok, err := s.sessions.MarkCompleted(ctx, tx, userID, sessionID, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAlreadyCompleted
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &ProgressionResult{TotalXP: u.TotalXP, Level: u.Level, CurrentStreak: u.CurrentStreak}, nil
	}

	return s.complete(ctx, userID, domain.EventSessionCompleted, domain.SessionBaseXP,
		func(ctx context.Context, tx pgx.Tx, at time.Time) error {
			ok, err := s.sessions.MarkCompleted(ctx, tx, userID, sessionID, at)
			if err != nil {
				return err
			}
			if !ok {
				return ErrAlreadyCompleted
			}
			return nil
		},
		func(u *domain.User) { u.FocusSessionsCompleted++ },
		map[string]interface{}{"session_id": sessionID, "duration_minutes": session.DurationMinutes},
	)
}

// complete runs the shared progression pipeline: lock the user, mark the
// source row, grant XP, advance the streak, bump the counter, evaluate
// unlocks once, persist, then notify.
func (s *ProgressionService) complete(
	ctx context.Context,
	userID int64,
	action string,
	baseXP int,
	mark func(context.Context, pgx.Tx, time.Time) error,
	bump func(*domain.User),
	details map[string]interface{},
) (*ProgressionResult, error) {
	now := time.Now().UTC()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	// a lapsed subscription is downgraded before any XP or predicate
	// reads the tier, so an expired premium never earns the bonus
	prevTier := user.SubscriptionTier
	expired := subscription.CheckExpiry(user, now)
	before := *user

	if err := mark(ctx, tx, now); err != nil {
		return nil, err
	}

	inv, err := s.inventories.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	boost := 1.0
	if inv.BoostActive(now) {
		boost = inv.XPBoostMultiplier
	}

	gained, err := progression.ApplyXP(user, baseXP, boost)
	if err != nil {
		return nil, err
	}

	protectionUsed := progression.UpdateStreak(user, now, inv.StreakProtectionTokens > 0)
	if protectionUsed {
		inv.StreakProtectionTokens--
		if err := s.inventories.Save(ctx, tx, inv); err != nil {
			return nil, err
		}
	}

	bump(user)

	unlocked := applyUnlocks(&before, user)

	if err := s.users.SaveProgress(ctx, tx, user); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if expired {
		recordEvent(ctx, s.events, userID, domain.EventSubscriptionExpired, map[string]interface{}{
			"previous_tier": string(prevTier),
		})
		EventsProcessed.WithLabelValues(domain.EventSubscriptionExpired).Inc()
	}
	details["xp_awarded"] = gained
	details["protection_used"] = protectionUsed
	recordEvent(ctx, s.events, userID, action, details)
	notifyProgress(s.hub, userID, before.Level, user, unlocked)

	EventsProcessed.WithLabelValues(action).Inc()
	XPGranted.Add(float64(gained))

	return &ProgressionResult{
		XPAwarded:      gained,
		TotalXP:        user.TotalXP,
		Level:          user.Level,
		LevelUp:        user.Level > before.Level,
		CurrentStreak:  user.CurrentStreak,
		ProtectionUsed: protectionUsed,
		Unlocked:       unlocked,
	}, nil
}

// applyUnlocks runs one evaluation pass between the snapshots and records
// the results, including the flat XP each unlocked reward grants. Reward
// XP skips the premium multiplier and any active booster.
func applyUnlocks(before, after *domain.User) []domain.RewardDefinition {
	unlocked := progression.EvaluateUnlocks(before, after, catalog.Rewards())
	for _, def := range unlocked {
		progression.RecordUnlock(after, def)
		after.TotalXP += int64(def.XPReward)
	}
	if len(unlocked) > 0 {
		after.Level = progression.LevelFromXP(after.TotalXP)
	}
	return unlocked
}

// recordEvent appends to the event log. Log writes are best-effort and
// never fail the originating operation.
func recordEvent(ctx context.Context, events *repository.EventRepository, userID int64, action string, details map[string]interface{}) {
	err := events.Create(ctx, &domain.EventLog{UserID: userID, Action: action, Details: details})
	if err != nil {
		logger.Error("event log write failed", "action", action, "user_id", userID, "error", err)
	}
}

func notifyProgress(hub *ws.Hub, userID int64, prevLevel int, u *domain.User, unlocked []domain.RewardDefinition) {
	for _, def := range unlocked {
		RewardsUnlocked.WithLabelValues(string(def.Kind)).Inc()
	}
	if hub == nil {
		return
	}
	if u.Level > prevLevel {
		hub.Notify(userID, ws.Notification{
			Type:    ws.TypeLevelUp,
			Payload: map[string]interface{}{"level": u.Level, "total_xp": u.TotalXP},
		})
	}
	for _, def := range unlocked {
		hub.Notify(userID, ws.Notification{Type: ws.TypeRewardUnlocked, Payload: def})
	}
}
