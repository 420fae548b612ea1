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
)

// UserService handles account lifecycle and the aggregated dashboard.
type UserService struct {
	db          *pgxpool.Pool
	users       *repository.UserRepository
	tasks       *repository.TaskRepository
	sessions    *repository.SessionRepository
	wallets     *repository.WalletRepository
	inventories *repository.InventoryRepository
	billing     *BillingService
	referrals   *ReferralService
}

func NewUserService(db *pgxpool.Pool, billing *BillingService, referrals *ReferralService) *UserService {
	return &UserService{
		db:          db,
		users:       repository.NewUserRepository(db),
		tasks:       repository.NewTaskRepository(db),
		sessions:    repository.NewSessionRepository(db),
		wallets:     repository.NewWalletRepository(db),
		inventories: repository.NewInventoryRepository(db),
		billing:     billing,
		referrals:   referrals,
	}
}

// Register creates an account, or returns the existing one for the email.
// A referral code, when present, links the new account to its referrer;
// referral problems do not fail the signup.
func (s *UserService) Register(ctx context.Context, name, email, referralCode string) (u *domain.User, created bool, err error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	u = &domain.User{
		Name:             name,
		Email:            email,
		Level:            1,
		SubscriptionTier: domain.TierFree,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, false, err
	}

	if referralCode != "" {
		if _, err := s.referrals.RegisterSignup(ctx, u.ID, referralCode); err != nil {
			logger.Warn("referral signup skipped", "user_id", u.ID, "code", referralCode, "error", err)
		}
	}
	return u, true, nil
}

// Get loads a user, downgrading a lapsed subscription and repairing a
// drifted level before returning.
func (s *UserService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := s.billing.EnsureFresh(ctx, u); err != nil {
		return nil, err
	}
	u.Level = progression.LevelFromXP(u.TotalXP)
	return u, nil
}

// Dashboard is the aggregate the client renders on its home screen.
type Dashboard struct {
	User            *domain.User        `json:"user"`
	LevelPercent    float64             `json:"level_percent"`
	XPToNextLevel   int64               `json:"xp_to_next_level"`
	TasksToday      int                 `json:"tasks_today"`
	SessionsToday   int                 `json:"sessions_today"`
	MinutesToday    int                 `json:"minutes_today"`
	Theme           catalog.DailyTheme  `json:"theme"`
	Features        map[string]bool     `json:"features"`
	WalletAvailable int64               `json:"wallet_available_cents"`
	Achievements    int                 `json:"achievements_unlocked"`
	Badges          int                 `json:"badges_unlocked"`
}

// GetDashboard assembles the home-screen snapshot in one call.
func (s *UserService) GetDashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tasksToday, err := s.tasks.CountCompletedToday(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	sessionsToday, minutesToday, err := s.sessions.TodayStats(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	wallet, err := s.wallets.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	percent, toNext := progression.LevelProgress(u)
	return &Dashboard{
		User:            u,
		LevelPercent:    percent,
		XPToNextLevel:   toNext,
		TasksToday:      tasksToday,
		SessionsToday:   sessionsToday,
		MinutesToday:    minutesToday,
		Theme:           catalog.ThemeForDay(now),
		Features:        catalog.FeatureFlags(u.SubscriptionTier),
		WalletAvailable: wallet.AvailableCents,
		Achievements:    len(u.UnlockedAchievementIDs),
		Badges:          len(u.UnlockedBadgeIDs),
	}, nil
}

// ChallengeStatus pairs a daily challenge with the user's progress.
type ChallengeStatus struct {
	catalog.DailyChallenge
	CurrentProgress int  `json:"current_progress"`
	Completed       bool `json:"completed"`
}

// earlyBirdCutoffHour ends the early-session window (UTC).
const earlyBirdCutoffHour = 9

// DailyChallenges derives today's challenge progress from the user's
// activity counters. Nothing is stored, so progress resets at midnight
// UTC on its own.
func (s *UserService) DailyChallenges(ctx context.Context, userID int64) ([]ChallengeStatus, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tasksToday, err := s.tasks.CountCompletedToday(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	focusToday, err := s.sessions.CountFocusCompletedBetween(ctx, userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	earlyToday, err := s.sessions.CountFocusCompletedBetween(ctx, userID, dayStart, dayStart.Add(earlyBirdCutoffHour*time.Hour))
	if err != nil {
		return nil, err
	}
	inv, err := s.inventories.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	activity := catalog.DayActivity{
		TasksCompleted: tasksToday,
		FocusSessions:  focusToday,
		EarlySessions:  earlyToday,
		CurrentStreak:  u.CurrentStreak,
		OwnedThemes:    len(inv.OwnedThemes),
	}

	statuses := make([]ChallengeStatus, 0, len(catalog.Challenges()))
	for _, ch := range catalog.Challenges() {
		current, completed := catalog.ChallengeProgress(ch, activity)
		statuses = append(statuses, ChallengeStatus{
			DailyChallenge:  ch,
			CurrentProgress: current,
			Completed:       completed,
		})
	}
	return statuses, nil
}
