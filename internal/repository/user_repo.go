package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"focusflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, referral_code, total_xp, level, current_streak, best_streak,
	last_activity_date, tasks_completed, focus_sessions_completed, total_referrals, items_purchased,
	subscription_tier, subscription_expires_at, achievement_accelerator,
	unlocked_achievement_ids, unlocked_badge_ids, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GenerateReferralCode generates a short random referral code.
func GenerateReferralCode() string {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

// Create inserts a new user with a fresh referral code, retrying only on
// the unlikely code collision. Any other error, a duplicate email
// included, surfaces immediately.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	var err error
	for i := 0; i < 5; i++ {
		u.ReferralCode = GenerateReferralCode()
		err = r.db.QueryRow(ctx,
			`INSERT INTO users (name, email, referral_code)
			 VALUES ($1, $2, $3)
			 RETURNING id, subscription_tier, level, created_at`,
			u.Name, u.Email, u.ReferralCode,
		).Scan(&u.ID, &u.SubscriptionTier, &u.Level, &u.CreatedAt)
		if err == nil {
			return nil
		}
		if !isReferralCodeCollision(err) {
			return err
		}
	}
	return err
}

// isReferralCodeCollision matches the unique violation (SQLSTATE 23505)
// on the referral code index, the only insert error worth a retry.
func isReferralCodeCollision(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23505" &&
		pgErr.ConstraintName == "users_referral_code_key"
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
	return scanUser(row)
}

// GetForUpdate loads a user inside an open transaction with a row lock,
// serializing concurrent progression updates for the same user.
func (r *UserRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.User, error) {
	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	return scanUser(row)
}

// SaveProgress writes back every engine-mutable field.
func (r *UserRepository) SaveProgress(ctx context.Context, tx pgx.Tx, u *domain.User) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET
			total_xp = $2, level = $3, current_streak = $4, best_streak = $5,
			last_activity_date = $6, tasks_completed = $7, focus_sessions_completed = $8,
			total_referrals = $9, items_purchased = $10,
			subscription_tier = $11, subscription_expires_at = $12,
			achievement_accelerator = $13,
			unlocked_achievement_ids = $14, unlocked_badge_ids = $15
		 WHERE id = $1`,
		u.ID, u.TotalXP, u.Level, u.CurrentStreak, u.BestStreak,
		u.LastActivityDate, u.TasksCompleted, u.FocusSessionsCompleted,
		u.TotalReferrals, u.ItemsPurchased,
		u.SubscriptionTier, u.SubscriptionExpiresAt,
		u.AchievementAccelerator,
		u.UnlockedAchievementIDs, u.UnlockedBadgeIDs,
	)
	return err
}

// SaveSubscription persists only the subscription fields, used by the lazy
// expiry path and the background sweep.
func (r *UserRepository) SaveSubscription(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET subscription_tier = $2, subscription_expires_at = $3 WHERE id = $1`,
		u.ID, u.SubscriptionTier, u.SubscriptionExpiresAt,
	)
	return err
}

// ListExpired returns ids of users whose monthly/yearly subscription has
// lapsed, for the background downgrade sweep.
func (r *UserRepository) ListExpired(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM users
		 WHERE subscription_tier IN ('premium_monthly', 'premium_yearly')
		   AND subscription_expires_at < NOW()`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.ReferralCode, &u.TotalXP, &u.Level,
		&u.CurrentStreak, &u.BestStreak, &u.LastActivityDate,
		&u.TasksCompleted, &u.FocusSessionsCompleted, &u.TotalReferrals, &u.ItemsPurchased,
		&u.SubscriptionTier, &u.SubscriptionExpiresAt, &u.AchievementAccelerator,
		&u.UnlockedAchievementIDs, &u.UnlockedBadgeIDs, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
