package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"focusflow/internal/domain"
	"focusflow/internal/payment"
	"focusflow/internal/repository"
	"focusflow/internal/service"
)

func applyMigrationsToPool(t *testing.T, dbp *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := dbp.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connectTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	dbp, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(dbp.Close)
	applyMigrationsToPool(t, dbp)
	return dbp
}

func createTestUser(t *testing.T, dbp *pgxpool.Pool, suffix string) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:             "user-" + suffix,
		Email:            fmt.Sprintf("%s-%d@test.local", suffix, time.Now().UnixNano()),
		Level:            1,
		SubscriptionTier: domain.TierFree,
	}
	if err := repository.NewUserRepository(dbp).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestTaskCompletionPipeline(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	u := createTestUser(t, dbp, "pipeline")
	tasks := repository.NewTaskRepository(dbp)
	task := &domain.Task{UserID: u.ID, Title: "write report"}
	if err := tasks.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	svc := service.NewProgressionService(dbp, nil)
	result, err := svc.CompleteTask(ctx, u.ID, task.ID)
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if result.XPAwarded != int64(domain.TaskBaseXP) {
		t.Errorf("xp awarded = %d, want %d", result.XPAwarded, domain.TaskBaseXP)
	}
	if result.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1", result.CurrentStreak)
	}

	// completing the same task again must not grant XP twice
	if _, err := svc.CompleteTask(ctx, u.ID, task.ID); !errors.Is(err, service.ErrAlreadyCompleted) {
		t.Errorf("second completion: got %v, want ErrAlreadyCompleted", err)
	}

	fresh, err := repository.NewUserRepository(dbp).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if fresh.TotalXP != int64(domain.TaskBaseXP) {
		t.Errorf("total xp = %d, want %d", fresh.TotalXP, domain.TaskBaseXP)
	}
	if fresh.TasksCompleted != 1 {
		t.Errorf("tasks completed = %d, want 1", fresh.TasksCompleted)
	}
}

func TestReferralCommissionAccruesOnce(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	referrer := createTestUser(t, dbp, "referrer")
	referred := createTestUser(t, dbp, "referred")

	referrals := service.NewReferralService(dbp, nil)
	if _, err := referrals.RegisterSignup(ctx, referred.ID, referrer.ReferralCode); err != nil {
		t.Fatalf("register signup: %v", err)
	}

	// a second signup for the same user must not create another edge
	if _, err := referrals.RegisterSignup(ctx, referred.ID, referrer.ReferralCode); !errors.Is(err, service.ErrDuplicateReferral) {
		t.Errorf("duplicate signup: got %v, want ErrDuplicateReferral", err)
	}

	if err := referrals.AccrueCommission(ctx, referred.ID, domain.TierPremiumMonthly); err != nil {
		t.Fatalf("accrue commission: %v", err)
	}
	// replaying the activation must not pay twice
	if err := referrals.AccrueCommission(ctx, referred.ID, domain.TierPremiumMonthly); err != nil {
		t.Fatalf("replay accrue: %v", err)
	}

	wallet, err := repository.NewWalletRepository(dbp).Get(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if wallet.AvailableCents != domain.CommissionMonthlyCents {
		t.Errorf("wallet available = %d, want %d", wallet.AvailableCents, domain.CommissionMonthlyCents)
	}
}

func TestLapsedPremiumEarnsBaseXPOnCompletion(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	u := createTestUser(t, dbp, "lapsed")
	users := repository.NewUserRepository(dbp)
	expired := time.Now().UTC().Add(-48 * time.Hour)
	u.SubscriptionTier = domain.TierPremiumMonthly
	u.SubscriptionExpiresAt = &expired
	if err := users.SaveSubscription(ctx, u); err != nil {
		t.Fatalf("save subscription: %v", err)
	}

	tasks := repository.NewTaskRepository(dbp)
	task := &domain.Task{UserID: u.ID, Title: "overdue report"}
	if err := tasks.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	svc := service.NewProgressionService(dbp, nil)
	result, err := svc.CompleteTask(ctx, u.ID, task.ID)
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	// the expired tier comes off before XP is granted, so no premium bonus
	if result.XPAwarded != int64(domain.TaskBaseXP) {
		t.Errorf("xp awarded = %d, want %d", result.XPAwarded, domain.TaskBaseXP)
	}

	fresh, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if fresh.SubscriptionTier != domain.TierFree {
		t.Errorf("tier = %s, want %s", fresh.SubscriptionTier, domain.TierFree)
	}
	if fresh.SubscriptionExpiresAt != nil {
		t.Errorf("expires_at = %v, want nil", fresh.SubscriptionExpiresAt)
	}
}

func TestConfirmPaymentStaysPendingWhenFulfillmentFails(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	u := createTestUser(t, dbp, "stranded")
	payments := repository.NewPaymentRepository(dbp)
	p := &domain.PaymentTransaction{
		UserID:      u.ID,
		Kind:        domain.PaymentItem,
		Reference:   "discontinued_item",
		AmountCents: 499,
		Currency:    "eur",
		SessionID:   fmt.Sprintf("cs_test_%d", time.Now().UnixNano()),
	}
	if err := payments.Create(ctx, p); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	provider := payment.NewClient("http://localhost:0", "test-key")
	referrals := service.NewReferralService(dbp, nil)
	billing := service.NewBillingService(dbp, provider, referrals, nil, "http://localhost")

	if _, err := billing.ConfirmPayment(ctx, p.SessionID); !errors.Is(err, service.ErrUnknownProduct) {
		t.Fatalf("confirm: got %v, want ErrUnknownProduct", err)
	}

	// the status flip rolls back with the failed fulfillment, so the
	// processor's retry still finds the row pending
	fresh, err := payments.GetBySessionID(ctx, p.SessionID)
	if err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if fresh.Status != domain.PaymentPending {
		t.Errorf("status = %s, want %s", fresh.Status, domain.PaymentPending)
	}
	if fresh.CompletedAt != nil {
		t.Errorf("completed_at = %v, want nil", fresh.CompletedAt)
	}
}

func TestConfirmPaymentActivatesSubscriptionAndPaysCommission(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	referrer := createTestUser(t, dbp, "sub-referrer")
	buyer := createTestUser(t, dbp, "sub-buyer")

	referrals := service.NewReferralService(dbp, nil)
	if _, err := referrals.RegisterSignup(ctx, buyer.ID, referrer.ReferralCode); err != nil {
		t.Fatalf("register signup: %v", err)
	}

	payments := repository.NewPaymentRepository(dbp)
	p := &domain.PaymentTransaction{
		UserID:      buyer.ID,
		Kind:        domain.PaymentSubscription,
		Reference:   "monthly_premium",
		AmountCents: 999,
		Currency:    "eur",
		SessionID:   fmt.Sprintf("cs_sub_%d", time.Now().UnixNano()),
	}
	if err := payments.Create(ctx, p); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	provider := payment.NewClient("http://localhost:0", "test-key")
	billing := service.NewBillingService(dbp, provider, referrals, nil, "http://localhost")

	confirmed, err := billing.ConfirmPayment(ctx, p.SessionID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != domain.PaymentCompleted {
		t.Errorf("status = %s, want %s", confirmed.Status, domain.PaymentCompleted)
	}

	fresh, err := repository.NewUserRepository(dbp).GetByID(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("reload buyer: %v", err)
	}
	if fresh.SubscriptionTier != domain.TierPremiumMonthly {
		t.Errorf("tier = %s, want %s", fresh.SubscriptionTier, domain.TierPremiumMonthly)
	}

	wallet, err := repository.NewWalletRepository(dbp).Get(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if wallet.AvailableCents != domain.CommissionMonthlyCents {
		t.Errorf("wallet available = %d, want %d", wallet.AvailableCents, domain.CommissionMonthlyCents)
	}

	// a replayed webhook finds the row terminal and changes nothing
	if _, err := billing.ConfirmPayment(ctx, p.SessionID); err != nil {
		t.Fatalf("replay confirm: %v", err)
	}
	wallet, err = repository.NewWalletRepository(dbp).Get(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("reload wallet: %v", err)
	}
	if wallet.AvailableCents != domain.CommissionMonthlyCents {
		t.Errorf("replay paid again: wallet = %d", wallet.AvailableCents)
	}
}

func TestCreateSurfacesDuplicateEmailImmediately(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	u := createTestUser(t, dbp, "dupemail")

	dup := &domain.User{Name: "copycat", Email: u.Email, Level: 1, SubscriptionTier: domain.TierFree}
	err := repository.NewUserRepository(dbp).Create(ctx, dup)
	if err == nil {
		t.Fatal("duplicate email insert succeeded")
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("got %T, want *pgconn.PgError", err)
	}
	if pgErr.Code != "23505" || pgErr.ConstraintName != "users_email_key" {
		t.Errorf("got code=%s constraint=%s, want 23505 on users_email_key", pgErr.Code, pgErr.ConstraintName)
	}
}

func TestDailyChallengesTrackTodaysActivity(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	u := createTestUser(t, dbp, "challenger")
	tasks := repository.NewTaskRepository(dbp)
	task := &domain.Task{UserID: u.ID, Title: "plan sprint"}
	if err := tasks.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := service.NewProgressionService(dbp, nil).CompleteTask(ctx, u.ID, task.ID); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	provider := payment.NewClient("http://localhost:0", "test-key")
	referrals := service.NewReferralService(dbp, nil)
	billing := service.NewBillingService(dbp, provider, referrals, nil, "http://localhost")
	users := service.NewUserService(dbp, billing, referrals)

	statuses, err := users.DailyChallenges(ctx, u.ID)
	if err != nil {
		t.Fatalf("daily challenges: %v", err)
	}
	byID := make(map[string]service.ChallengeStatus, len(statuses))
	for _, st := range statuses {
		byID[st.ID] = st
	}

	crusher, ok := byID["task_crusher"]
	if !ok {
		t.Fatal("task_crusher missing from rotation")
	}
	if crusher.CurrentProgress != 1 || crusher.Completed {
		t.Errorf("task_crusher = %d/%v, want 1 in progress", crusher.CurrentProgress, crusher.Completed)
	}
	if master := byID["focus_master"]; master.CurrentProgress != 0 {
		t.Errorf("focus_master progress = %d, want 0", master.CurrentProgress)
	}
}

func TestWithdrawalInsufficientBalanceLeavesWalletUntouched(t *testing.T) {
	dbp := connectTestDB(t)
	ctx := context.Background()

	u := createTestUser(t, dbp, "withdrawer")
	referrals := service.NewReferralService(dbp, nil)

	_, err := referrals.RequestWithdrawal(ctx, u.ID, 1000, "paypal")
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Fatalf("got %v, want ErrInsufficientBalance", err)
	}

	wallet, err := repository.NewWalletRepository(dbp).Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if wallet.AvailableCents != 0 || wallet.TotalEarnedCents != 0 {
		t.Errorf("wallet mutated: %+v", wallet)
	}
}
