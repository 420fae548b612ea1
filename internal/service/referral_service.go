package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"focusflow/internal/domain"
	"focusflow/internal/repository"
	"focusflow/internal/ws"
)

// ReferralService owns the referral graph and the commission ledger:
// edge creation on signup, commission accrual when the referred user
// subscribes, and wallet withdrawals.
type ReferralService struct {
	db        *pgxpool.Pool
	users     *repository.UserRepository
	referrals *repository.ReferralRepository
	wallets   *repository.WalletRepository
	events    *repository.EventRepository
	hub       *ws.Hub
}

func NewReferralService(db *pgxpool.Pool, hub *ws.Hub) *ReferralService {
	return &ReferralService{
		db:        db,
		users:     repository.NewUserRepository(db),
		referrals: repository.NewReferralRepository(db),
		wallets:   repository.NewWalletRepository(db),
		events:    repository.NewEventRepository(db),
		hub:       hub,
	}
}

// ValidateCode resolves a referral code to the owning user.
func (s *ReferralService) ValidateCode(ctx context.Context, code string) (*domain.User, error) {
	referrer, err := s.users.GetByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidReferralCode
		}
		return nil, err
	}
	return referrer, nil
}

// RegisterSignup links a newly created user to the owner of the referral
// code. A user can have at most one referrer, recorded exactly once; the
// edge starts with a pending commission that accrues only if the referred
// user later subscribes.
func (s *ReferralService) RegisterSignup(ctx context.Context, newUserID int64, code string) (*domain.Referral, error) {
	referrer, err := s.ValidateCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if referrer.ID == newUserID {
		return nil, ErrSelfReferral
	}

	edge := &domain.Referral{ReferrerID: referrer.ID, ReferredID: newUserID}
	created, err := s.referrals.Create(ctx, edge)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrDuplicateReferral
	}

	// the referrer's counter feeds the social reward predicates
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	locked, err := s.users.GetForUpdate(ctx, tx, referrer.ID)
	if err != nil {
		return nil, err
	}
	before := *locked
	locked.TotalReferrals++
	unlocked := applyUnlocks(&before, locked)
	if err := s.users.SaveProgress(ctx, tx, locked); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, referrer.ID, domain.EventReferralSignup, map[string]interface{}{
		"referred_id": newUserID,
	})
	notifyProgress(s.hub, referrer.ID, before.Level, locked, unlocked)
	EventsProcessed.WithLabelValues(domain.EventReferralSignup).Inc()

	return edge, nil
}

// commissionResult carries a paid accrual out of its transaction so the
// caller can emit events and notifications after commit. nil means no
// commission was due or it had already accrued.
type commissionResult struct {
	referrerID  int64
	referredID  int64
	amountCents int64
	tier        domain.Tier
}

// AccrueCommission pays the referrer of the given user after that user
// activates a paid subscription. The pending-status guard on the edge
// makes accrual at-most-once no matter how many times the subscription
// event fires; renewals and upgrades never pay again.
func (s *ReferralService) AccrueCommission(ctx context.Context, referredID int64, tier domain.Tier) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	comm, err := s.accrueLocked(ctx, tx, referredID, tier)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.emitCommission(ctx, comm)
	return nil
}

// accrueLocked marks the edge earned and credits the wallet inside the
// caller's transaction, so billing can bundle the accrual with payment
// resolution.
func (s *ReferralService) accrueLocked(ctx context.Context, tx pgx.Tx, referredID int64, tier domain.Tier) (*commissionResult, error) {
	amount := domain.CommissionForTier(tier)
	if amount == 0 {
		return nil, nil
	}

	edge, err := s.referrals.GetByReferred(ctx, referredID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // user was not referred
		}
		return nil, err
	}

	earned, err := s.referrals.MarkEarned(ctx, tx, edge.ID, amount, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !earned {
		return nil, nil // commission already accrued
	}
	if _, err := s.wallets.Credit(ctx, tx, edge.ReferrerID, amount); err != nil {
		return nil, err
	}
	return &commissionResult{
		referrerID:  edge.ReferrerID,
		referredID:  referredID,
		amountCents: amount,
		tier:        tier,
	}, nil
}

func (s *ReferralService) emitCommission(ctx context.Context, comm *commissionResult) {
	if comm == nil {
		return
	}
	s.recordEvent(ctx, comm.referrerID, domain.EventCommissionEarned, map[string]interface{}{
		"referred_id":  comm.referredID,
		"amount_cents": comm.amountCents,
		"tier":         string(comm.tier),
	})
	if s.hub != nil {
		s.hub.Notify(comm.referrerID, ws.Notification{
			Type: ws.TypeCommission,
			Payload: map[string]interface{}{
				"amount_cents": comm.amountCents,
				"amount":       domain.FormatEuros(comm.amountCents),
			},
		})
	}
	CommissionsEarned.Add(float64(comm.amountCents))
	EventsProcessed.WithLabelValues(domain.EventCommissionEarned).Inc()
}

// ReferralStats is the referrer-facing dashboard block.
type ReferralStats struct {
	ReferralCode       string            `json:"referral_code"`
	TotalReferrals     int               `json:"total_referrals"`
	PendingCommissions int               `json:"pending_commissions"`
	EarnedCommissions  int               `json:"earned_commissions"`
	Wallet             *domain.Wallet    `json:"wallet"`
	Referrals          []domain.Referral `json:"referrals"`
}

// Stats returns the user's referral overview including the wallet.
func (s *ReferralService) Stats(ctx context.Context, userID int64) (*ReferralStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	edges, err := s.referrals.ListByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}
	wallet, err := s.wallets.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &ReferralStats{
		ReferralCode:   user.ReferralCode,
		TotalReferrals: user.TotalReferrals,
		Wallet:         wallet,
		Referrals:      edges,
	}
	for _, e := range edges {
		switch e.CommissionStatus {
		case domain.CommissionPending:
			stats.PendingCommissions++
		default:
			stats.EarnedCommissions++
		}
	}
	return stats, nil
}

// RequestWithdrawal debits the wallet and records a pending payout. On
// insufficient balance the wallet is left untouched and the error names
// the available amount.
func (s *ReferralService) RequestWithdrawal(ctx context.Context, userID, amountCents int64, method string) (*domain.Withdrawal, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, wd, ok, err := s.wallets.Withdraw(ctx, userID, amountCents, method)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s available", ErrInsufficientBalance, domain.FormatEuros(wallet.AvailableCents))
	}

	s.recordEvent(ctx, userID, domain.EventWithdrawalRequested, map[string]interface{}{
		"amount_cents": amountCents,
		"method":       method,
	})
	EventsProcessed.WithLabelValues(domain.EventWithdrawalRequested).Inc()
	return wd, nil
}

// Withdrawals lists the user's payout history, newest first.
func (s *ReferralService) Withdrawals(ctx context.Context, userID int64) ([]domain.Withdrawal, error) {
	return s.wallets.ListWithdrawals(ctx, userID)
}

func (s *ReferralService) recordEvent(ctx context.Context, userID int64, action string, details map[string]interface{}) {
	recordEvent(ctx, s.events, userID, action, details)
}
