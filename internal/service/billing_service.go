package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"focusflow/internal/catalog"
	"focusflow/internal/domain"
	"focusflow/internal/logger"
	"focusflow/internal/payment"
	"focusflow/internal/progression"
	"focusflow/internal/repository"
	"focusflow/internal/subscription"
	"focusflow/internal/ws"
)

// BillingService owns the money-facing flows: subscription and shop
// checkouts, payment resolution from webhooks or polling, fulfillment,
// and the subscription lifecycle.
type BillingService struct {
	db          *pgxpool.Pool
	provider    payment.Provider
	users       *repository.UserRepository
	inventories *repository.InventoryRepository
	payments    *repository.PaymentRepository
	events      *repository.EventRepository
	referrals   *ReferralService
	hub         *ws.Hub

	successURL string
	cancelURL  string
}

func NewBillingService(db *pgxpool.Pool, provider payment.Provider, referrals *ReferralService, hub *ws.Hub, baseURL string) *BillingService {
	return &BillingService{
		db:          db,
		provider:    provider,
		users:       repository.NewUserRepository(db),
		inventories: repository.NewInventoryRepository(db),
		payments:    repository.NewPaymentRepository(db),
		events:      repository.NewEventRepository(db),
		referrals:   referrals,
		hub:         hub,
		successURL:  baseURL + "/payment/success",
		cancelURL:   baseURL + "/payment/cancel",
	}
}

// Checkout is the client-facing result of opening a payment session.
type Checkout struct {
	SessionID   string `json:"session_id"`
	URL         string `json:"url"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// CreateSubscriptionCheckout opens a processor session for a premium
// package and records the pending transaction.
func (s *BillingService) CreateSubscriptionCheckout(ctx context.Context, userID int64, packageID string) (*Checkout, error) {
	pkg, ok := catalog.PackageByID(packageID)
	if !ok {
		return nil, ErrUnknownPackage
	}
	return s.createCheckout(ctx, userID, domain.PaymentSubscription, pkg.ID, pkg.Name, pkg.AmountCents, pkg.Currency)
}

// CreateItemCheckout opens a processor session for a shop item.
func (s *BillingService) CreateItemCheckout(ctx context.Context, userID int64, productID string) (*Checkout, error) {
	product, ok := catalog.ProductByID(productID)
	if !ok {
		return nil, ErrUnknownProduct
	}
	return s.createCheckout(ctx, userID, domain.PaymentItem, product.ID, product.Name, product.PriceCents, product.Currency)
}

func (s *BillingService) createCheckout(ctx context.Context, userID int64, kind domain.PaymentKind, reference, name string, amountCents int64, currency string) (*Checkout, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		AmountCents: amountCents,
		Currency:    currency,
		ProductName: name,
		SuccessURL:  s.successURL,
		CancelURL:   s.cancelURL,
		Metadata: map[string]string{
			"user_id":   strconv.FormatInt(userID, 10),
			"kind":      string(kind),
			"reference": reference,
		},
	})
	if err != nil {
		return nil, err
	}

	err = s.payments.Create(ctx, &domain.PaymentTransaction{
		UserID:      userID,
		Kind:        kind,
		Reference:   reference,
		AmountCents: amountCents,
		Currency:    currency,
		Status:      domain.PaymentPending,
		SessionID:   session.ID,
	})
	if err != nil {
		return nil, err
	}

	return &Checkout{
		SessionID:   session.ID,
		URL:         session.URL,
		AmountCents: amountCents,
		Currency:    currency,
	}, nil
}

// ConfirmPayment resolves a session to completed and fulfills it in one
// transaction. The pending-status guard on the locked row makes this
// idempotent: duplicate webhook deliveries and a poll racing a webhook
// fulfill at most once. A failed fulfillment rolls the status flip back
// too, so the processor's retry finds the row still pending and can
// fulfill it.
func (s *BillingService) ConfirmPayment(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	now := time.Now().UTC()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := s.payments.GetBySessionIDForUpdate(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.Status != domain.PaymentPending {
		return p, nil // already terminal, nothing to fulfill
	}

	if _, err := s.payments.Resolve(ctx, tx, sessionID, domain.PaymentCompleted, now); err != nil {
		return nil, err
	}

	var (
		fx   *grantResult
		comm *commissionResult
	)
	switch p.Kind {
	case domain.PaymentSubscription:
		pkg, ok := catalog.PackageByID(p.Reference)
		if !ok {
			return nil, ErrUnknownPackage
		}
		if fx, err = s.activateLocked(ctx, tx, p.UserID, pkg.Tier, now); err != nil {
			return nil, err
		}
		if comm, err = s.referrals.accrueLocked(ctx, tx, p.UserID, pkg.Tier); err != nil {
			return nil, err
		}
	case domain.PaymentItem:
		if fx, err = s.fulfillLocked(ctx, tx, p.UserID, p.Reference, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	p.Status = domain.PaymentCompleted
	p.CompletedAt = &now

	PaymentsResolved.WithLabelValues(string(domain.PaymentCompleted)).Inc()
	s.emitGrant(ctx, p.UserID, fx)
	s.referrals.emitCommission(ctx, comm)

	recordEvent(ctx, s.events, p.UserID, domain.EventPurchaseConfirmed, map[string]interface{}{
		"session_id":   sessionID,
		"kind":         string(p.Kind),
		"reference":    p.Reference,
		"amount_cents": p.AmountCents,
	})
	EventsProcessed.WithLabelValues(domain.EventPurchaseConfirmed).Inc()
	return p, nil
}

// FailPayment resolves a session to a terminal failure status. Already
// resolved sessions are left untouched.
func (s *BillingService) FailPayment(ctx context.Context, sessionID string, status domain.PaymentStatus) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	resolved, err := s.payments.Resolve(ctx, tx, sessionID, status, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	if resolved {
		PaymentsResolved.WithLabelValues(string(status)).Inc()
	}
	return nil
}

// PollPayment lets a client chase a session the webhook has not resolved
// yet. A paid session confirms inline; an expired one is closed out.
func (s *BillingService) PollPayment(ctx context.Context, userID int64, sessionID string) (*domain.PaymentTransaction, error) {
	p, err := s.payments.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	if p.Status != domain.PaymentPending {
		return p, nil
	}

	session, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	switch {
	case session.Paid():
		return s.ConfirmPayment(ctx, sessionID)
	case session.Status == "expired":
		if err := s.FailPayment(ctx, sessionID, domain.PaymentExpired); err != nil {
			return nil, err
		}
		return s.payments.GetBySessionID(ctx, sessionID)
	default:
		return p, nil
	}
}

// Payments lists the user's transaction history, newest first.
func (s *BillingService) Payments(ctx context.Context, userID int64, limit int) ([]domain.PaymentTransaction, error) {
	return s.payments.ListByUser(ctx, userID, limit)
}

// grantResult carries the state a locked grant changed out of its
// transaction, so events and notifications go out only after commit.
type grantResult struct {
	user      *domain.User
	prevLevel int
	prevTier  domain.Tier
	expired   bool
	unlocked  []domain.RewardDefinition
	tier      domain.Tier // set when the grant activated a subscription
}

// activateLocked moves the user onto the tier and stamps a fresh expiry
// from the purchase moment, inside the caller's transaction.
// Re-activation overwrites the expiry rather than extending it.
func (s *BillingService) activateLocked(ctx context.Context, tx pgx.Tx, userID int64, tier domain.Tier, purchasedAt time.Time) (*grantResult, error) {
	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	// drop a stale tier first so the unlock pass sees the real before state
	subscription.CheckExpiry(user, purchasedAt)
	before := *user

	subscription.Activate(user, tier, purchasedAt)
	unlocked := applyUnlocks(&before, user)

	if err := s.users.SaveProgress(ctx, tx, user); err != nil {
		return nil, err
	}
	return &grantResult{user: user, prevLevel: before.Level, unlocked: unlocked, tier: tier}, nil
}

// emitGrant sends the events and notifications for a committed grant.
func (s *BillingService) emitGrant(ctx context.Context, userID int64, fx *grantResult) {
	if fx == nil {
		return
	}
	if fx.expired {
		recordEvent(ctx, s.events, userID, domain.EventSubscriptionExpired, map[string]interface{}{
			"previous_tier": string(fx.prevTier),
		})
		EventsProcessed.WithLabelValues(domain.EventSubscriptionExpired).Inc()
	}
	if fx.tier != "" {
		recordEvent(ctx, s.events, userID, domain.EventSubscriptionActivated, map[string]interface{}{
			"tier":       string(fx.tier),
			"expires_at": fx.user.SubscriptionExpiresAt,
		})
		if s.hub != nil {
			s.hub.Notify(userID, ws.Notification{
				Type:    ws.TypeSubscription,
				Payload: map[string]interface{}{"tier": string(fx.tier), "expires_at": fx.user.SubscriptionExpiresAt},
			})
		}
		EventsProcessed.WithLabelValues(domain.EventSubscriptionActivated).Inc()
	}
	notifyProgress(s.hub, userID, fx.prevLevel, fx.user, fx.unlocked)
}

// EnsureFresh downgrades the user in place if their subscription lapsed,
// persisting the change. Read paths call this so an expired premium never
// reports premium features even between sweep runs.
func (s *BillingService) EnsureFresh(ctx context.Context, u *domain.User) error {
	if !subscription.CheckExpiry(u, time.Now().UTC()) {
		return nil
	}
	if err := s.users.SaveSubscription(ctx, u); err != nil {
		return err
	}
	recordEvent(ctx, s.events, u.ID, domain.EventSubscriptionExpired, nil)
	EventsProcessed.WithLabelValues(domain.EventSubscriptionExpired).Inc()
	return nil
}

// SweepExpired downgrades every user whose subscription lapsed. Run
// periodically from main.
func (s *BillingService) SweepExpired(ctx context.Context) (int, error) {
	ids, err := s.users.ListExpired(ctx)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, id := range ids {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			logger.Warn("expiry sweep: load user failed", "user_id", id, "error", err)
			continue
		}
		if err := s.EnsureFresh(ctx, u); err != nil {
			logger.Warn("expiry sweep: downgrade failed", "user_id", id, "error", err)
			continue
		}
		swept++
	}
	if swept > 0 {
		logger.Info("expiry sweep finished", "downgraded", swept)
	}
	return swept, nil
}

// fulfillLocked applies a purchased shop item to the user and their
// inventory inside the caller's transaction. Cosmetic re-purchases are
// no-ops for the owned sets but still count toward the purchase
// milestones.
func (s *BillingService) fulfillLocked(ctx context.Context, tx pgx.Tx, userID int64, productID string, at time.Time) (*grantResult, error) {
	product, ok := catalog.ProductByID(productID)
	if !ok {
		return nil, ErrUnknownProduct
	}

	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	// a lapsed tier comes off before the unlock pass reads it
	prevTier := user.SubscriptionTier
	expired := subscription.CheckExpiry(user, at)
	before := *user

	inv, err := s.inventories.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	switch product.Category {
	case catalog.ProductProgression:
		if product.BonusXP > 0 {
			// purchased XP is flat, no premium bonus and no booster
			user.TotalXP += int64(product.BonusXP)
			user.Level = progression.LevelFromXP(user.TotalXP)
		}
		if product.BoostMultiplier > 1 {
			expires := at.Add(product.BoostDuration)
			inv.XPBoostMultiplier = product.BoostMultiplier
			inv.XPBoostExpiresAt = &expires
		}
	case catalog.ProductProtection:
		inv.StreakProtectionTokens++
	case catalog.ProductCustomization:
		if product.ThemeID != "" && !inv.OwnsTheme(product.ThemeID) {
			inv.OwnedThemes = append(inv.OwnedThemes, product.ThemeID)
		}
		if product.SoundPackID != "" && !inv.OwnsSoundPack(product.SoundPackID) {
			inv.OwnedSoundPacks = append(inv.OwnedSoundPacks, product.SoundPackID)
		}
	case catalog.ProductAchievement:
		user.AchievementAccelerator = true
	}

	user.ItemsPurchased++
	unlocked := applyUnlocks(&before, user)

	if err := s.inventories.Save(ctx, tx, inv); err != nil {
		return nil, err
	}
	if err := s.users.SaveProgress(ctx, tx, user); err != nil {
		return nil, err
	}

	return &grantResult{
		user:      user,
		prevLevel: before.Level,
		prevTier:  prevTier,
		expired:   expired,
		unlocked:  unlocked,
	}, nil
}

// Inventory returns the user's owned items.
func (s *BillingService) Inventory(ctx context.Context, userID int64) (*domain.Inventory, error) {
	return s.inventories.Get(ctx, userID)
}
