package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"focusflow/internal/config"
	"focusflow/internal/http/handlers"
	"focusflow/internal/http/middleware"
	"focusflow/internal/payment"
	"focusflow/internal/service"
	"focusflow/internal/ws"
)

// RegisterRoutes wires the full API surface and returns the billing
// service so main can run the expiry sweep.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) *service.BillingService {
	hub := ws.NewHub()
	provider := payment.NewClient(cfg.PaymentAPIBase, cfg.PaymentAPIKey)

	referrals := service.NewReferralService(db, hub)
	billing := service.NewBillingService(db, provider, referrals, hub, cfg.AppBaseURL)
	progression := service.NewProgressionService(db, hub)
	users := service.NewUserService(db, billing, referrals)

	h := handlers.NewHandler(db, users, progression, referrals, billing)
	healthHandler := handlers.NewHealthHandler(db, version)
	wsHandler := handlers.NewWSHandler(hub)

	middleware.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	r.GET("/health", healthHandler.Liveness)
	r.GET("/ready", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// public
	api.POST("/auth/register", h.Register)
	api.GET("/referrals/validate/:code", h.ValidateReferralCode)
	api.GET("/theme", h.GetTheme)
	api.GET("/challenges", h.ListChallenges)
	api.GET("/packages", h.ListPackages)
	api.GET("/products", h.ListProducts)
	api.POST("/payments/webhook",
		middleware.VerifyWebhookSignature(cfg.PaymentWebhookSecret),
		middleware.WebhookIdempotency(),
		h.PaymentWebhook)
	api.GET("/ws", wsHandler.Connect)

	// authenticated
	auth := api.Group("")
	auth.Use(middleware.JWTAuth())
	{
		auth.GET("/me", h.Me)
		auth.GET("/dashboard", h.Dashboard)
		auth.GET("/events", h.ListEvents)
		auth.GET("/features", h.GetFeatures)

		auth.POST("/tasks", h.CreateTask)
		auth.GET("/tasks", h.ListTasks)
		auth.POST("/tasks/:id/complete", h.CompleteTask)
		auth.PUT("/tasks/:id", h.UpdateTask)
		auth.DELETE("/tasks/:id", h.DeleteTask)

		auth.POST("/sessions", h.StartSession)
		auth.GET("/sessions", h.ListSessions)
		auth.POST("/sessions/:id/complete", h.CompleteSession)

		auth.GET("/achievements", h.ListAchievements)
		auth.GET("/badges", h.ListBadges)
		auth.GET("/daily-challenges", h.GetDailyChallenges)

		auth.POST("/subscriptions", h.Subscribe)
		auth.GET("/payments", h.ListPayments)
		auth.GET("/payments/:session_id", h.PaymentStatus)

		auth.POST("/shop/purchase", h.PurchaseItem)
		auth.GET("/shop/inventory", h.GetInventory)

		auth.GET("/referrals/stats", h.ReferralStats)
		auth.POST("/referrals/withdrawals", h.RequestWithdrawal)
		auth.GET("/referrals/withdrawals", h.ListWithdrawals)
	}

	return billing
}
