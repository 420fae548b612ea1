package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"focusflow/internal/config"
	"focusflow/internal/db"
	httpServer "focusflow/internal/http"
	"focusflow/internal/logger"
	"focusflow/internal/service"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	dbPool, err := db.Connect(context.Background(), cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		logger.Fatal("database connect failed", "error", err)
	}
	defer dbPool.Close()
	logger.Info("database connected", "max_conns", cfg.DatabaseMaxConns)

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	billing := httpServer.RegisterRoutes(r, dbPool, cfg, version)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runExpirySweep(sweepCtx, billing, cfg.ExpirySweepInterval)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// runExpirySweep periodically downgrades users whose subscription lapsed.
// Reads also downgrade lazily; the sweep keeps the stored state from
// drifting for users who never come back.
func runExpirySweep(ctx context.Context, billing *service.BillingService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := billing.SweepExpired(ctx); err != nil {
				logger.Error("expiry sweep failed", "error", err)
			}
		}
	}
}
