package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const webhookSeenTTL = 24 * time.Hour

// WebhookIdempotency short-circuits duplicate webhook deliveries by event
// id using Redis SETNX. Duplicates get 200 so the processor stops
// retrying. Without Redis the middleware passes everything through; the
// payment layer's own pending-status guard still keeps fulfillment
// at-most-once.
func WebhookIdempotency() gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(data))

		var envelope struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil || envelope.ID == "" {
			// no usable event id, let the handler validate
			c.Next()
			return
		}

		ctx := context.Background()
		key := "webhook_seen:" + envelope.ID
		set, err := redisClient.SetNX(ctx, key, 1, webhookSeenTTL).Result()
		if err != nil {
			// fail-open on Redis errors
			c.Next()
			return
		}
		if !set {
			WebhookReplays.Inc()
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"status": "duplicate"})
			return
		}

		c.Next()

		// release the key when the handler failed so the processor's
		// retry is not short-circuited as a duplicate
		if c.Writer.Status() >= http.StatusInternalServerError {
			redisClient.Del(ctx, key)
		}
	}
}
