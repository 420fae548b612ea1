package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// VerifyWebhookSignature checks the HMAC-SHA256 hex signature the
// processor puts in X-Webhook-Signature against the raw body. An empty
// secret disables verification (local development).
func VerifyWebhookSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(data))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(data)
		expected := hex.EncodeToString(mac.Sum(nil))

		got := c.GetHeader("X-Webhook-Signature")
		if got == "" || !hmac.Equal([]byte(expected), []byte(got)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		c.Next()
	}
}
