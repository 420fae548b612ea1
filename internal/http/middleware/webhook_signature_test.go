package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func signedRequest(secret, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	req.Header.Set("X-Webhook-Signature", hex.EncodeToString(mac.Sum(nil)))
	return req
}

func webhookRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", VerifyWebhookSignature(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestWebhookSignatureValid(t *testing.T) {
	r := webhookRouter("whsec_test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("whsec_test", `{"id":"evt_1"}`))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookSignatureInvalid(t *testing.T) {
	r := webhookRouter("whsec_test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("wrong_secret", `{"id":"evt_1"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookSignatureMissing(t *testing.T) {
	r := webhookRouter("whsec_test")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookSignatureDisabledWithoutSecret(t *testing.T) {
	r := webhookRouter("")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
