package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zuqon/content-backend/internal/common"
)

// WebhookAuth authenticates automation result callbacks with a shared
// secret. Checks X-Webhook-Secret header or webhook_secret query
// parameter.
func WebhookAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "webhook secret not configured", nil)
			c.Abort()
			return
		}

		provided := c.GetHeader("X-Webhook-Secret")
		if provided == "" {
			provided = c.Query("webhook_secret")
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid webhook secret", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
