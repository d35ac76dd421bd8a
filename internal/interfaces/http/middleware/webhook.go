package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reviewhub/backend/internal/infrastructure/shopify"
	"github.com/reviewhub/backend/internal/interfaces/http/dto"
)

// WebhookBodyKey is the context key holding the verified raw webhook body
const WebhookBodyKey = "webhook_body"

// WebhookHMAC verifies the X-Shopify-Hmac-Sha256 signature of the raw
// request body against the app secret and stashes the body for the
// handler. Unverifiable deliveries are rejected with 401.
func WebhookHMAC(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest, "Could not read request body"))
			return
		}

		signature := c.GetHeader("X-Shopify-Hmac-Sha256")
		if !shopify.VerifyWebhookHMAC(secret, body, signature) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeWebhookSignature, "Webhook signature verification failed"))
			return
		}

		c.Set(WebhookBodyKey, body)
		c.Next()
	}
}

// GetWebhookBody returns the verified raw body set by WebhookHMAC
func GetWebhookBody(c *gin.Context) []byte {
	if v, ok := c.Get(WebhookBodyKey); ok {
		if body, ok := v.([]byte); ok {
			return body
		}
	}
	return nil
}
