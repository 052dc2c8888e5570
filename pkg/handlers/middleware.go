package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tablecraft/staffing-api-go/pkg/auth"
	"github.com/tablecraft/staffing-api-go/pkg/database"
)

// RequestLogger tags every request with a uuid and logs it through zap.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key and resolves the tenant it
// belongs to. Every downstream query is scoped to that tenant.
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		if _, err := auth.VerifyTenantKey(key); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		// A valid signature is not enough: the key record must still exist.
		// Revocation deletes the row.
		var apiKey database.APIKey
		if err := h.DB.Where("key = ?", key).First(&apiKey).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown or revoked API Key"})
			c.Abort()
			return
		}

		var tenant database.Tenant
		if err := h.DB.First(&tenant, apiKey.TenantID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown tenant"})
			c.Abort()
			return
		}

		now := time.Now()
		h.DB.Model(&apiKey).Update("last_used", now)

		c.Set("tenant", &tenant)
		c.Set("apiKey", &apiKey)
		c.Next()
	}
}

// tenant returns the tenant resolved by APIKeyMiddleware.
func tenant(c *gin.Context) *database.Tenant {
	v, _ := c.Get("tenant")
	t, _ := v.(*database.Tenant)
	return t
}
