package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vuongle/taxmate/internal/auth"
	"github.com/vuongle/taxmate/internal/domain/entity"
	"go.uber.org/zap"
)

const accountKey = "account"

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// CORSMiddleware adds CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// AuthMiddleware resolves the bearer token and stores the account on the
// request context. Requests without a valid session are rejected.
func AuthMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		account, err := authService.Authenticate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại"})
			return
		}

		c.Set(accountKey, account)
		c.Next()
	}
}

// RequireRole rejects requests from accounts outside the given role.
func RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentAccount(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "bạn không có quyền truy cập chức năng này"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// currentAccount is only valid behind AuthMiddleware.
func currentAccount(c *gin.Context) *entity.UserAccount {
	return c.MustGet(accountKey).(*entity.UserAccount)
}
