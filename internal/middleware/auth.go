package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tallyspace/tallyspace/internal/utils"
)

// AuthMiddleware validates the Bearer token and stores the authenticated user
// ID (and optional sync client ID) on the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		userID, err := utils.ParseAndValidateJWT(parts[1], jwtSecret)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("token validation failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		if clientID := c.GetHeader("X-Client-ID"); clientID != "" {
			ctx = context.WithValue(ctx, clientIDKey, clientID)
		}
		ctx = context.WithValue(ctx, loggerKey,
			GetLoggerFromCtx(ctx).With(slog.String("userID", userID)))

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
