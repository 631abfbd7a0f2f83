package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	clientIDKey contextKey = "clientID"
	loggerKey   contextKey = "logger"
)

// GetUserIDFromContext extracts the authenticated user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetClientIDFromContext extracts the sync client ID the caller identified with,
// if the X-Client-ID header was present.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(clientIDKey).(string)
	return clientID, ok && clientID != ""
}

// GetUserIDFromGin is a convenience for handlers that only have a *gin.Context.
func GetUserIDFromGin(c *gin.Context) (string, bool) {
	return GetUserIDFromContext(c.Request.Context())
}
