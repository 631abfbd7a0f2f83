package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit builds an in-memory IP rate limiter, e.g. RateLimit(60, time.Minute).
func RateLimit(limit int64, period time.Duration) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}
	store := memory.NewStore()
	instance := limiter.New(store, rate)
	slog.Info("rate limiter initialized",
		slog.Int64("limit", limit),
		slog.Duration("period", period),
	)
	return mgin.NewMiddleware(instance)
}
