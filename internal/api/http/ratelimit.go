package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-issue-service/internal/auth"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

const reportLimitKeyPrefix = "issue_report_limit"

// ReportRateLimiter caps issue submissions per caller per day using a redis
// INCR+EXPIRE counter. Anonymous callers are keyed by client IP. A missing or
// unreachable redis fails open: the platform prefers accepting reports over
// enforcing the quota.
func ReportRateLimiter(client *redis.Client, limit int, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil || limit <= 0 {
			return c.Next()
		}

		key := reportLimitKeyPrefix + ":ip:" + c.IP()
		if principal, ok := auth.PrincipalFromContext(c); ok && principal.CitizenID != nil {
			key = reportLimitKeyPrefix + ":citizen:" + *principal.CitizenID
		}

		ctx := c.UserContext()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := client.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
				logger.Warn("rate limiter expire failed", zap.Error(err))
			}
		}
		if count > int64(limit) {
			retryAfter, _ := client.TTL(ctx, key).Result()
			return apperrors.NewTooManyRequests("daily report limit reached",
				map[string]any{"retry_after_seconds": int(retryAfter.Seconds())})
		}
		return c.Next()
	}
}
