package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"
	ReplayHeader        = "X-Idempotent-Replay"
)

// IdempotencyMiddleware replays the stored response of a mutating request when the same
// X-Correlation-ID is seen again within the TTL. Keys are scoped per user.
func IdempotencyMiddleware(redisClient *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		default:
			return c.Next()
		}

		correlationID := c.Get(CorrelationIDHeader)
		if correlationID == "" {
			return c.Next()
		}

		key := fmt.Sprintf("idempotency:%s:%s", UserID(c), correlationID)
		ctx := c.UserContext()

		cached, err := redisClient.HGetAll(ctx, key).Result()
		if err == nil && cached["body"] != "" {
			c.Set(ReplayHeader, "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			status, convErr := strconv.Atoi(cached["status"])
			if convErr != nil {
				status = fiber.StatusOK
			}
			return c.Status(status).SendString(cached["body"])
		}
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("idempotency lookup failed")
		}

		if err := c.Next(); err != nil {
			return err
		}

		statusCode := c.Response().StatusCode()
		if statusCode < 200 || statusCode >= 300 {
			return nil
		}
		// fasthttp reuses the response buffer after the handler returns
		body := string(c.Response().Body())
		if body == "" {
			return nil
		}

		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			pipe := redisClient.TxPipeline()
			pipe.HSet(bgCtx, key, "status", statusCode, "body", body)
			pipe.Expire(bgCtx, key, ttl)
			if _, err := pipe.Exec(bgCtx); err != nil {
				log.WithError(err).WithField("key", key).Warn("failed to store idempotent response")
			}
		}()

		return nil
	}
}
