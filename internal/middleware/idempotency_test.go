package middleware

import (
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotentApp(t *testing.T) (*fiber.App, *miniredis.Miniredis, *int32) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	var calls int32
	app := fiber.New()
	app.Use(IdempotencyMiddleware(client, time.Minute))
	app.Post("/programs", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": n})
	})
	app.Post("/fail", func(c *fiber.Ctx) error {
		atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "nope"})
	})
	app.Get("/programs", func(c *fiber.Ctx) error {
		atomic.AddInt32(&calls, 1)
		return c.SendString("list")
	})
	return app, mr, &calls
}

func send(t *testing.T, app *fiber.App, method, path, correlationID string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if correlationID != "" {
		req.Header.Set(CorrelationIDHeader, correlationID)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header.Get(ReplayHeader)
}

func TestIdempotencyMiddleware_Replay(t *testing.T) {
	app, mr, calls := newIdempotentApp(t)

	status, body, replay := send(t, app, "POST", "/programs", "req-1")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `{"call":1}`, body)
	assert.Empty(t, replay)

	require.Eventually(t, func() bool {
		return mr.Exists("idempotency::req-1")
	}, time.Second, 10*time.Millisecond)

	status, body, replay = send(t, app, "POST", "/programs", "req-1")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `{"call":1}`, body)
	assert.Equal(t, "true", replay)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))

	status, body, _ = send(t, app, "POST", "/programs", "req-2")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `{"call":2}`, body)
}

func TestIdempotencyMiddleware_Passthrough(t *testing.T) {
	app, mr, calls := newIdempotentApp(t)

	send(t, app, "POST", "/programs", "")
	send(t, app, "POST", "/programs", "")
	assert.EqualValues(t, 2, atomic.LoadInt32(calls), "no correlation id, no replay")

	send(t, app, "GET", "/programs", "req-get")
	send(t, app, "GET", "/programs", "req-get")
	assert.EqualValues(t, 4, atomic.LoadInt32(calls), "reads are never replayed")

	send(t, app, "POST", "/fail", "req-fail")
	time.Sleep(50 * time.Millisecond)
	assert.False(t, mr.Exists("idempotency::req-fail"), "failures are not stored")
	send(t, app, "POST", "/fail", "req-fail")
	assert.EqualValues(t, 6, atomic.LoadInt32(calls))
}

func TestIdempotencyMiddleware_Expiry(t *testing.T) {
	app, mr, calls := newIdempotentApp(t)

	send(t, app, "POST", "/programs", "req-ttl")
	require.Eventually(t, func() bool {
		return mr.Exists("idempotency::req-ttl")
	}, time.Second, 10*time.Millisecond)

	mr.FastForward(2 * time.Minute)
	_, body, replay := send(t, app, "POST", "/programs", "req-ttl")
	assert.Empty(t, replay)
	assert.JSONEq(t, `{"call":2}`, body)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}
