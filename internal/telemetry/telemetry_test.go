package telemetry

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/flexpro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestFromConfig(t *testing.T) {
	cfg := config.OTELConfig{
		Enabled:        true,
		Endpoint:       "otlp.example.com",
		ServiceName:    "flexpro-api",
		InstanceID:     "123",
		Token:          "secret",
		URLPath:        "/otlp",
		SampleRatio:    0.5,
		MetricInterval: 10 * time.Second,
	}

	out := FromConfig(cfg)
	assert.Equal(t, "Basic MTIzOnNlY3JldA==", out.Headers["Authorization"])
	assert.Equal(t, "/otlp/v1/traces", out.signalPath("traces"))
	assert.Equal(t, 10*time.Second, out.MetricInterval)
	assert.Contains(t, out.sampler().Description(), "TraceIDRatioBased")

	cfg.Token = ""
	cfg.URLPath = ""
	cfg.SampleRatio = 1
	out = FromConfig(cfg)
	assert.Nil(t, out.Headers)
	assert.Equal(t, "/v1/metrics", out.signalPath("metrics"))
	assert.Equal(t, "AlwaysOnSampler", out.sampler().Description())
}

func TestInitialize_Disabled(t *testing.T) {
	p, err := Initialize(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewResource(t *testing.T) {
	res, err := newResource(context.Background(), Config{ServiceName: "flexpro-api", ServiceVersion: "1.2.3", Environment: "test"})
	require.NoError(t, err)

	attrs := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, "flexpro-api", attrs["service.name"])
	assert.Equal(t, serviceNamespace, attrs["service.namespace"])
	_, hasInstance := attrs["service.instance.id"]
	assert.False(t, hasInstance)
}

func TestFiberMiddleware_RecordsSpansAndMetrics(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithView(requestDurationView()))

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	app := fiber.New()
	app.Use(FiberMiddleware())
	app.Get("/v1/programs/:id", func(c *fiber.Ctx) error {
		SetSpanAttribute(c, "program.id", c.Params("id"))
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/programs/p1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "GET /v1/programs/:id", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("program.id", "p1"))
	assert.Contains(t, ended[0].Attributes(), attribute.String("http.route", "/v1/programs/:id"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	found := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = m.Data
		}
	}

	count, ok := found[requestCountMetric].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, count.DataPoints, 1)
	assert.Equal(t, int64(1), count.DataPoints[0].Value)

	hist, ok := found[requestDurationMetric].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, requestDurationBuckets, hist.DataPoints[0].Bounds)
}
