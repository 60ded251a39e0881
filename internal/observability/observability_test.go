package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gupta1123/fieldsales-teams/internal/config"
)

func TestRequestLoggerAssignsIDAndCounts(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/teams", func(c *fiber.Ctx) error {
		assert.NotEmpty(t, RequestID(c))
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teams", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Requests["/teams|GET|204"])
	assert.Equal(t, int64(1), snap.Requests["/boom|GET|418"])
	assert.Equal(t, 2, logs.FilterMessage("request").Len())
}

func TestMetricsAreNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordUpstream("get_cities", 200, time.Millisecond)
	m.RecordDropped(3)
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())

	m = NewMetrics()
	m.RecordDropped(2)
	m.RecordDropped(-1)
	m.RecordUpstream("get_cities", 0, 5*time.Millisecond)
	m.RecordError("/teams", "GET", "FORBIDDEN")
	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.DroppedHierarchy)
	assert.Equal(t, int64(1), snap.UpstreamCalls["get_cities|0"])
	assert.Equal(t, int64(1), snap.Errors["/teams|GET|FORBIDDEN"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"}, config.AppConfig{Name: "svc", Env: "test"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
