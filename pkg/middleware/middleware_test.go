package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/metrics"
)

func TestGinLoggingMiddlewarePropagatesTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, logger.Init(logger.Config{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	}))

	router := gin.New()
	router.Use(GinLoggingMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		logger.Info(c.Request.Context(), "handling ping")
		c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	router.ServeHTTP(httptest.NewRecorder(), req)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// 处理器内通过 ctx 打出的日志带上游 trace_id 与本次 request_id
	assert.Contains(t, string(data), `"msg":"handling ping"`)
	assert.Contains(t, string(data), `"trace_id":"trace-123"`)
	assert.Contains(t, string(data), `"request_id":"`)
}

func TestGinMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New("test")

	router := gin.New()
	router.Use(GinMetricsMiddleware(m))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 3; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	}

	assert.InDelta(t, 3, testutil.ToFloat64(m.HTTPRequestsTotal), 0.001)
}
