package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(l *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(GinRequestIDKey, "req-123")
		c.Next()
	})
	r.Use(Recovery(l), GinMiddleware(l))
	return r
}

func requestLogs(recorded *observer.ObservedLogs) []observer.LoggedEntry {
	return recorded.FilterMessage("HTTP request").All()
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	r := newTestRouter(zap.New(core))

	var ctxRequestID string
	r.GET("/sales", func(c *gin.Context) {
		ctxRequestID = RequestID(c.Request.Context())
		L(c.Request.Context()).Info("handler")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales?page=2", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", ctxRequestID)

	logs := requestLogs(recorded)
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/sales", fields["path"])
	assert.Equal(t, "page=2", fields["query"])
	assert.Equal(t, int64(200), fields["status"])

	handlerLogs := recorded.FilterMessage("handler").All()
	require.Len(t, handlerLogs, 1)
	assert.Equal(t, "req-123", handlerLogs[0].ContextMap()["request_id"])
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusCreated, zapcore.InfoLevel},
		{http.StatusConflict, zapcore.WarnLevel},
		{http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		core, recorded := observer.New(zapcore.DebugLevel)
		r := newTestRouter(zap.New(core))
		r.POST("/x", func(c *gin.Context) { c.Status(tt.status) })

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))

		logs := requestLogs(recorded)
		require.Len(t, logs, 1)
		assert.Equal(t, tt.level, logs[0].Level, "status %d", tt.status)
	}
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	r := newTestRouter(zap.New(core))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, recorded.FilterMessage("panic recovered").Len())
}
