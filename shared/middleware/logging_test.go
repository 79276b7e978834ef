package middleware

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

func newLoggedRouter(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggingMiddleware(log))
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"requestId": GetRequestID(c)})
	})
	r.GET("/boom", func(c *gin.Context) {
		RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	})
	return r
}

func TestLoggingMiddlewareAssignsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newLoggedRouter(zap.New(core))

	req, _ := http.NewRequest(http.MethodGet, "/ok?month=3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Contains(t, w.Body.String(), id)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, id, ctx["request_id"])
	assert.Equal(t, "/ok", ctx["path"])
	assert.Equal(t, "month=3", ctx["query"])
	assert.EqualValues(t, http.StatusOK, ctx["status"])
}

func TestLoggingMiddlewareKeepsInboundRequestID(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	r := newLoggedRouter(zap.New(core))

	req, _ := http.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLoggingMiddlewareLogsServerErrorsAtErrorLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newLoggedRouter(zap.New(core))

	req, _ := http.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
	require.Len(t, logs.All(), 1)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}
