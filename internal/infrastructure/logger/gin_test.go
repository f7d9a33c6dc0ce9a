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

func findRequestLog(logs []observer.LoggedEntry) *observer.LoggedEntry {
	for i := range logs {
		if logs[i].Message == "HTTP Request" {
			return &logs[i]
		}
	}
	return nil
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(GinMiddleware(zapLogger))
	router.GET("/inventory/levels", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/inventory/levels", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	httpLog := findRequestLog(recorded.All())
	require.NotNil(t, httpLog, "request log should exist")
	assert.Equal(t, zapcore.InfoLevel, httpLog.Level)
}

func TestGinMiddleware_WithRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	// request ID is normally placed by the RequestID middleware
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-8d2c1a")
		c.Next()
	})
	router.Use(GinMiddleware(zapLogger))
	router.GET("/inventory/levels", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/inventory/levels", nil)
	router.ServeHTTP(w, req)

	httpLog := findRequestLog(recorded.All())
	require.NotNil(t, httpLog)

	hasRequestID := false
	for _, field := range httpLog.Context {
		if field.Key == "request_id" {
			hasRequestID = true
			assert.Equal(t, "req-8d2c1a", field.String)
		}
	}
	assert.True(t, hasRequestID, "request_id should be in log fields")
}

func TestGinMiddleware_ClientErrorLogsWarn(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.WarnLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(GinMiddleware(zapLogger))
	router.GET("/inventory/levels/detail", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id and warehouse_id are required"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/inventory/levels/detail", nil)
	router.ServeHTTP(w, req)

	httpLog := findRequestLog(recorded.All())
	require.NotNil(t, httpLog)
	assert.Equal(t, zapcore.WarnLevel, httpLog.Level)
}

func TestGinMiddleware_ServerErrorLogsError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(GinMiddleware(zapLogger))
	router.POST("/inventory/transfer-stock", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unavailable"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/inventory/transfer-stock", nil)
	router.ServeHTTP(w, req)

	httpLog := findRequestLog(recorded.All())
	require.NotNil(t, httpLog)
	assert.Equal(t, zapcore.ErrorLevel, httpLog.Level)
}

func TestGinMiddleware_WithQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(GinMiddleware(zapLogger))
	router.GET("/inventory/transactions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/inventory/transactions?transaction_type=sale&page=1", nil)
	router.ServeHTTP(w, req)

	httpLog := findRequestLog(recorded.All())
	require.NotNil(t, httpLog)

	hasQuery := false
	for _, field := range httpLog.Context {
		if field.Key == "query" {
			hasQuery = true
			assert.Contains(t, field.String, "transaction_type=sale")
		}
	}
	assert.True(t, hasQuery, "query should be in log fields")
}

func TestGinMiddleware_LogsRequestFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(GinMiddleware(zapLogger))
	router.POST("/inventory/adjustments", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": "a8f0"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/inventory/adjustments", nil)
	req.Header.Set("User-Agent", "atlas-cli/1.0")
	router.ServeHTTP(w, req)

	httpLog := findRequestLog(recorded.All())
	require.NotNil(t, httpLog)

	fieldMap := make(map[string]any)
	for _, field := range httpLog.Context {
		fieldMap[field.Key] = field
	}
	assert.Contains(t, fieldMap, "status")
	assert.Contains(t, fieldMap, "latency")
	assert.Contains(t, fieldMap, "client_ip")
	assert.Contains(t, fieldMap, "user_agent")
	assert.Contains(t, fieldMap, "method")
	assert.Contains(t, fieldMap, "path")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	zapLogger := zap.New(core)

	router := gin.New()
	router.Use(Recovery(zapLogger))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Contains(t, logs[0].Message, "Panic recovered")
}
