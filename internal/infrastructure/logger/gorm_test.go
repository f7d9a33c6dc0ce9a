package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level zapcore.Level, gormLevel gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	return NewGormLogger(zap.New(core), gormLevel), recorded
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)

	newLogger := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel, "LogMode must not mutate the receiver")
	newGormLog, ok := newLogger.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, newGormLog.logLevel)
}

func TestGormLogger_Info(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)
	gormLog.Info(context.Background(), "applied %d migrations", 6)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "applied 6 migrations")
}

func TestGormLogger_Info_SuppressedWhenSilent(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Silent)
	gormLog.Info(context.Background(), "should not appear")
	assert.Empty(t, recorded.All())
}

func TestGormLogger_Warn(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.WarnLevel, gormlogger.Warn)
	gormLog.Warn(context.Background(), "retrying lock, attempt %d", 2)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "retrying lock, attempt 2")
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
}

func TestGormLogger_Error(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error)
	gormLog.Error(context.Background(), "connection lost")

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
}

func TestGormLogger_Trace_Error(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error)

	fc := func() (string, int64) {
		return "UPDATE inventories SET quantity_available = ? WHERE id = ?", 0
	}
	gormLog.Trace(context.Background(), time.Now(), fc, errors.New("deadlock detected"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SQL Error")
}

func TestGormLogger_Trace_RecordNotFoundIgnored(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error)

	fc := func() (string, int64) {
		return "SELECT * FROM inventories WHERE product_id = ? AND warehouse_id = ?", 0
	}
	gormLog.Trace(context.Background(), time.Now(), fc, gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_SlowQuery(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.WarnLevel, gormlogger.Warn)

	// begin a second in the past to trip the 200ms threshold
	begin := time.Now().Add(-1 * time.Second)
	fc := func() (string, int64) {
		return "SELECT * FROM inventory_transactions", 5000
	}
	gormLog.Trace(context.Background(), begin, fc, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SLOW SQL")
}

func TestGormLogger_Trace_NormalQuery(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Info)

	fc := func() (string, int64) {
		return "SELECT * FROM stock_transfers WHERE status = ?", 3
	}
	gormLog.Trace(context.Background(), time.Now(), fc, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SQL Query")
}

func TestGormLogger_Trace_Silent(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Silent)

	fc := func() (string, int64) {
		return "SELECT 1", 1
	}
	gormLog.Trace(context.Background(), time.Now(), fc, nil)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_WithRequestID(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Info)

	ctx := WithRequestID(context.Background(), "req-4b1d")
	fc := func() (string, int64) {
		return "SELECT * FROM inventories WHERE quantity_available > 0", 2
	}
	gormLog.Trace(ctx, time.Now(), fc, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)

	hasRequestID := false
	for _, field := range logs[0].Context {
		if field.Key == "request_id" {
			hasRequestID = true
			assert.Equal(t, "req-4b1d", field.String)
		}
	}
	assert.True(t, hasRequestID, "request_id should be in log fields")
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)
	var _ gormlogger.Interface = gormLog
}
