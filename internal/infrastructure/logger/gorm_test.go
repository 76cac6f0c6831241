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
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func query() (string, int64) { return "SELECT * FROM sales", 1 }

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		begin   time.Time
		err     error
		wantMsg string
	}{
		{"error", gormlogger.Error, time.Now(), errors.New("boom"), "sql error"},
		{"not found is ignored", gormlogger.Error, time.Now(), gorm.ErrRecordNotFound, ""},
		{"slow", gormlogger.Warn, time.Now().Add(-time.Second), nil, "slow sql"},
		{"slow below warn level", gormlogger.Error, time.Now().Add(-time.Second), nil, ""},
		{"normal at info", gormlogger.Info, time.Now(), nil, "sql"},
		{"normal at warn", gormlogger.Warn, time.Now(), nil, ""},
		{"silent", gormlogger.Silent, time.Now(), errors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gl := NewGormLogger(zap.New(core), tt.level, 100*time.Millisecond)

			gl.Trace(context.Background(), tt.begin, query, tt.err)

			if tt.wantMsg == "" {
				assert.Zero(t, recorded.Len())
				return
			}
			require.Equal(t, 1, recorded.Len())
			entry := recorded.All()[0]
			assert.Equal(t, tt.wantMsg, entry.Message)
			assert.Equal(t, "gorm", entry.LoggerName)
			assert.Equal(t, "SELECT * FROM sales", entry.ContextMap()["sql"])
		})
	}
}

func TestGormLogger_TraceCarriesRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error, 0)

	gl.Trace(WithRequestID(context.Background(), "req-7"), time.Now(), query, errors.New("boom"))

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "req-7", recorded.All()[0].ContextMap()["request_id"])
}

func TestGormLogger_LogMode(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Warn, 0)

	quiet := gl.LogMode(gormlogger.Silent).(*GormLogger)

	assert.Equal(t, gormlogger.Silent, quiet.level)
	assert.Equal(t, gormlogger.Warn, gl.level)
}

func TestParseGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, ParseGormLevel("silent"))
	assert.Equal(t, gormlogger.Error, ParseGormLevel("error"))
	assert.Equal(t, gormlogger.Info, ParseGormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, ParseGormLevel("info"))
}
