package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		t.Run(env, func(t *testing.T) {
			l := NewLogger(env)
			require.NotNil(t, l)
			l.Info("hello")
		})
	}
}

func TestNewLogger_LogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	l := NewLogger("production")

	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))
}

func TestNewLogger_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	l := NewLogger("production")

	assert.True(t, l.Core().Enabled(zap.InfoLevel))
}

func TestSet(t *testing.T) {
	original := Get()
	defer Set(original)

	core, logs := observer.New(zap.InfoLevel)
	Set(zap.New(core))

	Info("seat reserved", zap.Int("seat_id", 3))
	Warn("cache miss")
	Debug("hidden")
	Named("worker").Error("boom")
	With(zap.String("k", "v")).Info("with field")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, "seat reserved", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["seat_id"])
	assert.Equal(t, "worker", entries[2].LoggerName)
	assert.Equal(t, "v", entries[3].ContextMap()["k"])
}

func TestSet_Nil(t *testing.T) {
	original := Get()
	defer Set(original)

	Set(nil)

	require.NotNil(t, Get())
	Info("discarded")
}
