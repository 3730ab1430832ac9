package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogLoggerRedacts(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := New(slog.New(handler)).With("component", "pool")

	logger.Debug("modular square root", Redacted("operand"), "size", 32)

	out := buf.String()
	assert.Contains(t, out, "component=pool")
	assert.Contains(t, out, "operand="+Placeholder())
	assert.Contains(t, out, "size=32")
	assert.True(t, strings.Contains(out, "level=DEBUG"), out)
}

func TestSlogLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := New(slog.New(handler))

	logger.Info("dropped")
	logger.Warn("kept warn")
	logger.Error("kept error")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept warn")
	assert.Contains(t, out, "kept error")
}

func TestNewNilUsesDefault(t *testing.T) {
	require.NotNil(t, New(nil))
}

func TestZapLoggerConvertsAttrs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZap(zap.New(core)).With("target", "simulator")

	logger.Info("hardware exponentiation", Redacted("base"), "block", 256)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "simulator", fields["target"])
	assert.Equal(t, Placeholder(), fields["base"])
	assert.EqualValues(t, 256, fields["block"])
}

func TestNop(t *testing.T) {
	logger := Nop().With("a", 1)
	logger.Debug("x")
	logger.Info("x")
	logger.Warn("x")
	logger.Error("x")
}
