package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"worker": "run-ats-analysis"})

	log.Info("Analysis complete", map[string]interface{}{"candidateId": int64(4), "score": 72.5})
	log.WithError(errors.New("index down")).Warn("Indexing skipped", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "run-ats-analysis", first["worker"])
	assert.Equal(t, int64(4), first["candidateId"])
	assert.Equal(t, 72.5, first["score"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "index down", entries[1].ContextMap()["error"])
}

func TestToZapFields_SortedAndErrorsNamed(t *testing.T) {
	fields := toZapFields(map[string]interface{}{"b": 1, "a": 2, "cause": errors.New("x")})

	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)
	assert.Equal(t, "cause", fields[2].Key)
	assert.Equal(t, zapcore.ErrorType, fields[2].Type)
	assert.Nil(t, toZapFields(nil))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewWithOptions_BadSinkFallsBackToNop(t *testing.T) {
	l := NewWithOptions(Options{Level: "info", Format: "json", Output: "/nonexistent/dir/app.log"})
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := NewNoOpLogger()
	assert.Same(t, l, OrNop(l))
}
