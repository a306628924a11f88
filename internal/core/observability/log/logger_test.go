package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/chainshot/pkg/physics"
)

func TestLoggerWritesTypedFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := Wrap(zap.New(core), LevelDebug)

	l.Named("chain").With(String("level", "demo")).Info("propagated",
		Int("exploded", 4),
		Float64("radius", 1.5),
		Uint32("handle", 7),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "propagated", entry.Message)
	assert.Equal(t, "chain", entry.LoggerName)
	ctx := entry.ContextMap()
	assert.Equal(t, "demo", ctx["level"])
	assert.EqualValues(t, 4, ctx["exploded"])
	assert.Equal(t, 1.5, ctx["radius"])
	assert.EqualValues(t, 7, ctx["handle"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLoggerLevelFilter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := Wrap(zap.New(core), LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	assert.Equal(t, 1, logs.Len())

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	l.Debug("now shown")
	assert.Equal(t, 2, logs.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelSilent, ParseLevel("off"))
	assert.Equal(t, LevelInfo, ParseLevel("whatever"))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := NewNop()
	assert.Same(t, l, OrNop(l))
}

func TestVec3Field(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := Wrap(zap.New(core), LevelDebug)
	l.Debug("moved", Vec3("position", physics.V3(1, 2, 3)))

	require.Equal(t, 1, logs.Len())
	pos, ok := logs.All()[0].ContextMap()["position"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}, pos)
}

func TestNewWithOptionsWritesToOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.log")
	l, err := NewWithOptions(Options{Level: LevelInfo, Console: true, Output: path})
	require.NoError(t, err)

	l.Debug("dropped")
	l.Info("arena finished", String("level", "alpha"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "arena finished")
	assert.NotContains(t, string(data), "dropped")
}
