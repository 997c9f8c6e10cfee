package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}
	l.With("run", "abc").Info("compiled", "elements", 3)
	l.Warn("closed surface")
	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "compiled", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["run"])
	assert.Equal(t, int64(3), entry.ContextMap()["elements"])
	assert.Equal(t, zap.WarnLevel, logs.All()[1].Level)
}

func TestModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "quiet"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, l.SugaredLogger)
	}
	Nop().Info("dropped")
}
