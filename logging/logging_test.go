package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("octree", "debug")
	require.NoError(t, err)
	assert.True(t, logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger("octree", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Desugar().Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger("octree", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	assert.False(t, logger.Desugar().Core().Enabled(zapcore.ErrorLevel))
	logger.Infow("dropped", "key", 1)
}
