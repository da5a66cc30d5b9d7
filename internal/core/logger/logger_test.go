package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Development(t *testing.T) {
	err := Init("development", "debug")
	require.NoError(t, err)
	assert.NotNil(t, Get())
}

func TestInit_Production(t *testing.T) {
	err := Init("production", "info")
	require.NoError(t, err)
	assert.NotNil(t, Get())
}

func TestInit_InvalidLevelFallsBack(t *testing.T) {
	err := Init("development", "not-a-level")
	require.NoError(t, err)
	assert.NotNil(t, Get())
}

func TestGet_Uninitialized(t *testing.T) {
	saved := globalLogger
	globalLogger = nil
	defer func() { globalLogger = saved }()

	// Must not panic and must return a usable logger.
	l := Get()
	require.NotNil(t, l)
	l.Info("noop")

	assert.NotNil(t, Named("test"))
}
