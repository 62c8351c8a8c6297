package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zap.AtomicLevel{
		"":        zap.NewAtomicLevelAt(zap.InfoLevel),
		"DEBUG":   zap.NewAtomicLevelAt(zap.DebugLevel),
		"warning": zap.NewAtomicLevelAt(zap.WarnLevel),
		"error":   zap.NewAtomicLevelAt(zap.ErrorLevel),
		"Fatal":   zap.NewAtomicLevelAt(zap.FatalLevel),
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want.Level(), got, in)
	}

	_, err := ParseLevel(" loud ")
	assert.EqualError(t, err, `unknown log level "loud"`)
}

func TestNew(t *testing.T) {
	log, err := New("debug", "paperctl")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	_, err = New("loud", "paperctl")
	assert.Error(t, err)
}
