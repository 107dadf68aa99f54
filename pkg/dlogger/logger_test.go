// Copyright © 2018 One Concern

package dlogger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetLogger(t *testing.T) {
	l, err := GetLogger(LogLevelNone)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))

	l, err = GetLogger(LogLevelWarn, Console())
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	l, err = GetLogger(LogLevelDebug, OutputPaths("stdout"))
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = GetLogger("chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}

func TestMustGetLogger(t *testing.T) {
	assert.NotPanics(t, func() { _ = MustGetLogger(LogLevelInfo) })
	assert.Panics(t, func() { _ = MustGetLogger("chatty") })
}
