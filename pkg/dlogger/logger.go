// Copyright © 2018 One Concern

// Package dlogger exposes a simple zap logger, with log levels
package dlogger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelError only reports errors
	LogLevelError = "error"

	// LogLevelWarn reports errors and warnings, e.g. rejected keys
	LogLevelWarn = "warn"

	// LogLevelInfo sets the log level to info
	LogLevelInfo = "info"

	// LogLevelDebug sets the log level to debug, which traces every git invocation
	LogLevelDebug = "debug"

	// LogLevelNone sets logger to no logging
	LogLevelNone = "none"
)

// Option tunes the zap configuration before the logger is built
type Option func(*zap.Config)

// Console renders human-readable lines instead of JSON, without stack traces
func Console() Option {
	return func(c *zap.Config) {
		c.Encoding = "console"
		c.DisableStacktrace = true
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
}

// OutputPaths redirects log output, e.g. to a file or "stdout"
func OutputPaths(paths ...string) Option {
	return func(c *zap.Config) {
		if len(paths) > 0 {
			c.OutputPaths = paths
		}
	}
}

// GetLogger returns a zap logger with the specified level
func GetLogger(logLevel string, opts ...Option) (*zap.Logger, error) {
	if logLevel == LogLevelNone {
		return zap.NewNop(), nil
	}
	zapConfig := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	for _, apply := range opts {
		apply(&zapConfig)
	}
	return zapConfig.Build()
}

// MustGetLogger returns a zap logger with the specified level or panics
func MustGetLogger(logLevel string, opts ...Option) *zap.Logger {
	l, err := GetLogger(logLevel, opts...)
	if err != nil {
		panic(err)
	}
	return l
}
