// Copyright © 2018 One Concern

package gitcmd

import (
	"bytes"
	"io"
	"time"

	"go.uber.org/zap"
)

// Option configures a Runner
type Option func(*Runner)

// Binary sets the git executable. It defaults to "git", looked up in $PATH.
func Binary(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.binary = path
		}
	}
}

// Timeout bounds every git invocation. A zero value disables the timeout.
func Timeout(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// MaxOutput caps the number of bytes captured from stdout. A zero value disables the cap.
func MaxOutput(n int64) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.maxOutput = n
		}
	}
}

// Logger sets the logger for this runner
func Logger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.l = l
		}
	}
}

// WithMetrics records invocation counts and durations
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// RunOption configures a single invocation
type RunOption func(*runSettings)

type runSettings struct {
	stdin io.Reader
}

// WithStdin streams the reader to the standard input of git
func WithStdin(rdr io.Reader) RunOption {
	return func(s *runSettings) {
		s.stdin = rdr
	}
}

// WithInput writes data to the standard input of git
func WithInput(data []byte) RunOption {
	return func(s *runSettings) {
		s.stdin = bytes.NewReader(data)
	}
}
