// Copyright © 2018 One Concern

package core

import (
	"time"

	"github.com/oneconcern/gitkv/pkg/codec"
	"github.com/oneconcern/gitkv/pkg/gitcmd"
	"github.com/oneconcern/gitkv/pkg/storage"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultMaxObjectSize is the largest value accepted by default
const DefaultMaxObjectSize = gitcmd.DefaultMaxOutput

// Option configures a Store
type Option func(*Settings)

// Settings for a Store
type Settings struct {
	l             *zap.Logger
	codec         codec.Codec
	fs            afero.Fs
	objects       storage.ObjectStore
	gitBinary     string
	timeout       time.Duration
	maxObjectSize int64
	registerer    prometheus.Registerer
	tracer        opentracing.Tracer
}

func defaultSettings() Settings {
	return Settings{
		l:             zap.NewNop(),
		codec:         codec.JSON,
		fs:            afero.NewOsFs(),
		gitBinary:     gitcmd.DefaultBinary,
		timeout:       gitcmd.DefaultTimeout,
		maxObjectSize: DefaultMaxObjectSize,
	}
}

// Logger for the store. It defaults to a no-op logger.
func Logger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.l = l
		}
	}
}

// Codec to serialize values. It defaults to codec.JSON.
//
// A repository should always be used with the same codec.
func Codec(c codec.Codec) Option {
	return func(s *Settings) {
		if c != nil {
			s.codec = c
		}
	}
}

// Fs is the file system used to inspect and create the repository path. It defaults to the OS.
func Fs(fs afero.Fs) Option {
	return func(s *Settings) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// ObjectStore replaces the git command line backend
func ObjectStore(objects storage.ObjectStore) Option {
	return func(s *Settings) {
		s.objects = objects
	}
}

// GitBinary sets the git executable
func GitBinary(path string) Option {
	return func(s *Settings) {
		if path != "" {
			s.gitBinary = path
		}
	}
}

// Timeout bounds every git invocation. Zero disables the timeout.
func Timeout(d time.Duration) Option {
	return func(s *Settings) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// MaxObjectSize limits the size of a stored value, once encoded. Zero disables the limit.
func MaxObjectSize(n int64) Option {
	return func(s *Settings) {
		if n >= 0 {
			s.maxObjectSize = n
		}
	}
}

// Metrics registers git invocation metrics with reg
func Metrics(reg prometheus.Registerer) Option {
	return func(s *Settings) {
		s.registerer = reg
	}
}

// Tracer traces every object store operation
func Tracer(tr opentracing.Tracer) Option {
	return func(s *Settings) {
		s.tracer = tr
	}
}
