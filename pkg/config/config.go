// Copyright © 2018 One Concern

// Package config holds the settings of a gitkv store, as loaded from
// defaults, a configuration file, the environment and command line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/oneconcern/gitkv/pkg/codec"
	"github.com/oneconcern/gitkv/pkg/core"
	"github.com/oneconcern/gitkv/pkg/dlogger"
	"github.com/oneconcern/gitkv/pkg/errors"
	"github.com/oneconcern/gitkv/pkg/gitcmd"
	"go.uber.org/zap"
)

// Configuration keys
const (
	KeyRepository    = "repository"
	KeyGit           = "git"
	KeyTimeout       = "timeout"
	KeyCodec         = "codec"
	KeyLogLevel      = "loglevel"
	KeyMaxObjectSize = "max_object_size"
)

// ErrInvalidConfig indicates a configuration which cannot be used
var ErrInvalidConfig = errors.New("invalid configuration")

// Config describes how to open a store
type Config struct {
	Repository    string        `json:"repository" yaml:"repository" mapstructure:"repository"`
	Git           string        `json:"git" yaml:"git" mapstructure:"git"`
	Timeout       time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	Codec         string        `json:"codec" yaml:"codec" mapstructure:"codec"`
	LogLevel      string        `json:"loglevel" yaml:"loglevel" mapstructure:"loglevel"`
	MaxObjectSize string        `json:"max_object_size" yaml:"max_object_size" mapstructure:"max_object_size"`
}

// Default configuration
func Default() Config {
	return Config{
		Git:           gitcmd.DefaultBinary,
		Timeout:       gitcmd.DefaultTimeout,
		Codec:         codec.NameJSON,
		LogLevel:      dlogger.LogLevelWarn,
		MaxObjectSize: units.BytesSize(float64(core.DefaultMaxObjectSize)),
	}
}

// ApplyDefaults fills unset fields with their default value.
//
// Timeout is left alone: 0 disables it, and its default comes from NewViper.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.Git == "" {
		c.Git = def.Git
	}
	if c.Codec == "" {
		c.Codec = def.Codec
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.MaxObjectSize == "" {
		c.MaxObjectSize = def.MaxObjectSize
	}
}

// Normalize trims values and lower-cases names
func (c *Config) Normalize() {
	c.Repository = strings.TrimSpace(c.Repository)
	c.Git = strings.TrimSpace(c.Git)
	c.Codec = strings.ToLower(strings.TrimSpace(c.Codec))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.MaxObjectSize = strings.TrimSpace(c.MaxObjectSize)
}

// Validate the configuration. The repository is not required here.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return ErrInvalidConfig.Wrap(fmt.Errorf("negative timeout %v", c.Timeout))
	}
	if _, err := codec.New(c.Codec); err != nil {
		return ErrInvalidConfig.Wrap(err)
	}
	switch c.LogLevel {
	case dlogger.LogLevelNone, dlogger.LogLevelError, dlogger.LogLevelWarn, dlogger.LogLevelInfo, dlogger.LogLevelDebug:
	default:
		return ErrInvalidConfig.Wrap(fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if _, err := c.MaxObjectBytes(); err != nil {
		return err
	}
	return nil
}

// MaxObjectBytes parses the maximum object size, e.g. "64MiB" or "1g"
func (c Config) MaxObjectBytes() (int64, error) {
	n, err := units.RAMInBytes(c.MaxObjectSize)
	if err != nil {
		return 0, ErrInvalidConfig.Wrap(fmt.Errorf("max object size: %w", err))
	}
	if n < 0 {
		return 0, ErrInvalidConfig.Wrap(fmt.Errorf("negative max object size %q", c.MaxObjectSize))
	}
	return n, nil
}

// Logger built for the configured log level
func (c Config) Logger(opts ...dlogger.Option) (*zap.Logger, error) {
	return dlogger.GetLogger(c.LogLevel, opts...)
}

// StoreOptions translates the configuration into options for core.New
func (c Config) StoreOptions(l *zap.Logger) ([]core.Option, error) {
	cdc, err := codec.New(c.Codec)
	if err != nil {
		return nil, ErrInvalidConfig.Wrap(err)
	}
	size, err := c.MaxObjectBytes()
	if err != nil {
		return nil, err
	}
	return []core.Option{
		core.Logger(l),
		core.Codec(cdc),
		core.GitBinary(c.Git),
		core.Timeout(c.Timeout),
		core.MaxObjectSize(size),
	}, nil
}
