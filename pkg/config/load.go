// Copyright © 2018 One Concern

package config

import (
	"os"
	"strings"

	"github.com/oneconcern/gitkv/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment variables overriding the configuration, e.g. GITKV_REPOSITORY
	EnvPrefix = "GITKV"

	// EnvConfigFile points to an explicit configuration file
	EnvConfigFile = "GITKV_CONFIG"

	// FileName of the configuration file, searched in SearchPaths
	FileName = "gitkv"
)

// SearchPaths for the configuration file
var SearchPaths = []string{".", "$HOME/.gitkv", "/etc/gitkv"}

// NewViper prepares a viper instance with defaults and environment bindings, reading files from fs
func NewViper(fs afero.Fs) *viper.Viper {
	v := viper.New()
	if fs != nil {
		v.SetFs(fs)
	}

	def := Default()
	v.SetDefault(KeyRepository, def.Repository)
	v.SetDefault(KeyGit, def.Git)
	v.SetDefault(KeyTimeout, def.Timeout)
	v.SetDefault(KeyCodec, def.Codec)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyMaxObjectSize, def.MaxObjectSize)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads the configuration file, when there is one.
//
// It returns the path of the file used, or an empty string when none was found.
// A file designated by GITKV_CONFIG must exist.
func ReadFile(v *viper.Viper) (string, error) {
	if file := os.Getenv(EnvConfigFile); file != "" {
		v.SetConfigFile(file)
	} else {
		for _, pth := range SearchPaths {
			v.AddConfigPath(pth)
		}
		v.SetConfigName(FileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", ErrInvalidConfig.Wrap(err)
	}
	return v.ConfigFileUsed(), nil
}

// Load the configuration from v, with defaults applied, normalized and validated
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, ErrInvalidConfig.Wrap(err)
	}
	c.ApplyDefaults()
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
