// Copyright © 2018 One Concern

package cmd

import (
	"github.com/oneconcern/gitkv/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type flagsT struct {
	root struct {
		repository    string
		git           string
		timeout       string
		codec         string
		logLevel      string
		maxObjectSize string
	}
	set struct {
		json bool
		file string
	}
}

var gitkvFlags = flagsT{}

func addRepositoryFlag(cmd *cobra.Command) string {
	repository := "repo"
	cmd.PersistentFlags().StringVar(&gitkvFlags.root.repository, repository, "",
		"The path to the git repository holding the store. It is created when it does not exist")
	return repository
}

func addGitFlag(cmd *cobra.Command) string {
	git := "git"
	cmd.PersistentFlags().StringVar(&gitkvFlags.root.git, git, "", "The git executable to run")
	return git
}

func addTimeoutFlag(cmd *cobra.Command) string {
	timeout := "timeout"
	cmd.PersistentFlags().StringVar(&gitkvFlags.root.timeout, timeout, "",
		"The maximum duration of a single git command, e.g. 10s. 0 disables the timeout")
	return timeout
}

func addCodecFlag(cmd *cobra.Command) string {
	codec := "codec"
	cmd.PersistentFlags().StringVar(&gitkvFlags.root.codec, codec, "", "The serialization of stored values: json or yaml")
	return codec
}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().StringVar(&gitkvFlags.root.logLevel, logLevel, "",
		"The logging level: none, error, warn, info or debug")
	return logLevel
}

func addMaxObjectSizeFlag(cmd *cobra.Command) string {
	maxObjectSize := "max-object-size"
	cmd.PersistentFlags().StringVar(&gitkvFlags.root.maxObjectSize, maxObjectSize, "",
		"The largest value accepted, once serialized, e.g. 64MiB. 0 disables the limit")
	return maxObjectSize
}

func addJSONFlag(cmd *cobra.Command) string {
	asJSON := "json"
	cmd.Flags().BoolVar(&gitkvFlags.set.json, asJSON, false, "Parse VALUE as a JSON document instead of storing it as a string")
	return asJSON
}

func addFileFlag(cmd *cobra.Command) string {
	file := "file"
	cmd.Flags().StringVar(&gitkvFlags.set.file, file, "",
		"A YAML or JSON file holding a mapping of keys to values, all stored in one batch")
	return file
}

// configKeys maps persistent flags to configuration keys
var configKeys = map[string]string{
	"repo":            config.KeyRepository,
	"git":             config.KeyGit,
	"timeout":         config.KeyTimeout,
	"codec":           config.KeyCodec,
	"loglevel":        config.KeyLogLevel,
	"max-object-size": config.KeyMaxObjectSize,
}

// bindFlags lets flags explicitly set on the command line override the configuration
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := configKeys[f.Name]
		if !ok || !f.Changed {
			return
		}
		v.Set(key, f.Value.String())
	})
}
