// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/oneconcern/gitkv/pkg/config"
	"github.com/oneconcern/gitkv/pkg/core"
	"github.com/oneconcern/gitkv/pkg/dlogger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gitkv",
	Short: "gitkv stores values in a git repository",
	Long: `gitkv is a key-value store kept in the object database of a git repository.

Every value is stored as a blob, and every key is a lightweight tag pointing to the blob
holding its current value. Overwritten values remain in the repository until git
garbage-collects them.

Keys must be valid git tag names: no whitespace, no "..", none of ^ ~ : ? * [ \,
no "@{", and no trailing "/", "." or ".lock".
`,
}

var (
	settings *config.Config

	// appFs is the file system used to read configuration and batch files
	appFs = afero.NewOsFs()
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addRepositoryFlag(rootCmd)
	addGitFlag(rootCmd)
	addTimeoutFlag(rootCmd)
	addCodecFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	addMaxObjectSizeFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	v := config.NewViper(appFs)
	used, err := config.ReadFile(v)
	if err != nil {
		wrapFatalln("cannot read configuration file", err)
		return
	}
	bindFlags(v, rootCmd.PersistentFlags())

	settings, err = config.Load(v)
	if err != nil {
		wrapFatalln("invalid configuration", err)
		return
	}
	if used != "" && settings.LogLevel == dlogger.LogLevelDebug {
		log.Println("Using config file:", used)
	}
}

// openStore opens the configured store, or exits
func openStore(ctx context.Context) *core.Store {
	if settings == nil {
		return nil
	}
	if settings.Repository == "" {
		wrapFatalln("no repository: use --repo or set "+config.EnvPrefix+"_REPOSITORY", nil)
		return nil
	}
	l, err := settings.Logger(dlogger.Console())
	if err != nil {
		wrapFatalln("cannot create logger", err)
		return nil
	}
	opts, err := settings.StoreOptions(l)
	if err != nil {
		wrapFatalln("invalid configuration", err)
		return nil
	}
	store, err := core.New(ctx, settings.Repository, opts...)
	if err != nil {
		wrapFatalln("cannot open store", err)
		return nil
	}
	return store
}
