// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the configuration",
	Long: `Commands to manage the gitkv configuration.

The configuration is read from the file designated by GITKV_CONFIG, or from gitkv.yaml
in the current directory, $HOME/.gitkv or /etc/gitkv. Environment variables prefixed
with GITKV_ (e.g. GITKV_REPOSITORY) override the file, and flags override both.`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective configuration",
	Long:  "Prints the configuration resulting from defaults, the configuration file, the environment and flags, as YAML.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if settings == nil {
			return
		}
		out, err := yaml.Marshal(settings)
		if err != nil {
			wrapFatalln("cannot render configuration", err)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
	},
}

func init() {
	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(configCmd)
}
