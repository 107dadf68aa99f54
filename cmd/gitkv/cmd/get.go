// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var getCmd = &cobra.Command{
	Use:   "get KEY [KEY...]",
	Short: "Get values by key",
	Long: `Prints the value stored under each key as JSON, one per line.

With a single key, exits with ENOENT status when the key does not exist.
With several keys, absent keys are printed as null.

NaN and infinite floats have no JSON form: they are printed as the strings
"NaN", "+Inf" and "-Inf".`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := openStore(ctx)
		if store == nil {
			return
		}

		if len(args) == 1 {
			v, found, err := store.GetOne(ctx, args[0])
			if err != nil {
				wrapFatalln("cannot get value", err)
				return
			}
			if !found {
				wrapFatalWithCodef(int(unix.ENOENT), "didn't find key %q", args[0])
				return
			}
			printValue(cmd, v)
			return
		}

		values, err := store.GetMany(ctx, args...)
		if err != nil {
			wrapFatalln("cannot get values", err)
			return
		}
		for _, v := range values {
			printValue(cmd, v)
		}
	},
}

func printValue(cmd *cobra.Command, v interface{}) {
	line, err := formatValue(v)
	if err != nil {
		wrapFatalln("cannot print value", err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}

func init() {
	rootCmd.AddCommand(getCmd)
}
