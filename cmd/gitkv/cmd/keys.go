// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:     "keys",
	Aliases: []string{"ls"},
	Short:   "List keys",
	Long:    "Lists the keys of the store, one per line.",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := openStore(ctx)
		if store == nil {
			return
		}

		names, err := store.Keys(ctx)
		if err != nil {
			wrapFatalln("cannot list keys", err)
			return
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
