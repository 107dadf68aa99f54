// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var deleteCmd = &cobra.Command{
	Use:     "delete KEY [KEY...]",
	Aliases: []string{"rm"},
	Short:   "Delete keys",
	Long: `Deletes keys. Stored values remain in the repository until git garbage-collects them.

Every key is attempted. Exits with ENOENT status when some key did not exist.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := openStore(ctx)
		if store == nil {
			return
		}

		ok, err := store.Delete(ctx, args...)
		if err != nil {
			wrapFatalln("cannot delete keys", err)
			return
		}
		if !ok {
			wrapFatalWithCodef(int(unix.ENOENT), "didn't find some of the keys %q", args)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
