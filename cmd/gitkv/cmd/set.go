// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"

	"github.com/oneconcern/gitkv/pkg/keys"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a value",
	Long: `Stores VALUE under KEY, replacing any previous value.

VALUE is stored as a string, unless --json is given: it is then parsed as a JSON document.

With --file, every entry of a YAML or JSON mapping is stored instead, in one batch.
Nothing is stored when some key is invalid: the command exits with EINVAL status.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if gitkvFlags.set.file != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		var batch map[string]interface{}
		if gitkvFlags.set.file != "" {
			data, err := afero.ReadFile(appFs, gitkvFlags.set.file)
			if err != nil {
				wrapFatalln("cannot read batch file", err)
				return
			}
			batch, err = parseBatch(gitkvFlags.set.file, data)
			if err != nil {
				wrapFatalln(fmt.Sprintf("invalid batch file %s", gitkvFlags.set.file), err)
				return
			}
		} else {
			var value interface{} = args[1]
			if gitkvFlags.set.json {
				var err error
				value, err = parseJSON([]byte(args[1]))
				if err != nil {
					wrapFatalln("invalid JSON value", err)
					return
				}
			}
			batch = map[string]interface{}{args[0]: value}
		}

		for key := range batch {
			if err := keys.Validate(key); err != nil {
				wrapFatalWithCodef(int(unix.EINVAL), "%v", err)
				return
			}
		}

		ctx := context.Background()
		store := openStore(ctx)
		if store == nil {
			return
		}
		if err := store.SetAll(ctx, batch); err != nil {
			wrapFatalln("cannot set values", err)
			return
		}
	},
}

func init() {
	addJSONFlag(setCmd)
	addFileFlag(setCmd)
	rootCmd.AddCommand(setCmd)
}
