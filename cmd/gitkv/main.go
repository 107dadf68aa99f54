// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/gitkv/cmd/gitkv/cmd"
)

func main() {
	cmd.Execute()
}
