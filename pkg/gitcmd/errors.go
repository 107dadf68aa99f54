// Copyright © 2018 One Concern

package gitcmd

import (
	"fmt"
	"strings"

	"github.com/oneconcern/gitkv/pkg/errors"
)

var (
	// ErrEngineExecution indicates that the git binary could not be started at all.
	// This points at a misconfigured environment rather than at the data.
	ErrEngineExecution = errors.New("cannot execute git")

	// ErrTimeout indicates that a git invocation did not complete before its deadline
	ErrTimeout = errors.New("git command timed out")

	// ErrOutputTooLarge indicates that git produced more output than the runner accepts to hold in memory
	ErrOutputTooLarge = errors.New("git output exceeds the maximum object size")
)

// ExitError describes a git invocation which ran and exited with a non-zero status
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("git %s exited with status %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}
