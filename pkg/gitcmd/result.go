// Copyright © 2018 One Concern

package gitcmd

import (
	"bufio"
	"bytes"
	"strings"
)

// Result of a git invocation which could be run to completion.
//
// A non-zero exit code is not an error: it is up to the caller to decide
// whether it means "not found" or a hard failure.
type Result struct {
	Args     []string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success tells if git exited with status 0
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Output is the captured stdout, without surrounding whitespace
func (r *Result) Output() string {
	return strings.TrimSpace(string(r.Stdout))
}

// Lines splits the captured stdout, one entry per line
func (r *Result) Lines() []string {
	lines := make([]string, 0, bytes.Count(r.Stdout, []byte{'\n'})+1)
	scanner := bufio.NewScanner(bytes.NewReader(r.Stdout))
	scanner.Buffer(make([]byte, 0, 4096), len(r.Stdout)+1)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// Err returns nil on success, or an *ExitError describing the failure
func (r *Result) Err() error {
	if r.Success() {
		return nil
	}
	return &ExitError{
		Command:  subcommand(r.Args),
		ExitCode: r.ExitCode,
		Stderr:   string(r.Stderr),
	}
}

// subcommand is the first non-flag argument, used to label logs and metrics
func subcommand(args []string) string {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
	}
	return "unknown"
}
