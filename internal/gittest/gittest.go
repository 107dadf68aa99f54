// Copyright © 2018 One Concern

// Package gittest inspects git repositories independently from the code under test.
package gittest

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/icmd"
)

// RequireGit skips the test when no git binary is available
func RequireGit(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git is not available: %v", err)
	}
}

// NewRepoPath returns a path under a temporary directory where no repository exists yet
func NewRepoPath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store.git")
}

// InitRepo creates a git repository at dir
func InitRepo(t testing.TB, dir string) {
	t.Helper()
	icmd.RunCommand("git", "--git-dir", dir, "init", "--quiet").Assert(t, icmd.Success)
}

// Tags lists the tags of the repository at dir
func Tags(t testing.TB, dir string) []string {
	t.Helper()
	res := icmd.RunCommand("git", "--git-dir", dir, "tag", "-l")
	res.Assert(t, icmd.Success)
	return strings.Fields(res.Stdout())
}

// TagTarget resolves a tag, reporting false when it does not exist
func TagTarget(t testing.TB, dir, tag string) (string, bool) {
	t.Helper()
	res := icmd.RunCommand("git", "--git-dir", dir, "rev-parse", "--verify", "--quiet", "refs/tags/"+tag)
	if res.ExitCode != 0 {
		return "", false
	}
	return strings.TrimSpace(res.Stdout()), true
}

// HashObject computes the object id git assigns to data, without writing it
func HashObject(t testing.TB, data []byte) string {
	t.Helper()
	cmd := icmd.Command("git", "hash-object", "--stdin")
	cmd.Stdin = bytes.NewReader(data)
	res := icmd.RunCmd(cmd)
	res.Assert(t, icmd.Success)
	return strings.TrimSpace(res.Stdout())
}

// WriteObject stores data in the repository at dir and returns its id
func WriteObject(t testing.TB, dir string, data []byte) string {
	t.Helper()
	cmd := icmd.Command("git", "--git-dir", dir, "hash-object", "--stdin", "-w")
	cmd.Stdin = bytes.NewReader(data)
	res := icmd.RunCmd(cmd)
	res.Assert(t, icmd.Success)
	return strings.TrimSpace(res.Stdout())
}

// ObjectExists tells if the object id is present in the repository at dir
func ObjectExists(t testing.TB, dir, id string) bool {
	t.Helper()
	return icmd.RunCommand("git", "--git-dir", dir, "cat-file", "-e", id).ExitCode == 0
}
