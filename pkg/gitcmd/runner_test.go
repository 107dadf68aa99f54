// Copyright © 2018 One Concern

package gitcmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/oneconcern/gitkv/internal/gittest"
	"github.com/oneconcern/gitkv/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupRunner(t *testing.T, opts ...Option) (*Runner, string) {
	t.Helper()
	gittest.RequireGit(t)

	dir := gittest.NewRepoPath(t)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	r := New(dir, opts...)

	res, err := r.Run(context.Background(), []string{"init", "--quiet"})
	require.NoError(t, err)
	require.True(t, res.Success(), string(res.Stderr))
	return r, dir
}

func TestRunInit(t *testing.T) {
	r, dir := setupRunner(t)
	assert.Equal(t, dir, r.RepoPath())

	res, err := r.Run(context.Background(), []string{"ls-files"})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Empty(t, res.Output())
	assert.Equal(t, []string{"ls-files"}, res.Args)
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	r, _ := setupRunner(t)

	res, err := r.Run(context.Background(), []string{"rev-parse", "--verify", "--quiet", "refs/tags/missing"})
	require.NoError(t, err)
	assert.False(t, res.Success())
	assert.Equal(t, 1, res.ExitCode)

	var exitErr *ExitError
	require.True(t, errors.As(res.Err(), &exitErr))
	assert.Equal(t, "rev-parse", exitErr.Command)
	assert.Equal(t, 1, exitErr.ExitCode)
}

func TestRunWithStdin(t *testing.T) {
	r, dir := setupRunner(t)
	payload := []byte("hello, 'world'; $(rm -rf /)")

	res, err := r.Run(context.Background(), []string{"hash-object", "--stdin", "-w"}, WithInput(payload))
	require.NoError(t, err)
	require.True(t, res.Success())

	id := res.Output()
	assert.Equal(t, gittest.HashObject(t, payload), id)
	assert.True(t, gittest.ObjectExists(t, dir, id))

	res, err = r.Run(context.Background(), []string{"cat-file", "-p", id})
	require.NoError(t, err)
	require.True(t, res.Success())
	assert.Equal(t, payload, res.Stdout)

	res, err = r.Run(context.Background(), []string{"hash-object", "--stdin", "-w"}, WithStdin(bytes.NewReader(payload)))
	require.NoError(t, err)
	assert.Equal(t, id, res.Output())
}

func TestRunLines(t *testing.T) {
	r, dir := setupRunner(t)
	id := gittest.WriteObject(t, dir, []byte("v"))

	for _, tag := range []string{"b", "a", "c/d"} {
		res, err := r.Run(context.Background(), []string{"tag", "-f", "--", tag, id})
		require.NoError(t, err)
		require.True(t, res.Success(), string(res.Stderr))
	}

	res, err := r.Run(context.Background(), []string{"tag", "-l"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c/d"}, res.Lines())
}

func TestRunMissingBinary(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, Binary(filepath.Join(dir, "no-such-git")))

	_, err := r.Run(context.Background(), []string{"ls-files"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEngineExecution))
}

func TestRunMaxOutput(t *testing.T) {
	r, dir := setupRunner(t, MaxOutput(1024))
	id := gittest.WriteObject(t, dir, bytes.Repeat([]byte("x"), 4096))

	_, err := r.Run(context.Background(), []string{"cat-file", "-p", id})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutputTooLarge))

	small := gittest.WriteObject(t, dir, []byte("small"))
	res, err := r.Run(context.Background(), []string{"cat-file", "-p", small})
	require.NoError(t, err)
	assert.Equal(t, "small", string(res.Stdout))
}

func TestRunTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a posix shell")
	}
	dir := t.TempDir()
	slowGit := filepath.Join(dir, "slow-git")
	require.NoError(t, os.WriteFile(slowGit, []byte("#!/bin/sh\nexec sleep 10\n"), 0o700))

	r := New(dir, Binary(slowGit), Timeout(100*time.Millisecond))
	start := time.Now()
	_, err := r.Run(context.Background(), []string{"ls-files"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunCanceled(t *testing.T) {
	r, _ := setupRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, []string{"ls-files"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEngineExecution))
}

func TestRunIgnoresAmbientRepository(t *testing.T) {
	r, _ := setupRunner(t)
	other := gittest.NewRepoPath(t)
	gittest.InitRepo(t, other)

	t.Setenv("GIT_DIR", other)
	t.Setenv("GIT_INDEX_FILE", filepath.Join(other, "bogus-index"))
	id := gittest.WriteObject(t, other, []byte("elsewhere"))

	res, err := r.Run(context.Background(), []string{"cat-file", "-e", id})
	require.NoError(t, err)
	assert.False(t, res.Success(), "the runner must not look into the repository designated by the environment")
}

func TestHermeticEnv(t *testing.T) {
	env := hermeticEnv([]string{"HOME=/root", "GIT_DIR=/elsewhere", "GIT_WORK_TREE=/tmp", "LC_ALL=fr_FR", "GIT_AUTHOR_NAME=x"})
	joined := strings.Join(env, "\n")

	assert.Contains(t, joined, "HOME=/root")
	assert.Contains(t, joined, "GIT_AUTHOR_NAME=x")
	assert.NotContains(t, joined, "GIT_DIR=")
	assert.NotContains(t, joined, "GIT_WORK_TREE=")
	assert.NotContains(t, joined, "fr_FR")
	assert.Contains(t, env, "GIT_TERMINAL_PROMPT=0")
	assert.Contains(t, env, "LC_ALL=C")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	again, err := NewMetrics(reg)
	require.NoError(t, err, "collectors may be shared by several runners")

	r, _ := setupRunner(t, WithMetrics(m))
	_, err = r.Run(context.Background(), []string{"rev-parse", "--verify", "--quiet", "refs/tags/missing"})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.commands.WithLabelValues("init", outcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(again.commands.WithLabelValues("rev-parse", outcomeFailure)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestCappedBuffer(t *testing.T) {
	b := &cappedBuffer{limit: 4}
	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, b.overflow)

	n, err = b.Write([]byte("def"))
	require.NoError(t, err)
	assert.Equal(t, 3, n, "overflowing writes are drained")
	assert.True(t, b.overflow)
	assert.Equal(t, "abcd", string(b.Bytes()))

	unlimited := &cappedBuffer{}
	_, _ = unlimited.Write(bytes.Repeat([]byte("z"), 1<<16))
	assert.False(t, unlimited.overflow)
}

func TestSubcommand(t *testing.T) {
	assert.Equal(t, "tag", subcommand([]string{"tag", "-d", "--", "k"}))
	assert.Equal(t, "init", subcommand([]string{"--bare", "init"}))
	assert.Equal(t, "unknown", subcommand(nil))
}
