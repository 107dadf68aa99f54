// Copyright © 2018 One Concern

// Package gitcmd runs git against a fixed repository.
//
// Arguments are always passed as a discrete argument vector: nothing is ever
// interpreted by a shell, so keys need no quoting. The repository is bound
// with --git-dir and as the working directory of the child process, and
// environment variables which would redirect git to another repository are
// scrubbed.
package gitcmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/oneconcern/gitkv/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultBinary is the git executable looked up in $PATH
	DefaultBinary = "git"

	// DefaultTimeout bounds a single git invocation
	DefaultTimeout = 30 * time.Second

	// DefaultMaxOutput is the largest stdout accepted from a single invocation
	DefaultMaxOutput = 64 * units.MiB

	maxStderr = 64 * units.KiB
	waitDelay = 2 * time.Second
)

// variables which point git at another repository than the one we are bound to
var scrubbedEnv = []string{
	"GIT_DIR",
	"GIT_WORK_TREE",
	"GIT_INDEX_FILE",
	"GIT_OBJECT_DIRECTORY",
	"GIT_ALTERNATE_OBJECT_DIRECTORIES",
	"GIT_COMMON_DIR",
	"GIT_NAMESPACE",
	"GIT_CEILING_DIRECTORIES",
}

// Executor knows how to run git commands
type Executor interface {
	Run(context.Context, []string, ...RunOption) (*Result, error)
}

var _ Executor = &Runner{}

// Runner executes git subcommands against a single repository
type Runner struct {
	repoPath  string
	binary    string
	timeout   time.Duration
	maxOutput int64
	l         *zap.Logger
	metrics   *Metrics
}

// New runner bound to the git directory at repoPath
func New(repoPath string, opts ...Option) *Runner {
	r := &Runner{
		repoPath:  repoPath,
		binary:    DefaultBinary,
		timeout:   DefaultTimeout,
		maxOutput: DefaultMaxOutput,
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

// RepoPath is the git directory this runner is bound to
func (r *Runner) RepoPath() string {
	return r.repoPath
}

// Run executes "git --git-dir <repo> args..." and waits for it to complete.
//
// An error is returned only when git could not run to completion: it could not be
// started, the deadline elapsed, the context was canceled or the output was too large.
// Otherwise the exit status is reported in the Result.
func (r *Runner) Run(ctx context.Context, args []string, opts ...RunOption) (*Result, error) {
	var settings runSettings
	for _, apply := range opts {
		apply(&settings)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	argv := make([]string, 0, len(args)+2)
	argv = append(argv, "--git-dir", r.repoPath)
	argv = append(argv, args...)

	stdout := &cappedBuffer{limit: r.maxOutput}
	stderr := &cappedBuffer{limit: maxStderr}

	cmd := exec.CommandContext(ctx, r.binary, argv...) // #nosec
	cmd.Dir = r.repoPath
	cmd.Env = hermeticEnv(os.Environ())
	cmd.Stdin = settings.stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	command := subcommand(args)
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.metrics.observe(command, outcomeError, elapsed)
			if ctxErr == context.DeadlineExceeded {
				return nil, ErrTimeout.Wrap(ctxErr)
			}
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			r.metrics.observe(command, outcomeError, elapsed)
			r.l.Error("cannot execute git",
				zap.String("binary", r.binary),
				zap.String("command", command),
				zap.Error(err),
			)
			return nil, ErrEngineExecution.Wrap(err)
		}
	}

	if stdout.overflow {
		r.metrics.observe(command, outcomeError, elapsed)
		return nil, ErrOutputTooLarge.Wrap(
			fmt.Errorf("more than %s on stdout", units.BytesSize(float64(r.maxOutput))),
		)
	}

	res := &Result{
		Args:     args,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	outcome := outcomeSuccess
	if !res.Success() {
		outcome = outcomeFailure
	}
	r.metrics.observe(command, outcome, elapsed)
	r.l.Debug("git",
		zap.String("repo", r.repoPath),
		zap.String("command", command),
		zap.Strings("args", args),
		zap.Int("exit_code", res.ExitCode),
		zap.Int("stdout_bytes", len(res.Stdout)),
		zap.Duration("duration", elapsed),
	)
	return res, nil
}

func hermeticEnv(environ []string) []string {
	env := make([]string, 0, len(environ)+2)
	for _, kv := range environ {
		name := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			name = kv[:i]
		}
		if isScrubbed(name) || name == "GIT_TERMINAL_PROMPT" || name == "LC_ALL" {
			continue
		}
		env = append(env, kv)
	}
	return append(env, "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
}

func isScrubbed(name string) bool {
	for _, scrubbed := range scrubbedEnv {
		if name == scrubbed {
			return true
		}
	}
	return false
}

// cappedBuffer keeps at most limit bytes and silently drains the rest,
// so the child never blocks on a full pipe.
type cappedBuffer struct {
	buf      bytes.Buffer
	limit    int64
	overflow bool
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	if c.limit > 0 {
		room := c.limit - int64(c.buf.Len())
		if int64(len(p)) > room {
			c.overflow = true
			if room > 0 {
				c.buf.Write(p[:room])
			}
			return len(p), nil
		}
	}
	return c.buf.Write(p)
}

func (c *cappedBuffer) Bytes() []byte {
	return c.buf.Bytes()
}
