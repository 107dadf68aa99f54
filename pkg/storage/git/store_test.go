// Copyright © 2018 One Concern

package git

import (
	"context"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/oneconcern/gitkv/internal/gittest"
	"github.com/oneconcern/gitkv/pkg/errors"
	"github.com/oneconcern/gitkv/pkg/gitcmd"
	"github.com/oneconcern/gitkv/pkg/storage"
	"github.com/oneconcern/gitkv/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emptyBlob = "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"

func setupStore(t *testing.T, opts ...Option) (storage.ObjectStore, string) {
	t.Helper()
	gittest.RequireGit(t)

	dir := gittest.NewRepoPath(t)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	s := New(dir, gitcmd.New(dir), opts...)
	require.NoError(t, s.Init(context.Background()))
	return s, dir
}

func TestInitAndCheck(t *testing.T) {
	s, dir := setupStore(t)
	assert.Equal(t, "git@"+dir, s.String())

	ok, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckPlainDirectory(t *testing.T) {
	gittest.RequireGit(t)
	dir := t.TempDir()

	s := New(dir, gitcmd.New(dir))
	ok, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteAndReadObject(t *testing.T) {
	s, dir := setupStore(t)
	ctx := context.Background()
	data := []byte("this is the text\n\x00with a nul byte")

	id, err := s.WriteObject(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, gittest.HashObject(t, data), id)
	assert.True(t, gittest.ObjectExists(t, dir, id))

	back, err := s.ReadObject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, back)

	again, err := s.WriteObject(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, id, again, "identical content is stored once")
}

func TestWriteEmptyObject(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	id, err := s.WriteObject(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, emptyBlob, id)

	back, err := s.ReadObject(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, back)
}

func TestWriteObjectTooBig(t *testing.T) {
	s, _ := setupStore(t, MaxObjectSize(8))

	_, err := s.WriteObject(context.Background(), []byte("more than eight bytes"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrObjectTooBig))
}

func TestReadObjectErrors(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.ReadObject(ctx, "--batch")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidObjectID))

	_, err = s.ReadObject(ctx, strings.Repeat("ab", 20))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrEngineFailure))

	var exitErr *gitcmd.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, "cat-file", exitErr.Command)
	assert.NotZero(t, exitErr.ExitCode)
}

func TestPointers(t *testing.T) {
	s, dir := setupStore(t)
	ctx := context.Background()

	_, found, err := s.Resolve(ctx, "greeting")
	require.NoError(t, err)
	assert.False(t, found)

	id, err := s.WriteObject(ctx, []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, s.SetPointer(ctx, "greeting", id))
	require.NoError(t, s.SetPointer(ctx, "greeting", id), "setting the same pointer twice is a no-op")

	resolved, found, err := s.Resolve(ctx, "greeting")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, resolved)

	target, ok := gittest.TagTarget(t, dir, "greeting")
	require.True(t, ok)
	assert.Equal(t, id, target)

	other, err := s.WriteObject(ctx, []byte("bye"))
	require.NoError(t, err)
	require.NoError(t, s.SetPointer(ctx, "greeting", other))
	resolved, _, err = s.Resolve(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, other, resolved)

	deleted, err := s.DeletePointer(ctx, "greeting")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeletePointer(ctx, "greeting")
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.Empty(t, gittest.Tags(t, dir))
	assert.True(t, gittest.ObjectExists(t, dir, id), "objects outlive their pointers")
}

func TestListPointers(t *testing.T) {
	s, dir := setupStore(t)
	ctx := context.Background()

	keys, err := s.ListPointers(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	id := gittest.WriteObject(t, dir, []byte("value"))
	names := []string{"b", "a", "nested/key", "$(id)", "a;b", "'q'"}
	for _, name := range names {
		require.NoError(t, s.SetPointer(ctx, name, id))
	}

	keys, err = s.ListPointers(ctx)
	require.NoError(t, err)
	sort.Strings(names)
	sort.Strings(keys)
	assert.Equal(t, names, keys)
	assert.ElementsMatch(t, names, gittest.Tags(t, dir))
}

func TestSetPointerErrors(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	err := s.SetPointer(ctx, "key", "HEAD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidObjectID))

	err = s.SetPointer(ctx, "key", strings.Repeat("0", 39)+"1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrEngineFailure))

	_, found, err := s.Resolve(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)
}

// executorFunc runs a canned function in place of git
type executorFunc func(context.Context, []string) (*gitcmd.Result, error)

func (f executorFunc) Run(ctx context.Context, args []string, _ ...gitcmd.RunOption) (*gitcmd.Result, error) {
	return f(ctx, args)
}

func TestEngineErrorsPropagate(t *testing.T) {
	s := New("/nowhere", executorFunc(func(context.Context, []string) (*gitcmd.Result, error) {
		return nil, gitcmd.ErrEngineExecution.Wrap(os.ErrNotExist)
	}))
	ctx := context.Background()

	_, err := s.Check(ctx)
	assert.True(t, errors.Is(err, gitcmd.ErrEngineExecution))
	_, _, err = s.Resolve(ctx, "k")
	assert.True(t, errors.Is(err, gitcmd.ErrEngineExecution))
	_, err = s.DeletePointer(ctx, "k")
	assert.True(t, errors.Is(err, gitcmd.ErrEngineExecution))
	_, err = s.ListPointers(ctx)
	assert.True(t, errors.Is(err, gitcmd.ErrEngineExecution))
	err = s.Init(ctx)
	assert.True(t, errors.Is(err, gitcmd.ErrEngineExecution))
}

func TestUnexpectedEngineOutput(t *testing.T) {
	s := New("/nowhere", executorFunc(func(_ context.Context, args []string) (*gitcmd.Result, error) {
		return &gitcmd.Result{Args: args, Stdout: []byte("\n")}, nil
	}))
	ctx := context.Background()

	_, err := s.WriteObject(ctx, []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrEngineFailure))

	_, _, err = s.Resolve(ctx, "k")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidObjectID))
}

func TestInitFailure(t *testing.T) {
	s := New("/nowhere", executorFunc(func(_ context.Context, args []string) (*gitcmd.Result, error) {
		return &gitcmd.Result{Args: args, ExitCode: 128, Stderr: []byte("fatal: cannot mkdir")}, nil
	}))

	err := s.Init(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrEngineFailure))
	assert.Contains(t, err.Error(), "fatal: cannot mkdir")
}

func TestIsObjectID(t *testing.T) {
	assert.True(t, IsObjectID(emptyBlob))
	assert.True(t, IsObjectID(strings.Repeat("f", 64)))
	assert.False(t, IsObjectID(""))
	assert.False(t, IsObjectID(strings.ToUpper(emptyBlob)))
	assert.False(t, IsObjectID(emptyBlob[:39]))
	assert.False(t, IsObjectID("-"+emptyBlob[1:]))
}
