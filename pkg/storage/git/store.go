// Copyright © 2018 One Concern

// Package git implements the object store on top of the git command line.
//
// Objects are git blobs and pointers are lightweight tags:
//
//	Init          git init --quiet
//	Check         git ls-files
//	Resolve       git rev-parse --verify --quiet refs/tags/<key>
//	ReadObject    git cat-file -p <id>
//	WriteObject   git hash-object --stdin -w
//	SetPointer    git tag -f -- <key> <id>
//	DeletePointer git tag -d -- <key>
//	ListPointers  git tag -l
package git

import (
	"context"
	"fmt"

	"github.com/docker/go-units"
	"github.com/oneconcern/gitkv/pkg/gitcmd"
	"github.com/oneconcern/gitkv/pkg/storage"
	"github.com/oneconcern/gitkv/pkg/storage/status"
	"go.uber.org/zap"
)

const tagPrefix = "refs/tags/"

var _ storage.ObjectStore = &gitStore{}

type gitStore struct {
	path          string
	exec          gitcmd.Executor
	maxObjectSize int64
	l             *zap.Logger
}

// New object store over the git repository at path, with commands run by exec
func New(path string, exec gitcmd.Executor, opts ...Option) storage.ObjectStore {
	s := &gitStore{
		path: path,
		exec: exec,
		l:    zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	s.l = s.l.With(zap.String("repo", path))
	return s
}

func (s *gitStore) String() string {
	return "git@" + s.path
}

func (s *gitStore) Init(ctx context.Context) error {
	_, err := s.mustRun(ctx, []string{"init", "--quiet"})
	if err != nil {
		return err
	}
	s.l.Info("initialized repository")
	return nil
}

func (s *gitStore) Check(ctx context.Context) (bool, error) {
	res, err := s.exec.Run(ctx, []string{"ls-files"})
	if err != nil {
		return false, err
	}
	return res.Success(), nil
}

func (s *gitStore) Resolve(ctx context.Context, key string) (string, bool, error) {
	res, err := s.exec.Run(ctx, []string{"rev-parse", "--verify", "--quiet", tagPrefix + key})
	if err != nil {
		return "", false, err
	}
	if !res.Success() {
		return "", false, nil
	}
	id := res.Output()
	if !IsObjectID(id) {
		return "", false, status.ErrInvalidObjectID.Wrap(fmt.Errorf("tag %q resolves to %q", key, id))
	}
	return id, true, nil
}

func (s *gitStore) ReadObject(ctx context.Context, id string) ([]byte, error) {
	if !IsObjectID(id) {
		return nil, status.ErrInvalidObjectID.Wrap(fmt.Errorf("cannot read %q", id))
	}
	res, err := s.mustRun(ctx, []string{"cat-file", "-p", id})
	if err != nil {
		return nil, err
	}
	return res.Stdout, nil
}

func (s *gitStore) WriteObject(ctx context.Context, data []byte) (string, error) {
	if s.maxObjectSize > 0 && int64(len(data)) > s.maxObjectSize {
		return "", status.ErrObjectTooBig.Wrap(
			fmt.Errorf("%s exceeds the limit of %s",
				units.BytesSize(float64(len(data))), units.BytesSize(float64(s.maxObjectSize))),
		)
	}
	res, err := s.mustRun(ctx, []string{"hash-object", "--stdin", "-w"}, gitcmd.WithInput(data))
	if err != nil {
		return "", err
	}
	id := res.Output()
	if !IsObjectID(id) {
		return "", status.ErrEngineFailure.Wrap(fmt.Errorf("hash-object returned %q instead of an object id", id))
	}
	s.l.Debug("wrote object", zap.String("id", id), zap.Int("size", len(data)))
	return id, nil
}

func (s *gitStore) SetPointer(ctx context.Context, key, id string) error {
	if !IsObjectID(id) {
		return status.ErrInvalidObjectID.Wrap(fmt.Errorf("cannot tag %q with %q", key, id))
	}
	_, err := s.mustRun(ctx, []string{"tag", "-f", "--", key, id})
	return err
}

func (s *gitStore) DeletePointer(ctx context.Context, key string) (bool, error) {
	res, err := s.exec.Run(ctx, []string{"tag", "-d", "--", key})
	if err != nil {
		return false, err
	}
	return res.Success(), nil
}

func (s *gitStore) ListPointers(ctx context.Context) ([]string, error) {
	res, err := s.mustRun(ctx, []string{"tag", "-l"})
	if err != nil {
		return nil, err
	}
	return res.Lines(), nil
}

// mustRun fails with ErrEngineFailure when git exits with a non-zero status
func (s *gitStore) mustRun(ctx context.Context, args []string, opts ...gitcmd.RunOption) (*gitcmd.Result, error) {
	res, err := s.exec.Run(ctx, args, opts...)
	if err != nil {
		return nil, err
	}
	if exitErr := res.Err(); exitErr != nil {
		s.l.Warn("git command failed", zap.Strings("args", args), zap.Error(exitErr))
		return nil, status.ErrEngineFailure.Wrap(exitErr)
	}
	return res, nil
}

// IsObjectID tells if id looks like a full SHA-1 or SHA-256 object name
func IsObjectID(id string) bool {
	if len(id) != 40 && len(id) != 64 {
		return false
	}
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
