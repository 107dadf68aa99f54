// Copyright © 2018 One Concern

package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oneconcern/gitkv/pkg/codec"
	"github.com/oneconcern/gitkv/pkg/core/status"
	"github.com/oneconcern/gitkv/pkg/gitcmd"
	"github.com/oneconcern/gitkv/pkg/keys"
	"github.com/oneconcern/gitkv/pkg/storage"
	"github.com/oneconcern/gitkv/pkg/storage/git"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Value stored under a key
type Value = codec.Value

// Store is a key-value store backed by a git object database.
//
// Each value is kept as a blob and each key is a lightweight tag pointing to
// the blob of its current value. Overwritten values remain in the object
// database as unreferenced blobs.
//
// A Store holds no mutable state and may be shared by goroutines. Concurrent
// writers to the same key rely on git's ref locking only.
type Store struct {
	path    string
	objects storage.ObjectStore
	codec   codec.Codec
	l       *zap.Logger
}

// New store at path. The repository is created when path does not exist.
//
// An existing path must be a directory holding a git repository, or ErrRepository is returned.
func New(ctx context.Context, path string, opts ...Option) (*Store, error) {
	settings := defaultSettings()
	for _, apply := range opts {
		apply(&settings)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve store path %q: %w", path, err)
	}
	l := settings.l.With(zap.String("repo", abs))

	objects := settings.objects
	if objects == nil {
		objects, err = gitObjects(abs, settings)
		if err != nil {
			return nil, err
		}
	}
	if settings.tracer != nil {
		objects = storage.Instrument(settings.tracer, l, objects)
	}

	fi, err := settings.fs.Stat(abs)
	switch {
	case os.IsNotExist(err):
		if err = settings.fs.MkdirAll(abs, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create store directory: %w", err)
		}
		if err = objects.Init(ctx); err != nil {
			return nil, err
		}
		l.Info("created repository")
	case err != nil:
		return nil, status.ErrRepository.Wrap(err)
	case !fi.IsDir():
		return nil, status.ErrRepository.Wrap(fmt.Errorf("%s is not a directory", abs))
	default:
		ok, err := objects.Check(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, status.ErrRepository.Wrap(fmt.Errorf("%s is not a git repository", abs))
		}
	}

	return &Store{
		path:    abs,
		objects: objects,
		codec:   settings.codec,
		l:       l,
	}, nil
}

func gitObjects(path string, settings Settings) (storage.ObjectStore, error) {
	runnerOpts := []gitcmd.Option{
		gitcmd.Binary(settings.gitBinary),
		gitcmd.Timeout(settings.timeout),
		gitcmd.MaxOutput(settings.maxObjectSize),
		gitcmd.Logger(settings.l),
	}
	if settings.registerer != nil {
		m, err := gitcmd.NewMetrics(settings.registerer)
		if err != nil {
			return nil, err
		}
		runnerOpts = append(runnerOpts, gitcmd.WithMetrics(m))
	}
	return git.New(path, gitcmd.New(path, runnerOpts...),
		git.Logger(settings.l),
		git.MaxObjectSize(settings.maxObjectSize),
	), nil
}

// Path of the repository
func (s *Store) Path() string {
	return s.path
}

func (s *Store) String() string {
	return "gitkv(" + s.path + ")"
}

// Get values.
//
// With no key, Get returns nil. With a single key, it returns the bare value,
// or nil when the key is absent. With several keys, it returns a []Value
// matching the order of keys, with nil for every absent key.
func (s *Store) Get(ctx context.Context, keys ...string) (interface{}, error) {
	switch len(keys) {
	case 0:
		return nil, nil
	case 1:
		v, _, err := s.GetOne(ctx, keys[0])
		return v, err
	default:
		values, err := s.GetMany(ctx, keys...)
		if err != nil {
			return nil, err
		}
		return values, nil
	}
}

// GetOne value. found tells an absent key from a stored nil.
func (s *Store) GetOne(ctx context.Context, key string) (Value, bool, error) {
	id, found, err := s.objects.Resolve(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	data, err := s.objects.ReadObject(ctx, id)
	if err != nil {
		return nil, false, err
	}
	v, err := s.codec.Decode(data)
	if err != nil {
		return nil, false, status.ErrCorrupted.Wrap(fmt.Errorf("key %q (object %s): %w", key, id, err))
	}
	return v, true, nil
}

// GetMany values, in the order of keys. Absent keys yield nil.
func (s *Store) GetMany(ctx context.Context, keys ...string) ([]Value, error) {
	values := make([]Value, 0, len(keys))
	for _, key := range keys {
		v, _, err := s.GetOne(ctx, key)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Set a single value
func (s *Store) Set(ctx context.Context, key string, value Value) error {
	return s.SetAll(ctx, map[string]Value{key: value})
}

// SetAll values, processed in key order.
//
// Whenever a key is not valid, a warning is logged and nothing is stored at all:
// no error is returned in that case. A value which cannot be encoded aborts the
// call before anything is stored too. A failure of git while storing leaves the
// previous keys of the batch stored.
func (s *Store) SetAll(ctx context.Context, values map[string]Value) error {
	names := make([]string, 0, len(values))
	for key := range values {
		names = append(names, key)
	}
	sort.Strings(names)

	for _, key := range names {
		if err := keys.Validate(key); err != nil {
			s.l.Warn("invalid key: nothing stored", zap.String("key", key), zap.Int("batch", len(names)))
			return nil
		}
	}

	blobs := make([][]byte, len(names))
	for i, key := range names {
		data, err := s.codec.Encode(values[key])
		if err != nil {
			return status.ErrEncode.Wrap(fmt.Errorf("key %q: %w", key, err))
		}
		blobs[i] = data
	}

	for i, key := range names {
		if err := s.put(ctx, key, blobs[i]); err != nil {
			return fmt.Errorf("cannot set key %q: %w", key, err)
		}
	}
	return nil
}

func (s *Store) put(ctx context.Context, key string, data []byte) error {
	id, err := s.objects.WriteObject(ctx, data)
	if err != nil {
		return err
	}
	previous, found, err := s.objects.Resolve(ctx, key)
	if err != nil {
		return err
	}
	if found {
		if _, err = s.objects.DeletePointer(ctx, key); err != nil {
			return err
		}
	}
	if err = s.objects.SetPointer(ctx, key, id); err != nil {
		return err
	}
	s.l.Debug("set key", zap.String("key", key), zap.String("id", id), zap.String("previous", previous))
	return nil
}

// Delete keys. It returns true only when every key existed and was removed.
//
// Absent keys are skipped. Every key is attempted even when some fail, and
// failures are reported together.
func (s *Store) Delete(ctx context.Context, keys ...string) (bool, error) {
	removed := true
	var errs error
	for _, key := range keys {
		ok, err := s.deleteOne(ctx, key)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("cannot delete key %q: %w", key, err))
		}
		if !ok {
			removed = false
		}
	}
	return removed && errs == nil, errs
}

func (s *Store) deleteOne(ctx context.Context, key string) (bool, error) {
	_, found, err := s.objects.Resolve(ctx, key)
	if err != nil || !found {
		return false, err
	}
	deleted, err := s.objects.DeletePointer(ctx, key)
	if err != nil {
		return false, err
	}
	if !deleted {
		s.l.Debug("key vanished before deletion", zap.String("key", key))
	}
	return deleted, nil
}

// Keys currently stored, in the order git lists them
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	pointers, err := s.objects.ListPointers(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(pointers))
	for _, pointer := range pointers {
		if name := strings.TrimSpace(pointer); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
