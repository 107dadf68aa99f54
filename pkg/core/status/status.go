// Copyright © 2018 One Concern

// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/gitkv/pkg/errors"
)

var (
	// ErrRepository indicates that the store path exists but does not hold a usable repository
	ErrRepository = errors.New("not a git repository")

	// ErrEncode indicates that a value could not be serialized for storage
	ErrEncode = errors.New("cannot store value")

	// ErrCorrupted indicates that a stored object could not be read back as a value
	ErrCorrupted = errors.New("cannot read stored value")
)
