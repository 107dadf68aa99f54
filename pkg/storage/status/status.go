// Copyright © 2018 One Concern

// Package status declares error constants returned by
// implementations of the ObjectStore interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/storage and one
// of its implementations.
package status

import "github.com/oneconcern/gitkv/pkg/errors"

var (
	// Sentinel errors returned by implementations of the interface defined by storage

	// ErrEngineFailure indicates that the engine ran but failed an operation which must succeed
	ErrEngineFailure = errors.New("object database operation failed")

	// ErrInvalidObjectID indicates that the engine returned something which is not an object id
	ErrInvalidObjectID = errors.New("invalid object id")

	// ErrObjectTooBig indicates that the object is too big to be handled in memory
	ErrObjectTooBig = errors.New("object too big to be read into memory")
)
