// Copyright © 2018 One Concern

package storage

import (
	"context"
)

// ObjectStore implementations know how to keep content-addressed objects
// and named pointers to them.
//
// Not found is never an error: Resolve and DeletePointer report it with a boolean.
type ObjectStore interface {
	String() string

	// Init creates an empty object database at the store location
	Init(context.Context) error

	// Check tells if the store location holds a usable object database
	Check(context.Context) (bool, error)

	// Resolve returns the object id a pointer refers to
	Resolve(ctx context.Context, key string) (id string, found bool, err error)

	ReadObject(ctx context.Context, id string) ([]byte, error)
	WriteObject(ctx context.Context, data []byte) (id string, err error)

	// SetPointer creates or moves the pointer named key to id
	SetPointer(ctx context.Context, key, id string) error
	DeletePointer(ctx context.Context, key string) (deleted bool, err error)
	ListPointers(context.Context) ([]string, error)
}
