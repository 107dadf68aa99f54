// Copyright © 2018 One Concern

// Package storage describes the object database backing a key-value store.
//
// Values are kept as immutable content-addressed objects, and every key is a
// named pointer (a lightweight git tag) to the object holding its current value.
//
// This package supports the following backends:
//   - git, driven through its command line (see storage/git)
package storage
