// Copyright © 2018 One Concern

/*
Package gitkv provides a key-value store kept in the object database of a git repository.

Every value is serialized and written as a blob, and every key is a lightweight tag
pointing to the blob of its current value. The store is driven through the git
command line, which must be available on the host.

The library lives under pkg/core, and the gitkv command line under cmd/gitkv.
*/
package gitkv
