// Copyright © 2018 One Concern

package git

import (
	"go.uber.org/zap"
)

// Option for the git object store
type Option func(*gitStore)

// Logger for the git object store
func Logger(l *zap.Logger) Option {
	return func(s *gitStore) {
		if l != nil {
			s.l = l
		}
	}
}

// MaxObjectSize limits the size of objects written to the store. A zero value disables the limit.
func MaxObjectSize(n int64) Option {
	return func(s *gitStore) {
		if n >= 0 {
			s.maxObjectSize = n
		}
	}
}
