// Copyright © 2018 One Concern

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, e3 == e2)
	assert.Equal(t, "dummy: cause2: cause1", e.Error())
}

func TestWrapLeavesSentinelIntact(t *testing.T) {
	sentinel := New("engine failure")
	wrapped := sentinel.Wrap(fmt.Errorf("exit status 128"))

	assert.True(t, Is(wrapped, sentinel))
	assert.Nil(t, sentinel.Unwrap())
	assert.Equal(t, "engine failure", sentinel.Error())
	assert.Equal(t, "engine failure: exit status 128", wrapped.Error())

	rewrapped := wrapped.Wrap(fmt.Errorf("other"))
	assert.True(t, Is(rewrapped, sentinel))
	assert.False(t, Is(rewrapped, New("engine failure")))
}

func TestAsThroughFmt(t *testing.T) {
	sentinel := New("decode")
	err := fmt.Errorf("reading key %q: %w", "k", sentinel.Wrap(fmt.Errorf("bad token")))

	require.True(t, Is(err, sentinel))
	var target *Error
	require.True(t, As(err, &target))
	assert.Equal(t, "decode: bad token", target.Error())
}
