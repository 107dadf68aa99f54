// Copyright © 2018 One Concern

package rand

import (
	"reflect"
	"testing"

	"github.com/oneconcern/gitkv/pkg/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandLetterBytes(t *testing.T) {
	name := randLetterBytes(20)
	require.Len(t, name, 20)
	for _, b := range name {
		assert.Contains(t, "abcdefghijklmnopqrstuvwxyz0123456789", string(b))
	}
}

func TestKey(t *testing.T) {
	assert.Empty(t, Key(0))
	for i := 1; i < 50; i++ {
		key := Key(i)
		assert.Len(t, key, i)
		assert.True(t, keys.IsValid(key), key)
	}
}

func TestValue(t *testing.T) {
	for i := 0; i < 200; i++ {
		assertShape(t, Value(3), 3)
	}
}

func assertShape(t *testing.T, v interface{}, depth int) {
	switch x := v.(type) {
	case nil, bool, string, int, int64, float64, []byte:
	case []interface{}:
		require.Positive(t, depth)
		for _, item := range x {
			assertShape(t, item, depth-1)
		}
	case map[string]interface{}:
		require.Positive(t, depth)
		for _, item := range x {
			assertShape(t, item, depth-1)
		}
	default:
		t.Fatalf("unexpected value of type %v", reflect.TypeOf(v))
	}
}

func benchmarkRandBytes(b *testing.B, size int) {
	for n := 0; n < b.N; n++ {
		_ = randBytes(size)
	}
}

func BenchmarkRandBytes20(b *testing.B)   { benchmarkRandBytes(b, 20) }
func BenchmarkRandBytes1000(b *testing.B) { benchmarkRandBytes(b, 1000) }

func benchmarkRandLetterBytes(b *testing.B, size int) {
	for n := 0; n < b.N; n++ {
		_ = randLetterBytes(size)
	}
}

func BenchmarkRandLetterBytes20(b *testing.B)   { benchmarkRandLetterBytes(b, 20) }
func BenchmarkRandLetterBytes1000(b *testing.B) { benchmarkRandLetterBytes(b, 1000) }
