// Copyright © 2018 One Concern

// Package rand generates random keys and values for tests.
package rand

import (
	"bytes"
	"math/rand"
	"sync"
	"time"
)

// Bytes returns a random slice of bytes
func Bytes(n int) []byte {
	return randBytes(n)
}

// LetterBytes returns a random slice of bytes picked in the [0-9]|[a-z] range
func LetterBytes(n int) []byte {
	return randLetterBytes(n)
}

// LetterString returns a random string picked in the [0-9]|[a-z] range
func LetterString(n int) string {
	return string(randLetterBytes(n))
}

// Key returns a random valid key of length n, always starting with a letter
func Key(n int) string {
	if n <= 0 {
		return ""
	}
	key := randLetterBytes(n)
	key[0] = 'k'
	return string(key)
}

// Value returns a random value of the shapes a store accepts, nested at most depth levels
func Value(depth int) interface{} {
	kinds := 7
	if depth > 0 {
		kinds = 9
	}
	switch intn(kinds) {
	case 0:
		return nil
	case 1:
		return intn(2) == 1
	case 2:
		return LetterString(intn(16))
	case 3:
		return intn(1 << 20)
	case 4:
		return int64(intn(1<<30)) - 1<<29
	case 5:
		return float64(intn(1<<20)) / 64
	case 6:
		return Bytes(intn(16))
	case 7:
		list := make([]interface{}, intn(4))
		for i := range list {
			list[i] = Value(depth - 1)
		}
		return list
	default:
		m := make(map[string]interface{}, 4)
		for i := intn(4); i > 0; i-- {
			m[LetterString(1+intn(8))] = Value(depth - 1)
		}
		return m
	}
}

var (
	onceSource  sync.Once
	rgen        *rand.Rand
	onceLetters sync.Once
	randMutex   sync.Mutex
)

func seed() {
	src := rand.NewSource(time.Now().UnixNano())
	rgen = rand.New(src) // #nosec
}

func intn(n int) int {
	onceSource.Do(seed)
	randMutex.Lock()
	defer randMutex.Unlock()
	return rgen.Intn(n)
}

func randBytes(n int) []byte {
	onceSource.Do(seed)
	buf := make([]byte, n)
	randMutex.Lock() // the mutex doesn't add any significant time
	_, _ = rgen.Read(buf)
	randMutex.Unlock()
	return buf
}

var letters []byte

func makeLetters() {
	// adds "a" to pad over 256 locations (0-9 U a-z makes up to 252 only and we want to cover the range of uint8)
	// so "a" is slightly more frequent than other signs
	letters = bytes.Repeat([]byte("abcdefghijklmnopqrstuvwxyz0123456789a"), 7)
}

func randLetterBytes(n int) []byte {
	onceLetters.Do(makeLetters)
	buf := randBytes(n)
	for i, b := range buf {
		buf[i] = letters[b]
	}
	return buf
}
