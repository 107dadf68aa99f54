// Copyright © 2018 One Concern

// Package keys validates the names under which values are stored.
//
// A key becomes the name of a git tag, so it has to be a valid ref name.
package keys

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oneconcern/gitkv/pkg/errors"
)

// ErrInvalidKey indicates a key which cannot be used as a tag name
var ErrInvalidKey = errors.New("invalid key")

var invalidKeyRe = regexp.MustCompile(strings.Join([]string{
	`[\s^~:?*\[\\\x00-\x1f\x7f]`, // whitespace, control characters and ref-name metacharacters
	`\.\.`,
	`@\{`,
	`^$`,
	`^@$`,
	`^[-./]`,  // options, hidden and absolute names
	`//`,      // empty path components
	`/\.`,     // hidden path components
	`\.lock/`, // lock files in the middle of a hierarchy
	`(?:/|\.|\.lock)$`,
}, "|"))

// IsValid tells if a key may be stored
func IsValid(key string) bool {
	return !invalidKeyRe.MatchString(key)
}

// Validate returns an error wrapping ErrInvalidKey when the key may not be stored
func Validate(key string) error {
	if IsValid(key) {
		return nil
	}
	return ErrInvalidKey.Wrap(fmt.Errorf("%q is not a valid tag name", key))
}
