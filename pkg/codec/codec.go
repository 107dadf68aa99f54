// Copyright © 2018 One Concern

// Package codec serializes values to the bytes stored in git blobs.
//
// Values are restricted to a closed set of shapes: nil, booleans, strings,
// byte slices, sized integers and floats, sequences and string-keyed
// mappings, nested at will. Every node is written with an explicit type tag
// and its scalar payload as text, so that:
//
//	Decode(Encode(v)) == v
//
// holds exactly for all canonical values, whatever the wire format.
// Sequences decode as []interface{} and mappings as map[string]interface{}.
//
// Two wire formats are provided: JSON (the default) and YAML.
package codec

import (
	"bytes"
	"fmt"

	"github.com/oneconcern/gitkv/pkg/errors"
)

const (
	// FormatVersion is written in every envelope
	FormatVersion = 1

	// NameJSON designates the JSON codec
	NameJSON = "json"

	// NameYAML designates the YAML codec
	NameYAML = "yaml"
)

var (
	// ErrDecode indicates stored bytes which cannot be deserialized
	ErrDecode = errors.New("cannot decode value")

	// ErrUnsupportedValue indicates a value which has no tagged representation
	ErrUnsupportedValue = errors.New("unsupported value")

	// ErrUnknownCodec indicates a codec name which is not registered
	ErrUnknownCodec = errors.New("unknown codec")
)

// Value is anything the codec knows how to represent
type Value = interface{}

// Codec converts values to and from bytes
type Codec interface {
	Name() string
	Encode(Value) ([]byte, error)
	Decode([]byte) (Value, error)
}

var (
	// JSON codec, based on json-iterator
	JSON Codec = jsonCodec{}

	// YAML codec
	YAML Codec = yamlCodec{}
)

// New codec by name. An empty name selects JSON.
func New(name string) (Codec, error) {
	switch name {
	case "", NameJSON:
		return JSON, nil
	case NameYAML:
		return YAML, nil
	default:
		return nil, ErrUnknownCodec.Wrap(fmt.Errorf("%q (expected %q or %q)", name, NameJSON, NameYAML))
	}
}

// envelope is the document stored in a blob
type envelope struct {
	Version int   `json:"version" yaml:"version"`
	Data    *node `json:"data" yaml:"data"`
}

func wrap(v Value) (*envelope, error) {
	n, err := fromNative(v)
	if err != nil {
		return nil, err
	}
	return &envelope{Version: FormatVersion, Data: n}, nil
}

func unwrap(env *envelope) (Value, error) {
	if env.Version != FormatVersion {
		return nil, ErrDecode.Wrap(fmt.Errorf("unsupported format version %d", env.Version))
	}
	if env.Data == nil {
		return nil, ErrDecode.Wrap(fmt.Errorf("missing data"))
	}
	return env.Data.toNative()
}

// isBlank tells if there is nothing to decode
func isBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}
