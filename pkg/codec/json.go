// Copyright © 2018 One Concern

package codec

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.Config{
	SortMapKeys:           true,
	EscapeHTML:            false,
	DisallowUnknownFields: true,
}.Froze()

type jsonCodec struct{}

func (jsonCodec) Name() string {
	return NameJSON
}

func (jsonCodec) Encode(v Value) ([]byte, error) {
	env, err := wrap(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func (jsonCodec) Decode(data []byte) (Value, error) {
	if isBlank(data) {
		return nil, nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrDecode.Wrap(err)
	}
	return unwrap(&env)
}
