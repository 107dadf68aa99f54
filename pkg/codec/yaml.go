// Copyright © 2018 One Concern

package codec

import (
	"gopkg.in/yaml.v2"
)

type yamlCodec struct{}

func (yamlCodec) Name() string {
	return NameYAML
}

func (yamlCodec) Encode(v Value) ([]byte, error) {
	env, err := wrap(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(env)
}

func (yamlCodec) Decode(data []byte) (Value, error) {
	if isBlank(data) {
		return nil, nil
	}
	var env envelope
	if err := yaml.UnmarshalStrict(data, &env); err != nil {
		return nil, ErrDecode.Wrap(err)
	}
	return unwrap(&env)
}
