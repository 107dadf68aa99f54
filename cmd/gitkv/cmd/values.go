// Copyright © 2018 One Concern

package cmd

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// number is implemented by the decoded representation of JSON numbers
type number interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// parseJSON decodes a JSON document, with integers kept as int64
func parseJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after the JSON document")
	}
	return fromJSON(v)
}

func fromJSON(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	case []interface{}:
		for i, item := range t {
			converted, err := fromJSON(item)
			if err != nil {
				return nil, err
			}
			t[i] = converted
		}
		return t, nil
	case map[string]interface{}:
		for k, item := range t {
			converted, err := fromJSON(item)
			if err != nil {
				return nil, err
			}
			t[k] = converted
		}
		return t, nil
	default:
		return v, nil
	}
}

// parseBatch reads a mapping of keys to values from a YAML or JSON document
func parseBatch(name string, data []byte) (map[string]interface{}, error) {
	var doc interface{}
	var err error
	if strings.EqualFold(filepath.Ext(name), ".json") {
		doc, err = parseJSON(data)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}

	switch m := doc.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		return m, nil
	case map[interface{}]interface{}:
		batch := make(map[string]interface{}, len(m))
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("key %v is not a string", k)
			}
			batch[key] = v
		}
		return batch, nil
	default:
		return nil, fmt.Errorf("expected a mapping of keys to values, got %T", doc)
	}
}

// formatValue renders a value as a single line of JSON.
// NaN and infinite floats have no JSON form and are printed as the strings "NaN", "+Inf" and "-Inf".
func formatValue(v interface{}) (string, error) {
	data, err := json.Marshal(printable(v))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printable(v interface{}) interface{} {
	switch t := v.(type) {
	case float64:
		return nonFinite(t, v)
	case float32:
		return nonFinite(float64(t), v)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = printable(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = printable(item)
		}
		return out
	default:
		return v
	}
}

func nonFinite(f float64, v interface{}) interface{} {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	default:
		return v
	}
}
