// Copyright © 2018 One Concern

package codec

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"
)

type tag string

// type tags
const (
	tagNull    tag = "null"
	tagBool    tag = "bool"
	tagString  tag = "string"
	tagBinary  tag = "binary" // a string which is not valid UTF-8, as base64
	tagBytes   tag = "bytes"
	tagInt     tag = "int"
	tagInt8    tag = "int8"
	tagInt16   tag = "int16"
	tagInt32   tag = "int32"
	tagInt64   tag = "int64"
	tagUint    tag = "uint"
	tagUint8   tag = "uint8"
	tagUint16  tag = "uint16"
	tagUint32  tag = "uint32"
	tagUint64  tag = "uint64"
	tagFloat32 tag = "float32"
	tagFloat64 tag = "float64"
	tagList    tag = "list"
	tagMap     tag = "map"
)

// node is the tagged representation of a value
type node struct {
	Tag     tag              `json:"t" yaml:"t"`
	Scalar  string           `json:"v,omitempty" yaml:"v,omitempty"`
	Items   []*node          `json:"l,omitempty" yaml:"l,omitempty"`
	Entries map[string]*node `json:"m,omitempty" yaml:"m,omitempty"`
}

func fromNative(v Value) (*node, error) {
	switch t := v.(type) {
	case nil:
		return &node{Tag: tagNull}, nil
	case bool:
		return &node{Tag: tagBool, Scalar: strconv.FormatBool(t)}, nil
	case string:
		return stringNode(t), nil
	case []byte:
		return &node{Tag: tagBytes, Scalar: base64.StdEncoding.EncodeToString(t)}, nil
	}
	e := &encoder{seen: make(map[visit]struct{})}
	return e.fromReflect(reflect.ValueOf(v))
}

func stringNode(s string) *node {
	if !utf8.ValidString(s) {
		return &node{Tag: tagBinary, Scalar: base64.StdEncoding.EncodeToString([]byte(s))}
	}
	return &node{Tag: tagString, Scalar: s}
}

// visit identifies a pointer, map or slice on the path being encoded
type visit struct {
	kind reflect.Kind
	ptr  uintptr
	len  int
}

// encoder walks a value and keeps track of the containers it is inside of,
// so that self-referencing values are rejected
type encoder struct {
	seen map[visit]struct{}
}

func (e *encoder) enter(rv reflect.Value) (func(), error) {
	v := visit{kind: rv.Kind(), ptr: rv.Pointer()}
	if v.kind == reflect.Slice {
		v.len = rv.Len()
	}
	if _, cyclic := e.seen[v]; cyclic {
		return nil, ErrUnsupportedValue.Wrap(fmt.Errorf("cannot encode a cyclic value of type %v", rv.Type()))
	}
	e.seen[v] = struct{}{}
	return func() { delete(e.seen, v) }, nil
}

func (e *encoder) fromReflect(rv reflect.Value) (*node, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return &node{Tag: tagNull}, nil
	case reflect.Interface:
		if rv.IsNil() {
			return &node{Tag: tagNull}, nil
		}
		return e.fromReflect(rv.Elem())
	case reflect.Ptr:
		if rv.IsNil() {
			return &node{Tag: tagNull}, nil
		}
		leave, err := e.enter(rv)
		if err != nil {
			return nil, err
		}
		defer leave()
		return e.fromReflect(rv.Elem())
	case reflect.Bool:
		return &node{Tag: tagBool, Scalar: strconv.FormatBool(rv.Bool())}, nil
	case reflect.String:
		return stringNode(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &node{Tag: tag(rv.Kind().String()), Scalar: strconv.FormatInt(rv.Int(), 10)}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &node{Tag: tag(rv.Kind().String()), Scalar: strconv.FormatUint(rv.Uint(), 10)}, nil
	case reflect.Float32:
		return &node{Tag: tagFloat32, Scalar: strconv.FormatFloat(rv.Float(), 'g', -1, 32)}, nil
	case reflect.Float64:
		return &node{Tag: tagFloat64, Scalar: strconv.FormatFloat(rv.Float(), 'g', -1, 64)}, nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return &node{Tag: tagBytes, Scalar: base64.StdEncoding.EncodeToString(rv.Bytes())}, nil
		}
		if rv.Len() > 0 {
			leave, err := e.enter(rv)
			if err != nil {
				return nil, err
			}
			defer leave()
		}
		return e.listFromReflect(rv)
	case reflect.Array:
		return e.listFromReflect(rv)
	case reflect.Map:
		if rv.Len() > 0 {
			leave, err := e.enter(rv)
			if err != nil {
				return nil, err
			}
			defer leave()
		}
		return e.mapFromReflect(rv)
	default:
		return nil, ErrUnsupportedValue.Wrap(fmt.Errorf("cannot encode a value of type %v", rv.Type()))
	}
}

func (e *encoder) listFromReflect(rv reflect.Value) (*node, error) {
	n := &node{Tag: tagList, Items: make([]*node, 0, rv.Len())}
	for i := 0; i < rv.Len(); i++ {
		item, err := e.fromReflect(rv.Index(i))
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, item)
	}
	return n, nil
}

func (e *encoder) mapFromReflect(rv reflect.Value) (*node, error) {
	n := &node{Tag: tagMap, Entries: make(map[string]*node, rv.Len())}
	iter := rv.MapRange()
	for iter.Next() {
		key, ok := mapKey(iter.Key())
		if !ok {
			return nil, ErrUnsupportedValue.Wrap(fmt.Errorf("cannot encode a map key of type %v", iter.Key().Type()))
		}
		if !utf8.ValidString(key) {
			return nil, ErrUnsupportedValue.Wrap(fmt.Errorf("map key %q is not valid UTF-8", key))
		}
		if _, dup := n.Entries[key]; dup {
			return nil, ErrUnsupportedValue.Wrap(fmt.Errorf("duplicate map key %q", key))
		}
		entry, err := e.fromReflect(iter.Value())
		if err != nil {
			return nil, err
		}
		n.Entries[key] = entry
	}
	return n, nil
}

// mapKey accepts string keys, including strings held in an interface{} as yaml.v2 produces them
func mapKey(k reflect.Value) (string, bool) {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "", false
		}
		k = k.Elem()
	}
	if k.Kind() != reflect.String {
		return "", false
	}
	return k.String(), true
}

func (n *node) toNative() (Value, error) {
	if n == nil {
		return nil, ErrDecode.Wrap(fmt.Errorf("missing node"))
	}
	switch n.Tag {
	case tagNull:
		return nil, nil
	case tagBool:
		b, err := strconv.ParseBool(n.Scalar)
		return b, n.wrapErr(err)
	case tagString:
		return n.Scalar, nil
	case tagBinary:
		b, err := base64.StdEncoding.DecodeString(n.Scalar)
		return string(b), n.wrapErr(err)
	case tagBytes:
		b, err := base64.StdEncoding.DecodeString(n.Scalar)
		if err != nil {
			return nil, n.wrapErr(err)
		}
		if b == nil {
			b = []byte{}
		}
		return b, nil
	case tagInt, tagInt8, tagInt16, tagInt32, tagInt64:
		return n.toInt()
	case tagUint, tagUint8, tagUint16, tagUint32, tagUint64:
		return n.toUint()
	case tagFloat32:
		f, err := strconv.ParseFloat(n.Scalar, 32)
		return float32(f), n.wrapErr(err)
	case tagFloat64:
		f, err := strconv.ParseFloat(n.Scalar, 64)
		return f, n.wrapErr(err)
	case tagList:
		list := make([]interface{}, 0, len(n.Items))
		for _, item := range n.Items {
			v, err := item.toNative()
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case tagMap:
		m := make(map[string]interface{}, len(n.Entries))
		for _, k := range sortedKeys(n.Entries) {
			v, err := n.Entries[k].toNative()
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil
	default:
		return nil, ErrDecode.Wrap(fmt.Errorf("unknown type tag %q", n.Tag))
	}
}

func (n *node) toInt() (Value, error) {
	bits := map[tag]int{tagInt: strconv.IntSize, tagInt8: 8, tagInt16: 16, tagInt32: 32, tagInt64: 64}[n.Tag]
	i, err := strconv.ParseInt(n.Scalar, 10, bits)
	if err != nil {
		return nil, n.wrapErr(err)
	}
	switch n.Tag {
	case tagInt:
		return int(i), nil
	case tagInt8:
		return int8(i), nil
	case tagInt16:
		return int16(i), nil
	case tagInt32:
		return int32(i), nil
	default:
		return i, nil
	}
}

func (n *node) toUint() (Value, error) {
	bits := map[tag]int{tagUint: strconv.IntSize, tagUint8: 8, tagUint16: 16, tagUint32: 32, tagUint64: 64}[n.Tag]
	u, err := strconv.ParseUint(n.Scalar, 10, bits)
	if err != nil {
		return nil, n.wrapErr(err)
	}
	switch n.Tag {
	case tagUint:
		return uint(u), nil
	case tagUint8:
		return uint8(u), nil
	case tagUint16:
		return uint16(u), nil
	case tagUint32:
		return uint32(u), nil
	default:
		return u, nil
	}
}

func (n *node) wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return ErrDecode.Wrap(fmt.Errorf("invalid %s payload %q: %w", n.Tag, n.Scalar, err))
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
