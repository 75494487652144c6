// Package codec converts field values to and from their wire form.
package codec

import "github.com/samber/lo"

// Codec serializes single hash fields.
// All methods are synchronous and must not perform I/O.
type Codec[V any] interface {
	Serialize(field string, value V) (string, error)
	Deserialize(field string, wire string) (V, error)

	// Reports whether value stands for "no value".
	IsAbsent(value V) bool
}

// IsNil is the default absence check: nil interfaces, pointers, maps, slices, chans and funcs.
func IsNil[V any](value V) bool {
	return lo.IsNil(value)
}

// Funcs adapts plain functions to Codec.
// Nil IsAbsentFunc falls back to IsNil.
type Funcs[V any] struct {
	SerializeFunc   func(field string, value V) (string, error)
	DeserializeFunc func(field string, wire string) (V, error)
	IsAbsentFunc    func(value V) bool
}

var _ Codec[any] = Funcs[any]{}

func (f Funcs[V]) Serialize(field string, value V) (string, error) {
	return f.SerializeFunc(field, value)
}

func (f Funcs[V]) Deserialize(field string, wire string) (V, error) {
	return f.DeserializeFunc(field, wire)
}

func (f Funcs[V]) IsAbsent(value V) bool {
	if f.IsAbsentFunc == nil {
		return IsNil(value)
	}
	return f.IsAbsentFunc(value)
}
