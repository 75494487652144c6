package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack"
)

var _ Codec[any] = Msgpack[any]{}

// Msgpack stores every field as binary msgpack.
// Redis strings are binary safe, so the result is kept as is.
type Msgpack[V any] struct{}

func (Msgpack[V]) Serialize(_ string, value V) (string, error) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshaling msgpack: %w", err)
	}
	return string(data), nil
}

func (Msgpack[V]) Deserialize(_ string, wire string) (V, error) {
	var res V
	if err := msgpack.Unmarshal([]byte(wire), &res); err != nil {
		return *new(V), fmt.Errorf("unmarshaling msgpack: %w", err)
	}
	return res, nil
}

func (Msgpack[V]) IsAbsent(value V) bool {
	return IsNil(value)
}
