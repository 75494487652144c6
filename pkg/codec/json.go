package codec

import (
	"encoding/json"
	"fmt"
)

var _ Codec[any] = JSON[any]{}

// JSON stores every field as JSON text.
type JSON[V any] struct{}

func (JSON[V]) Serialize(_ string, value V) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshaling json: %w", err)
	}
	return string(data), nil
}

func (JSON[V]) Deserialize(_ string, wire string) (V, error) {
	var res V
	if err := json.Unmarshal([]byte(wire), &res); err != nil {
		return *new(V), fmt.Errorf("unmarshaling json: %w", err)
	}
	return res, nil
}

func (JSON[V]) IsAbsent(value V) bool {
	return IsNil(value)
}
