package dto

import (
	"encoding/base64"
	"fmt"
)

// Hash carries hash fields over HTTP.
// Wire values are arbitrary bytes, so they travel base64-encoded.
type Hash struct {
	Key       string            `json:"key"`
	FieldsB64 map[string]string `json:"fields"`
}

func HashToModel(h Hash) (map[string]string, error) {
	res := make(map[string]string, len(h.FieldsB64))
	for field, b64 := range h.FieldsB64 {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 of %s: %w", field, err)
		}
		res[field] = string(data)
	}
	return res, nil
}

func NewHash(key string, fields map[string]string) Hash {
	res := Hash{
		Key:       key,
		FieldsB64: make(map[string]string, len(fields)),
	}
	for field, val := range fields {
		res.FieldsB64[field] = base64.StdEncoding.EncodeToString([]byte(val))
	}
	return res
}
