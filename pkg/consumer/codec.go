package consumer

import (
	"encoding/json"
	"fmt"
)

// Codec converts payloads to and from their stored form.
type Codec[T any] interface {
	Encode(v T) (string, error)
	Decode(data string) (T, error)
}

// JSONCodec stores payloads as JSON.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(b), nil
}

func (JSONCodec[T]) Decode(data string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return v, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}

// StringCodec stores string payloads verbatim.
type StringCodec struct{}

func (StringCodec) Encode(v string) (string, error) { return v, nil }

func (StringCodec) Decode(data string) (string, error) { return data, nil }
