// Package patch provides JSON fields for partial updates.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is a member of a PATCH request body.
//
// It tells three cases apart:
//
// - absent: Present is false. The value should be kept.
//
// - null: Present and Null are true. The value should be cleared.
//
// - value: Present is true and Null is false. Value should be set.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Set returns a Field having v.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// Clear returns a Field which is null.
func Clear[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// Get returns the value when it is set.
func (f Field[T]) Get() (T, bool) {
	if !f.Present || f.Null {
		return *new(T), false
	}
	return f.Value, true
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		f.Value = *new(T)
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
