package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Field is one attribute of a partial update. A key missing from the
// request body leaves Set false; an explicit JSON null sets Set and Null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Value returns a Field that sets v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that clears the attribute.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Arg returns the SQL argument for a set field: nil for null, the value
// otherwise.
func (f Field[T]) Arg() any {
	if f.Null {
		return nil
	}
	return f.Value
}
