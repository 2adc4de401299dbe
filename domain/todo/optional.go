package todo

import (
	"bytes"
	"encoding/json"
)

// Optional is a PATCH field that remembers whether it was present in the body.
// A present JSON null leaves Value nil with Set true, which clears the column.
type Optional[T any] struct {
	Value *T
	Set   bool
}

// Some returns a present field holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: &v, Set: true}
}

// Null returns a present field that clears the column.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON only runs for keys present in the body.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// IsZero reports an absent field, so `omitzero` drops it when encoding.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// column returns the value to store: nil for a null, the dereferenced value otherwise.
func (o Optional[T]) column() any {
	if o.Value == nil {
		return nil
	}
	return *o.Value
}
