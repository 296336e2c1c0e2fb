package model

import "encoding/json"

// Optional wraps a patch field so that an absent key, an explicit JSON
// null, and a real value are three distinguishable states. Plain
// pointers cannot tell "absent" from "null", which breaks sparse-patch
// semantics for collection fields.
type Optional[T any] struct {
	value T
	set   bool
	valid bool
}

// NewOptional creates an Optional holding the given value.
func NewOptional[T any](value T) Optional[T] {
	return Optional[T]{value: value, set: true, valid: true}
}

// NullOptional creates an Optional that was explicitly set to null.
func NullOptional[T any]() Optional[T] {
	return Optional[T]{set: true}
}

// IsSet reports whether the key was present in the decoded payload.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it is usable: present and non-null.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set && o.valid
}

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// so presence is recorded here and absence is the zero Optional.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true

	if string(data) == "null" {
		o.valid = false
		return nil
	}

	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}

	o.valid = true
	return nil
}

// MarshalJSON renders null for unset or null-marked values.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
