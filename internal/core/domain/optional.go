package domain

import "encoding/json"

// Optional is a tri-state JSON field. After unmarshalling a request
// body, Set tells whether the key was present at all and Valid whether
// it held a non-null value. The zero value means "absent".
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: value}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON is only called for keys present in the document, so Set
// is always true here.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if string(data) == "null" {
		o.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}

	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(o.Value)
}
