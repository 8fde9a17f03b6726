package models

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to another backend document.
// The backend populates references on reads, so a Ref decodes either a bare id
// string or the full object. It always encodes as the bare id.
type Ref[T any] struct {
	ID    string
	Value *T
}

// RefTo builds an unpopulated reference.
func RefTo[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// Populated reports whether the referenced object was embedded in the payload.
func (r Ref[T]) Populated() bool {
	return r.Value != nil
}

// UnmarshalJSON accepts "id", {"_id": "id", ...} or null.
func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if b[0] == '"' {
		r.Value = nil
		return json.Unmarshal(b, &r.ID)
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	var id struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	r.ID = id.ID
	r.Value = &v
	return nil
}

// MarshalJSON writes the id only, or null for an empty reference.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}
