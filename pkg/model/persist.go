package model

import (
	"encoding"
	"fmt"
)

// Marshal encodes a trained model with its own gob encoding.
func Marshal(m Model) ([]byte, error) {
	bm, ok := m.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("model: %T is not serializable", m)
	}
	return bm.MarshalBinary()
}

// Unmarshal rebuilds a model of the given kind from Marshal output.
func Unmarshal(kind Kind, b []byte) (Model, error) {
	m, err := New(kind, Params{})
	if err != nil {
		return nil, err
	}
	um, ok := m.(encoding.BinaryUnmarshaler)
	if !ok {
		return nil, fmt.Errorf("model: %T is not serializable", m)
	}
	if err := um.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return m, nil
}
