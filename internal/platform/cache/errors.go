package cache

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrEntryNotFound is returned by backends when no record exists for a key.
var ErrEntryNotFound = errors.New("cache entry not found")

// ErrInvalidPayload is returned by backends asked to save something other
// than a JSON document. A bare null counts as invalid since it cannot be told
// apart from a missing record.
var ErrInvalidPayload = errors.New("cache payload is not a JSON document")

var jsonNull = []byte("null")

func checkPayload(payload []byte) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) || !sonic.Valid(trimmed) {
		return ErrInvalidPayload
	}
	return nil
}

// PersistenceError reports a backend failure. The store logs and swallows it.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cache %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
