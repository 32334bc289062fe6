package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration and lookup.
var (
	// ErrDuplicateKey indicates a key is already bound to a different item.
	ErrDuplicateKey = errors.New("key already registered")

	// ErrAlreadyRegistered indicates the item is already registered under a
	// different set of keys.
	ErrAlreadyRegistered = errors.New("item already registered")

	// ErrItemNotRegistered indicates an unregister referenced a key or item
	// that is not present.
	ErrItemNotRegistered = errors.New("item not registered")

	// ErrItemLookup indicates Get found no item for the key after population.
	ErrItemLookup = errors.New("item not found")

	// ErrNoKeys indicates Register was called without any lookup keys.
	ErrNoKeys = errors.New("at least one lookup key is required")
)

// ErrPopulate matches any population failure via errors.Is.
var ErrPopulate = errors.New("population failed")

// DuplicateKeyError reports a key that is already bound to another item.
type DuplicateKeyError struct {
	// Registry is the name of the registry.
	Registry string
	// Key is the conflicting key.
	Key any
}

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: key %v already registered to a different item", e.Registry, e.Key)
}

// Unwrap returns ErrDuplicateKey for errors.Is support.
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// AlreadyRegisteredError reports an item that is registered under other keys.
type AlreadyRegisteredError struct {
	Registry string
	// Keys are the keys the item is currently registered under.
	Keys []any
}

// Error implements the error interface.
func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("%s: item already registered under keys %v", e.Registry, e.Keys)
}

// Unwrap returns ErrAlreadyRegistered for errors.Is support.
func (e *AlreadyRegisteredError) Unwrap() error {
	return ErrAlreadyRegistered
}

// ItemNotRegisteredError reports an unregister of an absent key or item.
type ItemNotRegisteredError struct {
	Registry string
	// Key is the requested key, or the item itself for UnregisterItem.
	Key any
}

// Error implements the error interface.
func (e *ItemNotRegisteredError) Error() string {
	return fmt.Sprintf("%s: %v is not registered", e.Registry, e.Key)
}

// Unwrap returns ErrItemNotRegistered for errors.Is support.
func (e *ItemNotRegisteredError) Unwrap() error {
	return ErrItemNotRegistered
}

// ItemLookupError reports a Get miss after population.
type ItemLookupError struct {
	Registry string
	Key      any
}

// Error implements the error interface.
func (e *ItemLookupError) Error() string {
	return fmt.Sprintf("%s: no item registered for key %v", e.Registry, e.Key)
}

// Unwrap returns ErrItemLookup for errors.Is support.
func (e *ItemLookupError) Unwrap() error {
	return ErrItemLookup
}

// PopulateError wraps the cause of a failed population.
// The registry is back in StateUnpopulated when this is returned.
type PopulateError struct {
	Registry string
	// PopulationID identifies the failed attempt in logs and spans.
	PopulationID string
	// Err is the error returned by the populator or a hook.
	Err error
}

// Error implements the error interface.
func (e *PopulateError) Error() string {
	return fmt.Sprintf("%s: populate: %v", e.Registry, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *PopulateError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPopulate.
func (e *PopulateError) Is(target error) bool {
	return target == ErrPopulate
}

// PanicError captures a panic raised by a populator or hook.
type PanicError struct {
	Registry string
	// Stage names where the panic happened ("populator" or a hook name).
	Stage string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: %s panicked: %v", e.Registry, e.Stage, e.Value)
}

func keysToAny[K comparable](keys []K) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}
