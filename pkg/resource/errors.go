package resource

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrUnknownSet is matched by UnknownSetError.
	ErrUnknownSet = errors.New("unknown resource set")
	// ErrNotFound is matched by ResourceNotFoundError.
	ErrNotFound = errors.New("resource not found")
)

// UnknownSetError is returned when a set is selected or resolved against
// before it was loaded. Set is empty when nothing was selected at all.
type UnknownSetError struct {
	Set string
}

func (e *UnknownSetError) Error() string {
	if e.Set == "" {
		return "no resource set selected"
	}
	return fmt.Sprintf("resource set %q not loaded", e.Set)
}

// Is makes errors.Is(err, ErrUnknownSet) succeed.
func (e *UnknownSetError) Is(target error) bool {
	return target == ErrUnknownSet
}

// ResourceNotFoundError is returned when (category, key) is absent from the
// selected set.
type ResourceNotFoundError struct {
	Set      string
	Category string
	Key      string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %s/%s not found in set %q", e.Category, e.Key, e.Set)
}

// Is makes errors.Is(err, ErrNotFound) succeed.
func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AssetLoadError wraps a failed fetch or decode of the file behind a path.
type AssetLoadError struct {
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("failed to load asset %s: %v", e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}
