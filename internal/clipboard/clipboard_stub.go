//go:build !darwin || test

package clipboard

import (
	"errors"
)

// ErrUnsupported is returned by Init in builds without clipboard support, so
// callers fall back instead of reporting a write that never happened.
var ErrUnsupported = errors.New("clipboard not supported in this build configuration")

// Init initializes the clipboard (stub implementation)
func Init() error {
	return ErrUnsupported
}

// WriteText writes text to the clipboard (stub implementation)
func WriteText(_ string) {
}
