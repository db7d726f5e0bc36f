package keymap

import (
	"errors"
	"fmt"
)

// Errors returned by keymap operations.
var (
	// ErrUnsupportedFormat indicates a file extension with no loader.
	ErrUnsupportedFormat = errors.New("unsupported keymap format")

	// ErrInvalidBinding indicates a binding that cannot be registered as written.
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrUnknownAction indicates a binding action no runner handles.
	ErrUnknownAction = errors.New("unknown action")
)

// LoadError describes a keymap file that could not be read or decoded.
type LoadError struct {
	// Path is the keymap file.
	Path string
	// Format is the decoder that failed ("toml", "yaml", "json").
	Format string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("loading keymap %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("loading %s keymap %s: %v", e.Format, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// BindingError describes one invalid binding.
type BindingError struct {
	// Index is the binding's position in the keymap.
	Index int
	// Keys is the binding's pattern as written.
	Keys string
	// Err is the reason.
	Err error
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	return fmt.Sprintf("binding %d (%q): %v", e.Index, e.Keys, e.Err)
}

// Unwrap returns the underlying error.
func (e *BindingError) Unwrap() error {
	return e.Err
}
