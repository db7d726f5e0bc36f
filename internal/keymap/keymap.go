package keymap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/hotkeys/internal/input/hotkey"
	"github.com/dshills/hotkeys/internal/input/key"
)

// Action names understood by the action runner.
const (
	ActionPrint = "print"
	ActionLua   = "lua"
	ActionQuit  = "quit"
)

// Keymap is a named list of bindings.
type Keymap struct {
	// Name identifies the keymap in logs.
	Name string `toml:"name" yaml:"name"`

	// Bindings in file order.
	Bindings []Binding `toml:"bindings" yaml:"bindings"`

	// Source is the file the keymap was loaded from, if any.
	Source string `toml:"-" yaml:"-"`
}

// Binding maps a key pattern to an action.
type Binding struct {
	// Keys is the hotkey pattern ("ctrl+s", "g-g").
	Keys string `toml:"keys" yaml:"keys"`

	// ID is an optional stable identifier. Registering a second binding
	// with the same ID replaces the first.
	ID string `toml:"id,omitempty" yaml:"id,omitempty"`

	// Action is "print", "lua" or "quit".
	Action string `toml:"action" yaml:"action"`

	// Message is written by the print action.
	Message string `toml:"message,omitempty" yaml:"message,omitempty"`

	// Script is the Lua source run by the lua action.
	Script string `toml:"script,omitempty" yaml:"script,omitempty"`

	// Description is shown in listings.
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`

	// Event is "keydown" (default) or "keyup".
	Event string `toml:"event,omitempty" yaml:"event,omitempty"`

	AllowInInputs   bool  `toml:"allow_in_inputs,omitempty" yaml:"allow_in_inputs,omitempty"`
	PreventDefault  *bool `toml:"prevent_default,omitempty" yaml:"prevent_default,omitempty"`
	StopPropagation bool  `toml:"stop_propagation,omitempty" yaml:"stop_propagation,omitempty"`

	// SequenceTimeout overrides the registry default ("500ms").
	SequenceTimeout string `toml:"sequence_timeout,omitempty" yaml:"sequence_timeout,omitempty"`

	// Paused registers the binding paused.
	Paused bool `toml:"paused,omitempty" yaml:"paused,omitempty"`
}

// Validate reports every binding that cannot be registered as written.
// The returned error joins one *BindingError per problem.
func (km *Keymap) Validate() error {
	var errs []error
	for i, b := range km.Bindings {
		if err := b.Validate(); err != nil {
			errs = append(errs, &BindingError{Index: i, Keys: b.Keys, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Validate checks the pattern, action and options of b.
func (b Binding) Validate() error {
	groups, err := key.ValidateSequence(strings.ToLower(strings.TrimSpace(b.Keys)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBinding, err)
	}
	for _, g := range groups {
		c, err := key.ParseCombination(g)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidBinding, err)
		}
		if !c.Valid() {
			return fmt.Errorf("%w: group %q names more than one key", ErrInvalidBinding, g)
		}
	}

	switch b.Action {
	case ActionPrint, ActionQuit:
	case ActionLua:
		if strings.TrimSpace(b.Script) == "" {
			return fmt.Errorf("%w: lua action without script", ErrInvalidBinding)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, b.Action)
	}

	if _, err := b.Options(0); err != nil {
		return err
	}
	return nil
}

// Options converts the binding's settings to registration options.
// def is the registry's default sequence timeout.
func (b Binding) Options(def time.Duration) ([]hotkey.Option, error) {
	et, ok := key.ParseEventType(b.Event)
	if !ok {
		return nil, fmt.Errorf("%w: event %q", ErrInvalidBinding, b.Event)
	}

	opts := []hotkey.Option{
		hotkey.WithEventType(et),
		hotkey.WithAllowInInputs(b.AllowInInputs),
		hotkey.WithStopPropagation(b.StopPropagation),
	}
	if b.ID != "" {
		opts = append(opts, hotkey.WithID(b.ID))
	}
	if b.PreventDefault != nil {
		opts = append(opts, hotkey.WithPreventDefault(*b.PreventDefault))
	}

	timeout := def
	if b.SequenceTimeout != "" {
		d, err := time.ParseDuration(b.SequenceTimeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: sequence_timeout %q", ErrInvalidBinding, b.SequenceTimeout)
		}
		timeout = d
	}
	if timeout > 0 {
		opts = append(opts, hotkey.WithSequenceTimeout(timeout))
	}
	return opts, nil
}

// Describe returns the description, or a summary of the action.
func (b Binding) Describe() string {
	if b.Description != "" {
		return b.Description
	}
	switch b.Action {
	case ActionPrint:
		return fmt.Sprintf("print %q", b.Message)
	case ActionLua:
		return "run lua script"
	default:
		return b.Action
	}
}
