package key

import (
	"fmt"
	"strings"
)

// Combination is a compiled group of keys pressed together.
type Combination struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
	Cmd   bool

	// Key is the non-modifier key, or empty for a modifier-only group such
	// as "ctrl+shift".
	Key string

	// multi marks a group naming more than one non-modifier key. Such a
	// group parses but can never match a single event.
	multi bool
}

// ParseCombination compiles a combination group such as "ctrl+shift+k".
func ParseCombination(group string) (Combination, error) {
	parts, err := splitCombination(group)
	if err != nil {
		return Combination{}, err
	}
	return compile(parts), nil
}

// MustParseCombination compiles a group and panics on error.
// Use only for known-valid groups in initialization code and tests.
func MustParseCombination(group string) Combination {
	c, err := ParseCombination(group)
	if err != nil {
		panic("invalid key combination: " + group + ": " + err.Error())
	}
	return c
}

func compile(parts Parts) Combination {
	var c Combination
	for _, k := range parts.Keys {
		switch k {
		case "ctrl":
			c.Ctrl = true
		case "shift":
			c.Shift = true
		case "alt":
			c.Alt = true
		case "meta":
			c.Meta = true
		case "cmd":
			c.Cmd = true
		default:
			if c.Key != "" {
				c.multi = true
			}
			c.Key = k
		}
	}
	return c
}

// Valid reports whether the combination can ever match an event.
func (c Combination) Valid() bool {
	return !c.multi
}

// Expected returns the exact modifier bits an event must carry on platform.
func (c Combination) Expected(platform Platform) Modifier {
	var mods Modifier
	if c.Ctrl {
		mods = mods.With(ModCtrl)
	}
	if c.Shift {
		mods = mods.With(ModShift)
	}
	if c.Alt {
		mods = mods.With(ModAlt)
	}
	if c.Meta || c.Cmd {
		if platform.IsMac() {
			mods = mods.With(ModMeta)
		} else {
			mods = mods.With(ModCtrl)
		}
	}
	return mods
}

// Matches reports whether ev satisfies the combination on platform.
// All four modifier bits must be exactly as expected; extra modifiers
// prevent a match.
func (c Combination) Matches(ev *Event, platform Platform) bool {
	if ev == nil || c.multi {
		return false
	}
	if ev.Modifiers != c.Expected(platform) {
		return false
	}
	if c.Key == "" {
		return true
	}
	return strings.ToLower(ev.Key) == c.Key
}

// String returns the canonical spelling of the combination.
func (c Combination) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Cmd {
		parts = append(parts, "cmd")
	}
	if c.Meta {
		parts = append(parts, "meta")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	switch c.Key {
	case "":
	case " ":
		parts = append(parts, "space")
	default:
		parts = append(parts, c.Key)
	}
	return strings.Join(parts, "+")
}

// GoString implements fmt.GoStringer for debugging.
func (c Combination) GoString() string {
	return fmt.Sprintf("Combination{Ctrl: %t, Shift: %t, Alt: %t, Meta: %t, Cmd: %t, Key: %q}",
		c.Ctrl, c.Shift, c.Alt, c.Meta, c.Cmd, c.Key)
}

// Pattern returns a spelling of the combination that parses back to the
// same combination. Keys that collide with separators are written as
// their alias ("plus", "minus") or doubled ("//", "__").
func (c Combination) Pattern() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Cmd {
		parts = append(parts, "cmd")
	}
	if c.Meta {
		parts = append(parts, "meta")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	switch c.Key {
	case "":
	case " ":
		parts = append(parts, "space")
	case "+":
		parts = append(parts, "plus")
	case "-":
		parts = append(parts, "minus")
	case "/":
		parts = append(parts, "//")
	case "_":
		parts = append(parts, "__")
	default:
		parts = append(parts, c.Key)
	}
	return strings.Join(parts, "+")
}

// FormatSequence validates a sequence pattern and returns its canonical
// spelling: every group rewritten by Combination.Pattern and joined with
// "-". Groups naming more than one key are kept as written.
func FormatSequence(text string) (string, error) {
	groups, err := ValidateSequence(text)
	if err != nil {
		return "", err
	}
	out := make([]string, len(groups))
	for i, g := range groups {
		c, err := ParseCombination(g)
		if err != nil {
			return "", err
		}
		if !c.Valid() {
			out[i] = g
			continue
		}
		out[i] = c.Pattern()
	}
	return strings.Join(out, "-"), nil
}
