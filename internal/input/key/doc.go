// Package key provides key events, hotkey pattern parsing and combination
// matching for the hotkey system.
//
// This package defines the fundamental types for representing keyboard input
// and the patterns matched against it:
//
//   - Modifier: Bitmask of the modifier keys held during an event (Ctrl, Alt, Shift, Meta)
//   - Event: A single keydown or keyup with its key name and modifiers
//   - Combination: A compiled group of keys pressed together ("ctrl+shift+k")
//   - Platform: Decides whether cmd/meta resolve to the Meta or the Ctrl bit
//
// # Pattern Syntax
//
// A pattern is one or more combinations separated by "-":
//
//   - Combinations: "k", "ctrl+k", "ctrl/k", "ctrl_k", "shift+alt+f4"
//   - Sequences: "g-h", "ctrl+k-ctrl+s"
//   - Literal separators: "ctrl++" (ctrl and plus), "ctrl+-" (ctrl and minus),
//     "ctrl+//" (ctrl and slash), "g---" (g then minus)
//
// Key names are case-insensitive and accept common aliases ("esc", "return",
// "up", "control", "command"). See NormalizeKey.
//
// # Malformed Patterns
//
// Parsing never fails loudly. An invalid pattern produces an empty result and
// a warning on the parser's logger, so a broken hotkey degrades to one that
// never fires.
package key
