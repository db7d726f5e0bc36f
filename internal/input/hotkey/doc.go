// Package hotkey binds hotkey patterns to callbacks.
//
// A Registry owns one Entry per registered pattern. Each entry compiles its
// pattern once into combination groups and runs a small state machine over
// the key events its event source delivers:
//
//	Idle (progress 0) --group[0] matches--> InProgress (progress 1..n-1)
//	InProgress --next group matches--> InProgress, or fire and back to Idle
//	InProgress --mismatch | timeout--> Idle
//
// A single-combination pattern has no progress: a match fires the callback
// and a mismatch does nothing.
//
// # Listening
//
// An entry listens for events only while it is not paused, the registry is
// not paused, and its pattern parsed to at least one group. Pausing tears
// down the listener and any pending sequence timer; resuming re-attaches
// it. Pause and resume are idempotent at both levels, and a registry-wide
// pause never touches an entry's own paused flag.
//
// # Concurrency
//
// All entry state lives behind one registry mutex. Suppression, matching
// and the progress update run under the lock; the callback and change
// notifications run after it is released, so a panicking callback
// propagates to the dispatcher while leaving every entry consistent.
//
// # Malformed patterns
//
// A pattern that does not parse produces an inert entry: it has no key
// groups, never listens and never fires. The parse warning logged through
// zap is the only signal.
package hotkey
