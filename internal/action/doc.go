// Package action performs the actions bound to hotkeys.
//
// Three actions exist:
//
//   - print writes the binding's message to the output writer
//   - lua runs the binding's script in a sandboxed Lua state
//   - quit calls the quit function supplied by the application
//
// Lua scripts run one at a time on a dedicated goroutine. Each script sees
// a global "event" table describing the key event that fired it and may
// call print and quit.
package action
