// Package keymap loads hotkey bindings from files and registers them.
//
// A keymap file lists bindings. Each binding names a key pattern, an
// action and per-binding registration options:
//
//	name = "default"
//
//	[[bindings]]
//	keys = "ctrl+shift+k"
//	action = "print"
//	message = "hello"
//
//	[[bindings]]
//	keys = "g-g"
//	action = "lua"
//	script = 'print(event.key)'
//	sequence_timeout = "500ms"
//
// The file extension selects the format: .toml, .yaml/.yml or .json.
// Binder registers a keymap onto a hotkey.Registry, replacing whatever
// it registered before, and Watcher reloads the file when it changes.
package keymap
