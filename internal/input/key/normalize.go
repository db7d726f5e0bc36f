package key

import "strings"

// keyAliases maps human-friendly key names to the canonical names used by
// key events. Every target is itself absent from the table, which keeps
// NormalizeKey idempotent.
var keyAliases = map[string]string{
	// Modifiers
	"control": "ctrl",
	"command": "cmd",
	"option":  "alt",
	"opt":     "alt",
	"win":     "meta",
	"super":   "meta",

	// Arrows
	"up":    "arrowup",
	"down":  "arrowdown",
	"left":  "arrowleft",
	"right": "arrowright",

	// Named keys
	"esc":      "escape",
	"space":    " ",
	"spacebar": " ",
	"return":   "enter",
	"del":      "delete",
	"ins":      "insert",
	"pgup":     "pageup",
	"pgdn":     "pagedown",

	// Punctuation spelled out
	"plus":  "+",
	"minus": "-",
}

// NormalizeKey maps a raw key name to its canonical lowercase form.
// Names missing from the alias table pass through lowercased.
func NormalizeKey(raw string) string {
	lower := strings.ToLower(raw)
	if alias, ok := keyAliases[lower]; ok {
		return alias
	}
	return lower
}
