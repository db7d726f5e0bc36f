package key

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"k", "k"},
		{"K", "k"},
		{"Control", "ctrl"},
		{"ctrl", "ctrl"},
		{"command", "cmd"},
		{"cmd", "cmd"},
		{"meta", "meta"},
		{"Option", "alt"},
		{"Up", "arrowup"},
		{"down", "arrowdown"},
		{"LEFT", "arrowleft"},
		{"right", "arrowright"},
		{"esc", "escape"},
		{"Space", " "},
		{"return", "enter"},
		{"del", "delete"},
		{"F5", "f5"},
		{"plus", "+"},
		{"+", "+"},
	}

	for _, tt := range tests {
		if got := NormalizeKey(tt.raw); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeKeyIdempotent(t *testing.T) {
	inputs := []string{
		"", " ", "a", "Z", "Escape", "esc", "UP", "spacebar", "space",
		"control", "Command", "win", "pgdn", "minus", "-", "ArrowUp", "ü",
	}
	for raw := range keyAliases {
		inputs = append(inputs, raw)
	}

	for _, in := range inputs {
		once := NormalizeKey(in)
		if twice := NormalizeKey(once); twice != once {
			t.Errorf("NormalizeKey(NormalizeKey(%q)) = %q, want %q", in, twice, once)
		}
	}
}
