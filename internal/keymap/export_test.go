package keymap

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestExportJSON_CanonicalKeys(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{"Ctrl+Shift+K", "ctrl+shift+k"},
		{"shift+ctrl+k", "ctrl+shift+k"},
		{"ctrl_k", "ctrl+k"},
		{"ctrl/k", "ctrl+k"},
		{"g-g", "g-g"},
		{"g---", "g-minus"},
		{"ctrl+--g", "ctrl+minus-g"},
		{"ctrl++", "ctrl+plus"},
		{"ctrl+//", "ctrl+//"},
		{"cmd+space", "cmd+space"},
		{"a+b", "a+b"},
		{"ctrl+", "ctrl+"},
	}

	for _, tt := range tests {
		km := &Keymap{Name: "x", Bindings: []Binding{{Keys: tt.keys, Action: ActionQuit}}}
		data, err := ExportJSON(km)
		if err != nil {
			t.Fatalf("ExportJSON(%q) error = %v", tt.keys, err)
		}
		if got := gjson.GetBytes(data, "bindings.0.keys").String(); got != tt.want {
			t.Errorf("ExportJSON(%q) keys = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	km, err := Decode(FormatTOML, []byte(tomlKeymap))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	data, err := ExportJSON(km)
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Errorf("export is not indented:\n%s", data)
	}

	back, err := Decode(FormatJSON, data)
	if err != nil {
		t.Fatalf("Decode(exported) error = %v\n%s", err, data)
	}
	checkDemo(t, back)
}

func TestExportJSON_Empty(t *testing.T) {
	data, err := ExportJSON(&Keymap{Name: "empty"})
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	bindings := gjson.GetBytes(data, "bindings")
	if !bindings.IsArray() || len(bindings.Array()) != 0 {
		t.Errorf("bindings = %s, want []", bindings.Raw)
	}
}

func TestFormatSequenceReparses(t *testing.T) {
	for _, keys := range []string{"g---", "ctrl+--g", "ctrl++", "ctrl+//", "__", "alt+shift+space"} {
		km := &Keymap{Bindings: []Binding{{Keys: keys, Action: ActionQuit}}}
		data, err := ExportJSON(km)
		if err != nil {
			t.Fatalf("ExportJSON(%q) error = %v", keys, err)
		}
		back, err := Decode(FormatJSON, data)
		if err != nil {
			t.Fatalf("Decode error = %v", err)
		}
		if err := back.Validate(); err != nil {
			t.Errorf("exported %q -> %q does not validate: %v", keys, back.Bindings[0].Keys, err)
		}
	}
}
