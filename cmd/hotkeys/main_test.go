package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// emptyConfig keeps tests away from the user's config file.
func emptyConfig(t *testing.T) string {
	return writeFile(t, "config.toml", "")
}

func TestParseCmd(t *testing.T) {
	out, _, err := execute(t, "parse", "--platform", "other", "Shift+Ctrl+K-cmd+s")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}

	for _, want := range []string{
		"shift+ctrl+k-cmd+s",
		"ctrl+shift+k-cmd+s",
		"groups",
		`"shift" "ctrl" "k"`,
		`"+" "+"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("parse output lacks %q:\n%s", want, out)
		}
	}
}

func TestParseCmd_LiteralKeys(t *testing.T) {
	out, _, err := execute(t, "parse", "ctrl+--g")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if !strings.Contains(out, "ctrl+minus-g") {
		t.Errorf("parse output lacks canonical form:\n%s", out)
	}
}

func TestParseCmd_KeyColumn(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"ctrl+shift", "(none)"},
		{"ctrl+-", "-"},
	}

	for _, tt := range tests {
		out, _, err := execute(t, "parse", "--platform", "other", tt.pattern)
		if err != nil {
			t.Fatalf("parse %q error = %v", tt.pattern, err)
		}
		row := lastLine(out)
		fields := strings.Fields(row)
		if len(fields) < 2 || fields[len(fields)-2] != tt.want {
			t.Errorf("parse %q row = %q, want KEY column %q", tt.pattern, row, tt.want)
		}
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return lines[len(lines)-1]
}

func TestParseCmd_Invalid(t *testing.T) {
	for _, pattern := range []string{"ctrl+", "+", "a+b+"} {
		if _, _, err := execute(t, "parse", pattern); err == nil {
			t.Errorf("parse %q should fail", pattern)
		}
	}
	if _, _, err := execute(t, "parse"); err == nil {
		t.Error("parse without a pattern should fail")
	}
}

func TestExportCmd(t *testing.T) {
	km := writeFile(t, "keys.yaml", "name: demo\nbindings:\n  - keys: Shift+Ctrl+K\n    action: print\n    message: hi\n")

	out, _, err := execute(t, "export", km)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if got := gjson.Get(out, "bindings.0.keys").String(); got != "ctrl+shift+k" {
		t.Errorf("exported keys = %q, want ctrl+shift+k\n%s", got, out)
	}
	if got := gjson.Get(out, "name").String(); got != "demo" {
		t.Errorf("exported name = %q", got)
	}
}

func TestExportCmd_KeymapFlagAndOutput(t *testing.T) {
	km := writeFile(t, "keys.toml", "[[bindings]]\nkeys = \"g-g\"\naction = \"quit\"\n")
	dest := filepath.Join(t.TempDir(), "out.json")

	if _, _, err := execute(t, "export", "--config", emptyConfig(t), "--keymap", km, "-o", dest); err != nil {
		t.Fatalf("export error = %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(data, "bindings.0.action").String(); got != "quit" {
		t.Errorf("exported action = %q\n%s", got, data)
	}
}

func TestCheckCmd(t *testing.T) {
	good := writeFile(t, "good.toml", "[[bindings]]\nkeys = \"ctrl+s\"\naction = \"print\"\nmessage = \"saved\"\n")
	out, _, err := execute(t, "check", good)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(out, "1 binding(s) ok") || !strings.Contains(out, `print "saved"`) {
		t.Errorf("check output = %q", out)
	}

	bad := writeFile(t, "bad.json", `{"bindings": [{"keys": "a+b", "action": "print"}, {"keys": "x", "action": "fly"}]}`)
	_, errOut, err := execute(t, "check", bad)
	if err == nil || !strings.Contains(err.Error(), "2 invalid binding(s)") {
		t.Errorf("check error = %v, want 2 invalid bindings", err)
	}
	if !strings.Contains(errOut, "binding 1") {
		t.Errorf("check stderr = %q, want per-binding errors", errOut)
	}
}

func TestConfigCmd(t *testing.T) {
	cfgPath := writeFile(t, "config.toml", "[log]\nlevel = \"debug\"\n")

	out, _, err := execute(t, "config", "--config", cfgPath, "--platform", "mac")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, want := range []string{"debug", "mac", "sequence_timeout"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output lacks %q:\n%s", want, out)
		}
	}

	if _, _, err := execute(t, "config", "--config", cfgPath, "--log-level", "chatty"); err == nil {
		t.Error("config with a bad log level should fail")
	}
}
