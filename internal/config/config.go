// Package config loads hotkeys configuration.
//
// Settings are resolved in increasing precedence:
//
//  1. built-in defaults (Default)
//  2. the TOML config file
//  3. .env files
//  4. HOTKEYS_* environment variables
//
// Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/hotkeys/internal/input/key"
)

// Duration is a time.Duration written as a string ("750ms", "1s") in
// config files.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the complete hotkeys configuration.
type Config struct {
	Keymap  KeymapConfig  `toml:"keymap"`
	Log     LogConfig     `toml:"log"`
	Hotkeys HotkeysConfig `toml:"hotkeys"`
	Lua     LuaConfig     `toml:"lua"`
}

// KeymapConfig locates and watches the keymap file.
type KeymapConfig struct {
	// Path is the keymap file. The extension selects the format.
	Path string `toml:"path"`
	// Watch reloads the keymap when the file changes.
	Watch bool `toml:"watch"`
	// Debounce delays reloads while the file is still being written.
	Debounce Duration `toml:"debounce"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
	// File receives log output. Empty means stderr.
	File string `toml:"file"`
}

// HotkeysConfig holds registry defaults.
type HotkeysConfig struct {
	// SequenceTimeout is the default time allowed between sequence groups.
	SequenceTimeout Duration `toml:"sequence_timeout"`
	// Platform is "auto", "mac" or "other".
	Platform string `toml:"platform"`
}

// LuaConfig bounds script actions.
type LuaConfig struct {
	// CallStackSize caps the Lua call depth of one script.
	CallStackSize int `toml:"call_stack_size"`
	// Timeout caps a script's wall-clock run time.
	Timeout Duration `toml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Keymap: KeymapConfig{
			Path:     "keymap.toml",
			Debounce: Duration(100 * time.Millisecond),
		},
		Log: LogConfig{
			Level: "info",
		},
		Hotkeys: HotkeysConfig{
			SequenceTimeout: Duration(time.Second),
			Platform:        "auto",
		},
		Lua: LuaConfig{
			CallStackSize: 256,
			Timeout:       Duration(2 * time.Second),
		},
	}
}

// DefaultPath returns the per-user config file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "hotkeys.toml"
	}
	return filepath.Join(dir, "hotkeys", "config.toml")
}

// Platform resolves the configured platform.
func (c *Config) Platform() key.Platform {
	return key.ParsePlatform(c.Hotkeys.Platform)
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.Log.Level)
}

// Validate checks every setting and returns the first failure.
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return &ValidationError{Setting: "log.level", Value: c.Log.Level, Message: "unknown level"}
	}
	switch strings.ToLower(c.Hotkeys.Platform) {
	case "", "auto", "mac", "macos", "darwin", "ios", "other", "linux", "windows", "pc":
	default:
		return &ValidationError{Setting: "hotkeys.platform", Value: c.Hotkeys.Platform, Message: "want auto, mac or other"}
	}
	if c.Hotkeys.SequenceTimeout <= 0 {
		return &ValidationError{Setting: "hotkeys.sequence_timeout", Value: c.Hotkeys.SequenceTimeout.Std(), Message: "must be positive"}
	}
	if c.Keymap.Debounce < 0 {
		return &ValidationError{Setting: "keymap.debounce", Value: c.Keymap.Debounce.Std(), Message: "must not be negative"}
	}
	if c.Lua.CallStackSize < 0 {
		return &ValidationError{Setting: "lua.call_stack_size", Value: c.Lua.CallStackSize, Message: "must not be negative"}
	}
	if c.Lua.Timeout < 0 {
		return &ValidationError{Setting: "lua.timeout", Value: c.Lua.Timeout.Std(), Message: "must not be negative"}
	}
	return nil
}

// Encode returns the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
