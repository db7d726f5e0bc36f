package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "HOTKEYS_"

// envSettings maps environment variable names (without the prefix) to
// setters on Config.
var envSettings = map[string]func(c *Config, v string) error{
	// Read by the CLI to locate the config file itself.
	"CONFIG": func(*Config, string) error { return nil },
	"KEYMAP": func(c *Config, v string) error {
		c.Keymap.Path = v
		return nil
	},
	"WATCH": func(c *Config, v string) error {
		return setBool(&c.Keymap.Watch, v)
	},
	"DEBOUNCE": func(c *Config, v string) error {
		return setDuration(&c.Keymap.Debounce, v)
	},
	"LOG_LEVEL": func(c *Config, v string) error {
		c.Log.Level = strings.ToLower(v)
		return nil
	},
	"LOG_DEVELOPMENT": func(c *Config, v string) error {
		return setBool(&c.Log.Development, v)
	},
	"LOG_FILE": func(c *Config, v string) error {
		c.Log.File = v
		return nil
	},
	"SEQUENCE_TIMEOUT": func(c *Config, v string) error {
		return setDuration(&c.Hotkeys.SequenceTimeout, v)
	},
	"PLATFORM": func(c *Config, v string) error {
		c.Hotkeys.Platform = strings.ToLower(v)
		return nil
	},
	"LUA_CALL_STACK_SIZE": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Lua.CallStackSize = n
		return nil
	},
	"LUA_TIMEOUT": func(c *Config, v string) error {
		return setDuration(&c.Lua.Timeout, v)
	},
}

// Loader resolves a Config from a file, .env files and the environment.
type Loader struct {
	path     string
	envFiles []string
	environ  func() []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithEnvFiles sets the .env files to read. Missing files are skipped.
func WithEnvFiles(files ...string) LoaderOption {
	return func(l *Loader) { l.envFiles = files }
}

// WithEnviron replaces os.Environ as the source of environment variables.
func WithEnviron(environ func() []string) LoaderOption {
	return func(l *Loader) { l.environ = environ }
}

// NewLoader creates a loader for the TOML file at path. An empty path
// skips the file layer.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		path:     path,
		envFiles: []string{".env"},
		environ:  os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if err := l.loadFile(cfg); err != nil {
		return nil, err
	}

	env, err := l.readEnv()
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) loadFile(cfg *Config) error {
	if l.path == "" {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // File doesn't exist, not an error
		}
		return fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return Decode(l.path, data, cfg)
}

// Decode parses TOML data over cfg. Unknown keys are rejected.
func Decode(path string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return newParseError(path, err)
	}
	return nil
}

// readEnv merges .env files under the process environment. Only
// HOTKEYS_* names are kept; real environment variables win.
func (l *Loader) readEnv() (map[string]string, error) {
	merged := make(map[string]string)

	for _, file := range l.envFiles {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading env file %s: %w", file, err)
		}
		for k, v := range values {
			if strings.HasPrefix(k, EnvPrefix) {
				merged[k] = v
			}
		}
	}

	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(name, EnvPrefix) {
			merged[name] = value
		}
	}
	return merged, nil
}

func applyEnv(cfg *Config, env map[string]string) error {
	for name, value := range env {
		set, ok := envSettings[strings.TrimPrefix(name, EnvPrefix)]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSetting, name)
		}
		if err := set(cfg, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, name, value, err)
		}
	}
	return nil
}

func setBool(dst *bool, v string) error {
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0", "":
		*dst = false
	default:
		return fmt.Errorf("not a boolean")
	}
	return nil
}

func setDuration(dst *Duration, v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		// Bare integers are milliseconds.
		ms, convErr := strconv.Atoi(v)
		if convErr != nil {
			return err
		}
		d = time.Duration(ms) * time.Millisecond
	}
	*dst = Duration(d)
	return nil
}
