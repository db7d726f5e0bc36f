package keymap

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format names a keymap file encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor returns the format selected by path's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads and decodes the keymap at path.
func LoadFile(path string) (*Keymap, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	km, err := Decode(format, data)
	if err != nil {
		return nil, &LoadError{Path: path, Format: string(format), Err: err}
	}
	km.Source = path
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return km, nil
}

// Decode parses data in the given format.
func Decode(format Format, data []byte) (*Keymap, error) {
	switch format {
	case FormatTOML:
		return decodeTOML(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatJSON:
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func decodeTOML(data []byte) (*Keymap, error) {
	var km Keymap
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&km); err != nil {
		return nil, err
	}
	return &km, nil
}

func decodeYAML(data []byte) (*Keymap, error) {
	var km Keymap
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&km); err != nil {
		if len(bytes.TrimSpace(data)) == 0 {
			return &km, nil
		}
		return nil, err
	}
	return &km, nil
}

func decodeJSON(data []byte) (*Keymap, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("malformed JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("keymap must be a JSON object")
	}

	km := &Keymap{Name: doc.Get("name").String()}

	bindings := doc.Get("bindings")
	if bindings.Exists() && !bindings.IsArray() {
		return nil, fmt.Errorf("bindings must be an array")
	}

	var err error
	bindings.ForEach(func(idx, v gjson.Result) bool {
		if !v.IsObject() {
			err = fmt.Errorf("bindings[%d] must be an object", idx.Int())
			return false
		}
		km.Bindings = append(km.Bindings, bindingFromJSON(v))
		return true
	})
	if err != nil {
		return nil, err
	}
	return km, nil
}

func bindingFromJSON(v gjson.Result) Binding {
	b := Binding{
		Keys:            v.Get("keys").String(),
		ID:              v.Get("id").String(),
		Action:          v.Get("action").String(),
		Message:         v.Get("message").String(),
		Script:          v.Get("script").String(),
		Description:     v.Get("description").String(),
		Event:           v.Get("event").String(),
		AllowInInputs:   v.Get("allow_in_inputs").Bool(),
		StopPropagation: v.Get("stop_propagation").Bool(),
		Paused:          v.Get("paused").Bool(),
	}
	if pd := v.Get("prevent_default"); pd.Exists() {
		prevent := pd.Bool()
		b.PreventDefault = &prevent
	}
	// Numbers are milliseconds.
	switch st := v.Get("sequence_timeout"); st.Type {
	case gjson.Number:
		b.SequenceTimeout = fmt.Sprintf("%dms", st.Int())
	case gjson.String:
		b.SequenceTimeout = st.String()
	}
	return b
}
