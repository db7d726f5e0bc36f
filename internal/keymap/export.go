package keymap

import (
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/hotkeys/internal/input/key"
)

// ExportJSON writes km as indented JSON with every pattern in canonical
// form. Patterns that do not parse are exported as written.
func ExportJSON(km *Keymap) ([]byte, error) {
	doc := []byte(`{}`)
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, value)
	}

	set("name", km.Name)
	set("bindings", []any{})
	for i, b := range km.Bindings {
		prefix := fmt.Sprintf("bindings.%d.", i)

		keys := strings.ToLower(strings.TrimSpace(b.Keys))
		if canonical, ferr := key.FormatSequence(keys); ferr == nil {
			keys = canonical
		}
		set(prefix+"keys", keys)
		set(prefix+"action", b.Action)

		if b.ID != "" {
			set(prefix+"id", b.ID)
		}
		if b.Message != "" {
			set(prefix+"message", b.Message)
		}
		if b.Script != "" {
			set(prefix+"script", b.Script)
		}
		if b.Description != "" {
			set(prefix+"description", b.Description)
		}
		if b.Event != "" {
			set(prefix+"event", strings.ToLower(b.Event))
		}
		if b.AllowInInputs {
			set(prefix+"allow_in_inputs", true)
		}
		if b.PreventDefault != nil {
			set(prefix+"prevent_default", *b.PreventDefault)
		}
		if b.StopPropagation {
			set(prefix+"stop_propagation", true)
		}
		if b.SequenceTimeout != "" {
			set(prefix+"sequence_timeout", b.SequenceTimeout)
		}
		if b.Paused {
			set(prefix+"paused", true)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("exporting keymap: %w", err)
	}
	return pretty.PrettyOptions(doc, &pretty.Options{Width: 80, Indent: "  "}), nil
}
