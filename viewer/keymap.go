package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// ErrInvalidKeymap indicates a keymap file that could not be read, parsed, or
// validated.
var ErrInvalidKeymap = errors.New("invalid keymap")

// Action is something the viewer does in response to a key.
type Action int

const (
	actionNone Action = iota
	// ActionToggle shows or hides the overlay.
	ActionToggle
	// ActionSave appends a dump of all tables to the dump file.
	ActionSave
	// ActionUp moves the selection up one row.
	ActionUp
	// ActionDown moves the selection down one row.
	ActionDown
	// ActionPageUp moves the selection up one page.
	ActionPageUp
	// ActionPageDown moves the selection down one page.
	ActionPageDown
	// ActionExpand opens the child table of the selected row.
	ActionExpand
	// ActionCollapse returns to the parent table.
	ActionCollapse
	// ActionNextRoot switches to the next root table.
	ActionNextRoot
	// ActionPrevRoot switches to the previous root table.
	ActionPrevRoot
)

var actionNames = map[Action]string{
	actionNone:     "none",
	ActionToggle:   "toggle",
	ActionSave:     "save",
	ActionUp:       "up",
	ActionDown:     "down",
	ActionPageUp:   "page_up",
	ActionPageDown: "page_down",
	ActionExpand:   "expand",
	ActionCollapse: "collapse",
	ActionNextRoot: "next_root",
	ActionPrevRoot: "prev_root",
}

func (a Action) String() string {
	return actionNames[a]
}

// Keymap lists the keys bound to each [Action].
//
// Keymaps are usually loaded from YAML with [LoadKeymap]:
//
//	toggle: [f11, "`"]
//	expand: [enter, right, l]
//	collapse: [backspace, left, h]
//
// Actions missing from the file keep their [DefaultKeymap] keys. When a key is
// listed under several actions, the first action in field order wins.
type Keymap struct {
	Toggle   []string `json:"toggle,omitempty"    jsonschema:"keys that show or hide the overlay"              yaml:"toggle,omitempty"`
	Save     []string `json:"save,omitempty"      jsonschema:"keys that append all tables to the dump file"    yaml:"save,omitempty"`
	Up       []string `json:"up,omitempty"        jsonschema:"keys that move the selection up"                 yaml:"up,omitempty"`
	Down     []string `json:"down,omitempty"      jsonschema:"keys that move the selection down"               yaml:"down,omitempty"`
	PageUp   []string `json:"page_up,omitempty"   jsonschema:"keys that move the selection up one page"        yaml:"page_up,omitempty"`
	PageDown []string `json:"page_down,omitempty" jsonschema:"keys that move the selection down one page"      yaml:"page_down,omitempty"`
	Expand   []string `json:"expand,omitempty"    jsonschema:"keys that open the child table of the selection" yaml:"expand,omitempty"`
	Collapse []string `json:"collapse,omitempty"  jsonschema:"keys that return to the parent table"            yaml:"collapse,omitempty"`
	NextRoot []string `json:"next_root,omitempty" jsonschema:"keys that switch to the next root table"         yaml:"next_root,omitempty"`
	PrevRoot []string `json:"prev_root,omitempty" jsonschema:"keys that switch to the previous root table"     yaml:"prev_root,omitempty"`
}

// DefaultKeymap returns the built-in key bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Toggle:   []string{"f11"},
		Save:     []string{"shift+f11"},
		Up:       []string{"up"},
		Down:     []string{"down"},
		PageUp:   []string{"pgup"},
		PageDown: []string{"pgdown"},
		Expand:   []string{"enter", "right"},
		Collapse: []string{"backspace", "left"},
		NextRoot: []string{"tab"},
		PrevRoot: []string{"shift+tab"},
	}
}

// index builds the key to action lookup.
func (k Keymap) index() map[string]Action {
	bindings := []struct {
		keys   []string
		action Action
	}{
		{k.Toggle, ActionToggle},
		{k.Save, ActionSave},
		{k.Up, ActionUp},
		{k.Down, ActionDown},
		{k.PageUp, ActionPageUp},
		{k.PageDown, ActionPageDown},
		{k.Expand, ActionExpand},
		{k.Collapse, ActionCollapse},
		{k.NextRoot, ActionNextRoot},
		{k.PrevRoot, ActionPrevRoot},
	}

	idx := map[string]Action{}

	for _, b := range bindings {
		for _, key := range b.keys {
			if _, ok := idx[key]; ok {
				continue
			}

			idx[key] = b.action
		}
	}

	return idx
}

// Lookup returns the action bound to key.
func (k Keymap) Lookup(key string) (Action, bool) {
	a, ok := k.index()[key]

	return a, ok
}

// KeymapSchema returns the JSON Schema that keymap files are validated
// against.
func KeymapSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[Keymap](nil)
	if err != nil {
		return nil, fmt.Errorf("inferring keymap schema: %w", err)
	}

	schema.Title = "profview keymap"
	schema.Description = "Key bindings for the profile viewer overlay."

	return schema, nil
}

var resolvedKeymapSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	schema, err := KeymapSchema()
	if err != nil {
		return nil, err
	}

	return schema.Resolve(nil)
})

// LoadKeymap reads a YAML keymap file. See [ParseKeymap].
func LoadKeymap(path string) (Keymap, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Keymap path from CLI flag is expected.
	if err != nil {
		return Keymap{}, fmt.Errorf("%w: %w", ErrInvalidKeymap, err)
	}

	km, err := ParseKeymap(data)
	if err != nil {
		return Keymap{}, fmt.Errorf("%s: %w", path, err)
	}

	return km, nil
}

// ParseKeymap validates YAML keymap data against [KeymapSchema] and overlays
// the actions it lists on [DefaultKeymap]. Unknown actions and non-list values
// are rejected. Empty input yields the default keymap.
func ParseKeymap(data []byte) (Keymap, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return DefaultKeymap(), nil
	}

	var doc map[string]any

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return Keymap{}, fmt.Errorf("%w: %w", ErrInvalidKeymap, err)
	}

	if doc == nil {
		return DefaultKeymap(), nil
	}

	resolved, err := resolvedKeymapSchema()
	if err != nil {
		return Keymap{}, fmt.Errorf("%w: %w", ErrInvalidKeymap, err)
	}

	err = resolved.Validate(doc)
	if err != nil {
		return Keymap{}, fmt.Errorf("%w: %w", ErrInvalidKeymap, err)
	}

	km := DefaultKeymap()

	err = yaml.Unmarshal(data, &km)
	if err != nil {
		return Keymap{}, fmt.Errorf("%w: %w", ErrInvalidKeymap, err)
	}

	return km, nil
}
