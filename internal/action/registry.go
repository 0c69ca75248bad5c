package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/mj1618/desktop-scenarios/internal/config"
)

var (
	// ErrUnknownStepType is returned when a step type has no mapping entry.
	ErrUnknownStepType = errors.New("unknown action type")
	// ErrUnknownHandler is returned when the mapping names a handler id that
	// is not registered.
	ErrUnknownHandler = errors.New("unknown handler id")
)

// Registry holds handlers keyed by handler id.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a registry with every builtin handler registered.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	registerBuiltins(r)
	return r
}

// Register adds or replaces the handler for id.
func (r *Registry) Register(id string, h Handler) {
	r.handlers[id] = h
}

// Lookup returns the handler registered under id.
func (r *Registry) Lookup(id string) (Handler, bool) {
	h, ok := r.handlers[id]
	return h, ok
}

// IDs returns the registered handler ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Bind resolves every entry of m against the registry. Any entry naming an
// unregistered handler id fails the whole mapping.
func (r *Registry) Bind(m Mapping) (*Table, error) {
	t := &Table{handlers: make(map[string]Handler, len(m)), ids: make(map[string]string, len(m))}
	var errs []error
	for _, stepType := range m.Types() {
		id := m[stepType]
		h, ok := r.handlers[id]
		if !ok {
			errs = append(errs, fmt.Errorf("%w %q for action type %q", ErrUnknownHandler, id, stepType))
			continue
		}
		t.handlers[stepType] = h
		t.ids[stepType] = id
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// Table is a mapping bound to concrete handlers.
type Table struct {
	handlers map[string]Handler
	ids      map[string]string
}

// Resolve returns the handler for stepType.
func (t *Table) Resolve(stepType string) (Handler, error) {
	h, ok := t.handlers[stepType]
	if !ok {
		return nil, fmt.Errorf("%w '%s'. Check the scenario and the action mapping", ErrUnknownStepType, stepType)
	}
	return h, nil
}

// HandlerID returns the handler id bound to stepType, or "".
func (t *Table) HandlerID(stepType string) string {
	return t.ids[stepType]
}

// Types returns the bound step types, sorted.
func (t *Table) Types() []string {
	types := make([]string, 0, len(t.handlers))
	for st := range t.handlers {
		types = append(types, st)
	}
	sort.Strings(types)
	return types
}

// Mapping maps step type names to handler ids.
type Mapping map[string]string

// Types returns the mapped step types, sorted.
func (m Mapping) Types() []string {
	types := make([]string, 0, len(m))
	for st := range m {
		types = append(types, st)
	}
	sort.Strings(types)
	return types
}

// DefaultMapping returns the mapping written by `init`.
func DefaultMapping() Mapping {
	return Mapping{
		"Highlight Rectangle":  "highlight_rectangle",
		"Left Mouse Click":     "left_mouse_click",
		"Right Mouse Click":    "right_mouse_click",
		"Wait":                 "wait",
		"Insert Text":          "insert_text",
		"Store Variable":       "store_variable",
		"Copy to Clipboard":    "copy_to_clipboard",
		"Paste from Clipboard": "paste_from_clipboard",
		"Select All":           "select_all",
		"Press Key":            "press_key",
		"Info Message":         "info_message",
		"Show Form":            "show_form",
		"Execute Command":      "execute_command",
	}
}

// LoadMapping reads a JSON object of step type to handler id.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.Error{What: "actions config", Path: path, Err: err}
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &config.Error{What: "actions config", Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	if m == nil {
		return nil, &config.Error{What: "actions config", Path: path, Err: errors.New("expected a JSON object")}
	}
	return m, nil
}

// SaveMapping writes m as indented JSON.
func SaveMapping(path string, m Mapping) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode actions config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write actions config %s: %w", path, err)
	}
	return nil
}
