package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a scenario file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extensions lists the file extensions probed when resolving a scenario by
// name, in order of preference.
var Extensions = []string{".json", ".yaml", ".yml"}

// FormatForPath picks the encoding from a file extension. Unknown extensions
// are treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DocumentError is returned when a scenario file decodes but violates the schema.
type DocumentError struct {
	Path   string
	Errors []*ValidationError
}

func (e *DocumentError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		msgs = append(msgs, ve.Error())
	}
	return fmt.Sprintf("invalid scenario file %s: %s", e.Path, strings.Join(msgs, "; "))
}

// LoadFile reads, validates, and decodes a scenario file. A fresh decode
// happens on every call; nothing is cached.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read scenario file %s: %w", path, err)
	}
	sc, err := Decode(data, FormatForPath(path))
	if err != nil {
		var de *DocumentError
		if errors.As(err, &de) {
			de.Path = path
			return nil, de
		}
		return nil, fmt.Errorf("scenario file %s: %w", path, err)
	}
	return sc, nil
}

// Decode parses a scenario document. YAML input is normalized through JSON
// so both encodings produce identical step data (numbers as float64).
func Decode(data []byte, format Format) (*Scenario, error) {
	raw := data
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("normalize yaml: %w", err)
		}
		raw = b
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if errs := ValidateDocument(doc); len(errs) > 0 {
		return nil, &DocumentError{Errors: errs}
	}

	var sc Scenario
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	for i := range sc.Actions {
		if sc.Actions[i].Data == nil {
			sc.Actions[i].Data = map[string]any{}
		}
	}
	return &sc, nil
}

// Encode serializes a scenario. JSON output is indented with two spaces.
func Encode(sc *Scenario, format Format) ([]byte, error) {
	out := *sc
	if out.Actions == nil {
		out.Actions = []Step{}
	}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&out); err != nil {
			return nil, fmt.Errorf("yaml encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("yaml encode: %w", err)
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(&out); err != nil {
			return nil, fmt.Errorf("json encode: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// SaveFile writes sc to path in the encoding implied by its extension.
func SaveFile(path string, sc *Scenario) error {
	data, err := Encode(sc, FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create scenario dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scenario file %s: %w", path, err)
	}
	return nil
}
