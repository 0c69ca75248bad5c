package monitor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultPrefix marks clipboard content as a trigger.
const DefaultPrefix = "Execute_Computer_Command_Your_Pure_AI-"

// ErrInvalidPayload is returned for trigger payloads that are not valid JSON
// or lack a scenario name.
var ErrInvalidPayload = errors.New("invalid trigger payload")

// Trigger is a decoded trigger payload.
type Trigger struct {
	ActionName       string            `json:"actionName"`
	DataForExecution map[string]string `json:"dataForExecution,omitempty"`
}

// ParseTrigger decodes the JSON that follows the trigger prefix.
// dataForExecution must be a flat object; numbers and booleans are kept in
// their JSON text form.
func ParseTrigger(payload string) (*Trigger, error) {
	var raw struct {
		ActionName       json.RawMessage `json:"actionName"`
		DataForExecution json.RawMessage `json:"dataForExecution"`
	}
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var name string
	if err := json.Unmarshal(raw.ActionName, &name); err != nil || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: 'actionName' must be a non-empty string", ErrInvalidPayload)
	}
	t := &Trigger{ActionName: name}

	data := bytes.TrimSpace(raw.DataForExecution)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return t, nil
	}
	fields, err := DecodeData(data)
	if err != nil {
		return nil, err
	}
	t.DataForExecution = fields
	return t, nil
}

// DecodeData decodes a flat JSON object of strings, numbers and booleans
// into string values. Numbers keep their JSON text form.
func DecodeData(data []byte) (map[string]string, error) {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: 'dataForExecution' must be an object: %v", ErrInvalidPayload, err)
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			out[k] = val
		case json.Number:
			out[k] = val.String()
		case bool:
			out[k] = fmt.Sprint(val)
		case nil:
			out[k] = ""
		default:
			return nil, fmt.Errorf("%w: 'dataForExecution.%s' must be a string, number or boolean", ErrInvalidPayload, k)
		}
	}
	return out, nil
}

// Encode renders t as prefix followed by its JSON form.
func (t *Trigger) Encode(prefix string) (string, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode trigger: %w", err)
	}
	return prefix + string(b), nil
}
