package scenario

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "scenario-v1.json"

// ValidationError is a single schema violation with its instance location.
type ValidationError struct {
	Path    string `yaml:"path"    json:"path"`
	Message string `yaml:"message" json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// GenerateJSONSchema produces the JSON Schema document for scenario files,
// reflected from the Scenario struct.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.AllowAdditionalProperties = true

	s := r.Reflect(&Scenario{})
	s.ID = "https://github.com/mj1618/desktop-scenarios/schemas/" + schemaURL
	s.Title = "Desktop scenario v1"
	s.Description = "An ordered list of typed steps executed sequentially"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

var (
	compileOnce sync.Once
	compiled    *sjsonschema.Schema
	compileErr  error
)

func compiledSchema() (*sjsonschema.Schema, error) {
	compileOnce.Do(func() {
		schemaJSON, err := GenerateJSONSchema()
		if err != nil {
			compileErr = err
			return
		}
		var schemaDoc any
		if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
			compileErr = fmt.Errorf("unmarshal schema: %w", err)
			return
		}
		c := sjsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, schemaDoc); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// ValidateDocument checks a decoded JSON document (the result of json.Unmarshal
// into any) against the scenario schema.
func ValidateDocument(doc any) []*ValidationError {
	sch, err := compiledSchema()
	if err != nil {
		return []*ValidationError{{Message: err.Error()}}
	}
	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return []*ValidationError{{Message: err.Error()}}
	}
	var errs []*ValidationError
	for _, cause := range flattenValidationErrors(ve) {
		errs = append(errs, &ValidationError{
			Path:    strings.Join(cause.InstanceLocation, "/"),
			Message: fmt.Sprintf("%v", cause.ErrorKind),
		})
	}
	return errs
}

// flattenValidationErrors collects the leaf causes of a validation error.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}
