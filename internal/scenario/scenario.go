// Package scenario defines scenario documents, their on-disk encodings, and
// the permission records that gate which scenarios may be executed.
package scenario

// Step is one declarative unit of work. Type selects a handler through the
// action mapping; Data carries the handler-specific parameters.
type Step struct {
	Type string         `json:"type"           yaml:"type"           jsonschema:"minLength=1,description=Step type resolved through the action mapping"`
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty" jsonschema:"description=Handler specific parameters"`
}

// Scenario is a named, ordered sequence of steps executed as one unit.
type Scenario struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Actions []Step `json:"actions"        yaml:"actions"`
}

// Len returns the number of steps.
func (s *Scenario) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Actions)
}
