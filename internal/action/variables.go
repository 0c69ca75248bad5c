package action

import (
	"strings"

	"github.com/mj1618/desktop-scenarios/internal/vars"
)

// storeVariable writes a value into the variable mapping, either the step's
// substituted value or the current clipboard text.
func storeVariable(data map[string]any, v vars.Vars, rc *Context) bool {
	if rc.Cancelled() {
		return false
	}
	name := StringParam(data, "name", "")
	if name == "" {
		return rc.Fail("Error executing 'Store Variable': missing 'name' for the variable")
	}
	source := strings.ToLower(StringParam(data, "source", ""))
	var value string
	switch source {
	case "value":
		value = StringParam(data, "value", "")
	case "clipboard":
		cb, err := rc.Clipboard()
		if err != nil {
			return rc.Fail("Error executing 'Store Variable': %v", err)
		}
		text, err := cb.GetText()
		if err != nil {
			return rc.Fail("Error executing 'Store Variable': failed to read from clipboard: %v", err)
		}
		value = text
	default:
		return rc.Fail("Error executing 'Store Variable': invalid 'source' ('%s'). Must be 'value' or 'clipboard'", source)
	}
	v.Set(name, value)
	rc.log().Info("stored variable", "name", name, "source", source)
	return true
}
