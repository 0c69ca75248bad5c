package action

import (
	"github.com/mj1618/desktop-scenarios/internal/vars"
)

func infoMessage(data map[string]any, _ vars.Vars, rc *Context) bool {
	if rc.Cancelled() {
		return false
	}
	msg := StringParam(data, "message", "No message provided.")
	if BoolParam(data, "speak", false) && rc.Speaker != nil {
		err := rc.Speaker.Speak(msg)
		if err == nil {
			return true
		}
		rc.log().Warn("speech failed, showing message instead", "error", err)
	}
	if rc.Dialog != nil {
		rc.Dialog.DisplayMessage("Information", msg, false)
	}
	return true
}

// showForm collects field values from the user into variables. Cancelling
// the form stops the whole run.
func showForm(data map[string]any, v vars.Vars, rc *Context) bool {
	if rc.Cancelled() {
		return false
	}
	raw := ListParam(data, "fields")
	if len(raw) == 0 {
		rc.log().Warn("show form has no fields defined")
		return true
	}
	fields := make([]FormField, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return rc.Fail("Error executing 'Show Form': field %d is not an object", i+1)
		}
		name := StringParam(m, "name", "")
		if name == "" {
			return rc.Fail("Error executing 'Show Form': field %d has no name", i+1)
		}
		fields = append(fields, FormField{Name: name, Description: StringParam(m, "description", "")})
	}
	if rc.Dialog == nil {
		return rc.Fail("Error executing 'Show Form': no dialog surface configured")
	}
	values, ok, err := rc.Dialog.PromptForm("Input Required", fields)
	if err != nil {
		return rc.Fail("Error executing 'Show Form': %v", err)
	}
	if !ok {
		rc.log().Info("form cancelled by user")
		if rc.Cancel != nil {
			rc.Cancel.Set()
		}
		return false
	}
	for _, f := range fields {
		v.Set(f.Name, values[f.Name])
	}
	return true
}
