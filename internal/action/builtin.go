package action

import (
	"time"

	"github.com/mj1618/desktop-scenarios/internal/platform"
	"github.com/mj1618/desktop-scenarios/internal/vars"
)

func registerBuiltins(r *Registry) {
	r.Register("highlight_rectangle", HandlerFunc(highlightRectangle))
	r.Register("left_mouse_click", clickHandler(platform.MouseLeft, "Left Mouse Click"))
	r.Register("right_mouse_click", clickHandler(platform.MouseRight, "Right Mouse Click"))
	r.Register("wait", HandlerFunc(wait))
	r.Register("insert_text", HandlerFunc(insertText))
	r.Register("store_variable", HandlerFunc(storeVariable))
	r.Register("copy_to_clipboard", shortcutHandler("c", "Copy to Clipboard", 200*time.Millisecond))
	r.Register("paste_from_clipboard", shortcutHandler("v", "Paste from Clipboard", 100*time.Millisecond))
	r.Register("select_all", shortcutHandler("a", "Select All", 150*time.Millisecond))
	r.Register("press_key", HandlerFunc(pressKey))
	r.Register("info_message", HandlerFunc(infoMessage))
	r.Register("show_form", HandlerFunc(showForm))
	r.Register("execute_command", HandlerFunc(executeCommand))
}

func clickHandler(button platform.MouseButton, label string) Handler {
	return HandlerFunc(func(data map[string]any, _ vars.Vars, rc *Context) bool {
		if rc.Cancelled() {
			return false
		}
		x, y, err := PointParam(data, "coordinates")
		if err != nil {
			return rc.Fail("Error executing '%s': %v", label, err)
		}
		in, err := rc.Inputter()
		if err != nil {
			return rc.Fail("Error executing '%s': %v", label, err)
		}
		if err := in.Click(x, y, button, 1); err != nil {
			return rc.Fail("Error executing '%s': %v", label, err)
		}
		rc.log().Info("clicked", "button", button.String(), "x", x, "y", y)
		rc.Sleep(100 * time.Millisecond)
		return true
	})
}

// shortcutHandler presses the platform modifier together with key and then
// settles for a moment so the target application can react.
func shortcutHandler(key, label string, settle time.Duration) Handler {
	return HandlerFunc(func(_ map[string]any, _ vars.Vars, rc *Context) bool {
		if rc.Cancelled() {
			return false
		}
		in, err := rc.Inputter()
		if err != nil {
			return rc.Fail("Error executing '%s': %v", label, err)
		}
		combo := []string{rc.Modifier(), key}
		if err := in.KeyCombo(combo); err != nil {
			return rc.Fail("Error executing '%s': %v", label, err)
		}
		rc.log().Info("pressed shortcut", "keys", combo)
		rc.Sleep(settle)
		return true
	})
}
