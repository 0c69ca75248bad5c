package action

import (
	"slices"
	"strings"
	"time"

	"github.com/mj1618/desktop-scenarios/internal/vars"
)

// SupportedKeys lists the key names accepted by the press_key handler.
var SupportedKeys = []string{
	"enter", "return", "tab", "backspace", "delete", "esc", "escape",
	"up", "down", "left", "right",
	"pageup", "pagedown", "home", "end",
	"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12",
	"space",
	"ctrlleft", "ctrlright", "altleft", "altright", "shiftleft", "shiftright",
	"winleft", "winright",
	"printscreen", "insert",
}

// typeDelayMs is the pause between typed characters.
const typeDelayMs = 10

func insertText(data map[string]any, _ vars.Vars, rc *Context) bool {
	if rc.Cancelled() {
		return false
	}
	text := StringParam(data, "text", "")
	in, err := rc.Inputter()
	if err != nil {
		return rc.Fail("Error executing 'Insert Text': %v", err)
	}
	if err := in.TypeText(text, typeDelayMs); err != nil {
		return rc.Fail("Error executing 'Insert Text': %v", err)
	}
	rc.log().Info("inserted text", "chars", len([]rune(text)))
	return true
}

func pressKey(data map[string]any, _ vars.Vars, rc *Context) bool {
	if rc.Cancelled() {
		return false
	}
	key := strings.ToLower(strings.TrimSpace(StringParam(data, "key", "")))
	if key == "" {
		return rc.Fail("Error executing 'Press Key': missing 'key'")
	}
	if !slices.Contains(SupportedKeys, key) {
		return rc.Fail("Error executing 'Press Key': key '%s' is not supported. Allowed keys: %s",
			key, strings.Join(SupportedKeys, ", "))
	}
	in, err := rc.Inputter()
	if err != nil {
		return rc.Fail("Error executing 'Press Key': %v", err)
	}
	if err := in.KeyCombo([]string{key}); err != nil {
		return rc.Fail("Error executing 'Press Key': %v", err)
	}
	rc.log().Info("pressed key", "key", key)
	rc.Sleep(100 * time.Millisecond)
	return true
}
