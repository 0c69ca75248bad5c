//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Foundation
#include <ApplicationServices/ApplicationServices.h>

static int is_trusted() {
    return AXIsProcessTrusted();
}
*/
import "C"
import "errors"

// ErrNotTrusted means synthetic input events would be dropped by macOS.
var ErrNotTrusted = errors.New("accessibility permission required to send mouse and keyboard events\n\n" +
	"Grant permission at: System Settings > Privacy & Security > Accessibility\n" +
	"Add the terminal app or launcher running desktop-scenarios, then restart it.")

// CheckAccessibilityPermission returns ErrNotTrusted unless the process may
// post input events.
func CheckAccessibilityPermission() error {
	if C.is_trusted() == 0 {
		return ErrNotTrusted
	}
	return nil
}
