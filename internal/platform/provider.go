package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
// Inputter is nil when no input backend is available; the clipboard is
// always present.
type Provider struct {
	Inputter         Inputter
	ClipboardManager ClipboardManager
}

// ErrUnsupported is returned when no input backend exists for this OS.
var ErrUnsupported = fmt.Errorf("desktop input is not supported on %s/%s; supported: linux (xdotool)", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/xdotool/init_linux.go for the X11 registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}

// NewClipboardOnlyProvider returns a Provider with the system clipboard and
// no inputter. Input steps fail with a clear error instead of panicking.
func NewClipboardOnlyProvider() *Provider {
	return &Provider{ClipboardManager: SystemClipboard{}}
}

// ModifierKey returns the primary shortcut modifier for goos: "cmd" on
// macOS and "ctrl" everywhere else.
func ModifierKey(goos string) string {
	if goos == "darwin" {
		return "cmd"
	}
	return "ctrl"
}
