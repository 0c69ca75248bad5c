//go:build darwin && cgo

package darwin

import "github.com/mj1618/desktop-scenarios/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		if err := CheckAccessibilityPermission(); err != nil {
			return nil, err
		}
		return &platform.Provider{
			Inputter:         NewInputter(),
			ClipboardManager: platform.SystemClipboard{},
		}, nil
	}
}
