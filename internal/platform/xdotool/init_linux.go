//go:build linux

package xdotool

import "github.com/mj1618/desktop-scenarios/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		in, err := New()
		if err != nil {
			return nil, err
		}
		return &platform.Provider{
			Inputter:         in,
			ClipboardManager: platform.SystemClipboard{},
		}, nil
	}
}
