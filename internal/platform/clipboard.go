package platform

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard is a ClipboardManager backed by the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) GetText() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("clipboard not available on this platform")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

func (SystemClipboard) SetText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not available on this platform")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
