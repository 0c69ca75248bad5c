package platform

// Inputter simulates mouse and keyboard input.
type Inputter interface {
	Click(x, y int, button MouseButton, count int) error
	MoveMouse(x, y int) error
	TypeText(text string, delayMs int) error
	// KeyCombo presses the keys together, modifiers first, e.g. ["ctrl", "a"].
	// A single key is a plain key press.
	KeyCombo(keys []string) error
}

// ClipboardManager reads and writes the system clipboard as text.
type ClipboardManager interface {
	GetText() (string, error)
	SetText(text string) error
}
