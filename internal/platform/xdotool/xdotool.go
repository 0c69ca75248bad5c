// Package xdotool implements platform.Inputter on X11 by shelling out to
// the xdotool binary.
package xdotool

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/mj1618/desktop-scenarios/internal/platform"
)

// runFunc executes one xdotool invocation.
type runFunc func(args ...string) error

type detector struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) error
}

func defaultDetector() detector {
	return detector{
		goos:   runtime.GOOS,
		getenv: os.Getenv,
		lookPath: func(bin string) error {
			_, err := exec.LookPath(bin)
			return err
		},
	}
}

// Inputter drives mouse and keyboard through xdotool.
type Inputter struct {
	run runFunc
}

// New returns an Inputter if xdotool and an X display are available.
func New() (*Inputter, error) {
	return newWithDetector(defaultDetector())
}

func newWithDetector(det detector) (*Inputter, error) {
	if det.goos != "linux" {
		return nil, platform.ErrUnsupported
	}
	if det.getenv("DISPLAY") == "" {
		return nil, errors.New("xdotool requires an X display (DISPLAY is not set)")
	}
	if err := det.lookPath("xdotool"); err != nil {
		return nil, fmt.Errorf("xdotool not found; install it with your package manager: %w", err)
	}
	return &Inputter{run: execRun}, nil
}

func execRun(args ...string) error {
	out, err := exec.Command("xdotool", args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("xdotool %s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("xdotool %s: %w", args[0], err)
	}
	return nil
}

func buttonNumber(b platform.MouseButton) string {
	switch b {
	case platform.MouseRight:
		return "3"
	case platform.MouseMiddle:
		return "2"
	default:
		return "1"
	}
}

func (i *Inputter) Click(x, y int, button platform.MouseButton, count int) error {
	if count < 1 {
		count = 1
	}
	return i.run("mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y),
		"click", "--repeat", strconv.Itoa(count), buttonNumber(button))
}

func (i *Inputter) MoveMouse(x, y int) error {
	return i.run("mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y))
}

func (i *Inputter) TypeText(text string, delayMs int) error {
	if text == "" {
		return nil
	}
	if delayMs < 0 {
		delayMs = 0
	}
	return i.run("type", "--delay", strconv.Itoa(delayMs), "--", text)
}

func (i *Inputter) KeyCombo(keys []string) error {
	if len(keys) == 0 {
		return errors.New("no keys given")
	}
	syms := make([]string, len(keys))
	for n, k := range keys {
		syms[n] = KeySym(k)
	}
	return i.run("key", "--clearmodifiers", strings.Join(syms, "+"))
}

var keysyms = map[string]string{
	"enter":       "Return",
	"return":      "Return",
	"tab":         "Tab",
	"backspace":   "BackSpace",
	"delete":      "Delete",
	"esc":         "Escape",
	"escape":      "Escape",
	"up":          "Up",
	"down":        "Down",
	"left":        "Left",
	"right":       "Right",
	"pageup":      "Page_Up",
	"pagedown":    "Page_Down",
	"home":        "Home",
	"end":         "End",
	"space":       "space",
	"ctrlleft":    "Control_L",
	"ctrlright":   "Control_R",
	"altleft":     "Alt_L",
	"altright":    "Alt_R",
	"shiftleft":   "Shift_L",
	"shiftright":  "Shift_R",
	"winleft":     "Super_L",
	"winright":    "Super_R",
	"printscreen": "Print",
	"insert":      "Insert",
	"ctrl":        "ctrl",
	"control":     "ctrl",
	"alt":         "alt",
	"shift":       "shift",
	"cmd":         "super",
	"command":     "super",
	"super":       "super",
}

// KeySym translates a key name such as "enter" or "f5" to its X keysym.
// Unknown names pass through unchanged.
func KeySym(name string) string {
	lower := strings.ToLower(name)
	if s, ok := keysyms[lower]; ok {
		return s
	}
	if len(lower) >= 2 && lower[0] == 'f' {
		if n, err := strconv.Atoi(lower[1:]); err == nil && n >= 1 && n <= 24 {
			return "F" + lower[1:]
		}
	}
	return name
}
