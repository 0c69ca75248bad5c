//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework Foundation -framework Carbon
#include <CoreGraphics/CoreGraphics.h>
#include <Carbon/Carbon.h>

// button: 0=left, 1=right, 2=middle
static int cg_click(float x, float y, int button, int count) {
    CGPoint point = CGPointMake(x, y);
    CGEventType downType, upType;
    CGMouseButton cgButton;

    switch (button) {
        case 1:
            cgButton = kCGMouseButtonRight;
            downType = kCGEventRightMouseDown;
            upType = kCGEventRightMouseUp;
            break;
        case 2:
            cgButton = kCGMouseButtonCenter;
            downType = kCGEventOtherMouseDown;
            upType = kCGEventOtherMouseUp;
            break;
        default:
            cgButton = kCGMouseButtonLeft;
            downType = kCGEventLeftMouseDown;
            upType = kCGEventLeftMouseUp;
            break;
    }

    for (int i = 0; i < count; i++) {
        CGEventRef down = CGEventCreateMouseEvent(NULL, downType, point, cgButton);
        CGEventRef up = CGEventCreateMouseEvent(NULL, upType, point, cgButton);
        if (!down || !up) {
            if (down) CFRelease(down);
            if (up) CFRelease(up);
            return -1;
        }
        CGEventSetIntegerValueField(down, kCGMouseEventClickState, i + 1);
        CGEventSetIntegerValueField(up, kCGMouseEventClickState, i + 1);
        CGEventPost(kCGHIDEventTap, down);
        CGEventPost(kCGHIDEventTap, up);
        CFRelease(down);
        CFRelease(up);
    }
    return 0;
}

static int cg_move_mouse(float x, float y) {
    CGEventRef move = CGEventCreateMouseEvent(NULL, kCGEventMouseMoved, CGPointMake(x, y), kCGMouseButtonLeft);
    if (!move) return -1;
    CGEventPost(kCGHIDEventTap, move);
    CFRelease(move);
    return 0;
}

// Types one character given as one or two UTF-16 code units.
static int cg_type_units(UniChar *units, int n) {
    CGEventRef keyDown = CGEventCreateKeyboardEvent(NULL, 0, true);
    CGEventRef keyUp = CGEventCreateKeyboardEvent(NULL, 0, false);
    if (!keyDown || !keyUp) {
        if (keyDown) CFRelease(keyDown);
        if (keyUp) CFRelease(keyUp);
        return -1;
    }
    CGEventKeyboardSetUnicodeString(keyDown, n, units);
    CGEventKeyboardSetUnicodeString(keyUp, n, units);
    CGEventPost(kCGHIDEventTap, keyDown);
    CGEventPost(kCGHIDEventTap, keyUp);
    CFRelease(keyDown);
    CFRelease(keyUp);
    return 0;
}

static int cg_key_combo(CGKeyCode keyCode, CGEventFlags modifiers) {
    CGEventRef keyDown = CGEventCreateKeyboardEvent(NULL, keyCode, true);
    CGEventRef keyUp = CGEventCreateKeyboardEvent(NULL, keyCode, false);
    if (!keyDown || !keyUp) {
        if (keyDown) CFRelease(keyDown);
        if (keyUp) CFRelease(keyUp);
        return -1;
    }
    CGEventSetFlags(keyDown, modifiers);
    CGEventSetFlags(keyUp, modifiers);
    CGEventPost(kCGHIDEventTap, keyDown);
    CGEventPost(kCGHIDEventTap, keyUp);
    CFRelease(keyDown);
    CFRelease(keyUp);
    return 0;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/mj1618/desktop-scenarios/internal/platform"
)

// Inputter implements platform.Inputter with CoreGraphics events.
type Inputter struct{}

// NewInputter creates a macOS inputter.
func NewInputter() *Inputter {
	return &Inputter{}
}

func (inp *Inputter) Click(x, y int, button platform.MouseButton, count int) error {
	if count < 1 {
		count = 1
	}
	cButton := C.int(0)
	switch button {
	case platform.MouseRight:
		cButton = 1
	case platform.MouseMiddle:
		cButton = 2
	}
	if C.cg_click(C.float(x), C.float(y), cButton, C.int(count)) != 0 {
		return fmt.Errorf("failed to %s-click at (%d, %d)", button, x, y)
	}
	return nil
}

func (inp *Inputter) MoveMouse(x, y int) error {
	if C.cg_move_mouse(C.float(x), C.float(y)) != 0 {
		return fmt.Errorf("failed to move mouse to (%d, %d)", x, y)
	}
	return nil
}

func (inp *Inputter) TypeText(text string, delayMs int) error {
	for _, r := range text {
		units := utf16.Encode([]rune{r})
		if C.cg_type_units((*C.UniChar)(&units[0]), C.int(len(units))) != 0 {
			return fmt.Errorf("failed to type %q", r)
		}
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}
	}
	return nil
}

func (inp *Inputter) KeyCombo(keys []string) error {
	keyCode, modifiers, err := parseKeyCombo(keys)
	if err != nil {
		return err
	}
	if C.cg_key_combo(C.CGKeyCode(keyCode), C.CGEventFlags(modifiers)) != 0 {
		return fmt.Errorf("failed to press %s", strings.Join(keys, "+"))
	}
	return nil
}

// macOS virtual key codes from Carbon Events.h.
var keyCodeMap = map[string]uint16{
	"a": 0x00, "b": 0x0B, "c": 0x08, "d": 0x02, "e": 0x0E, "f": 0x03,
	"g": 0x05, "h": 0x04, "i": 0x22, "j": 0x26, "k": 0x28, "l": 0x25,
	"m": 0x2E, "n": 0x2D, "o": 0x1F, "p": 0x23, "q": 0x0C, "r": 0x0F,
	"s": 0x01, "t": 0x11, "u": 0x20, "v": 0x09, "w": 0x0D, "x": 0x07,
	"y": 0x10, "z": 0x06,
	"0": 0x1D, "1": 0x12, "2": 0x13, "3": 0x14, "4": 0x15,
	"5": 0x17, "6": 0x16, "7": 0x1A, "8": 0x1C, "9": 0x19,
	"return": 0x24, "enter": 0x24, "tab": 0x30, "space": 0x31,
	"backspace": 0x33, "delete": 0x75, "escape": 0x35, "esc": 0x35,
	"up": 0x7E, "down": 0x7D, "left": 0x7B, "right": 0x7C,
	"home": 0x73, "end": 0x77, "pageup": 0x74, "pagedown": 0x79,
	"insert": 0x72, "printscreen": 0x69,
	"ctrlleft": 0x3B, "ctrlright": 0x3E, "altleft": 0x3A, "altright": 0x3D,
	"shiftleft": 0x38, "shiftright": 0x3C, "winleft": 0x37, "winright": 0x36,
	"f1": 0x7A, "f2": 0x78, "f3": 0x63, "f4": 0x76, "f5": 0x60,
	"f6": 0x61, "f7": 0x62, "f8": 0x64, "f9": 0x65, "f10": 0x6D,
	"f11": 0x67, "f12": 0x6F,
}

var modifierMap = map[string]uint64{
	"cmd": uint64(C.kCGEventFlagMaskCommand), "command": uint64(C.kCGEventFlagMaskCommand),
	"shift": uint64(C.kCGEventFlagMaskShift),
	"ctrl": uint64(C.kCGEventFlagMaskControl), "control": uint64(C.kCGEventFlagMaskControl),
	"alt": uint64(C.kCGEventFlagMaskAlternate), "opt": uint64(C.kCGEventFlagMaskAlternate), "option": uint64(C.kCGEventFlagMaskAlternate),
}

func parseKeyCombo(keys []string) (uint16, uint64, error) {
	var modifiers uint64
	var keyCode uint16
	found := false

	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if mod, ok := modifierMap[k]; ok {
			modifiers |= mod
		} else if code, ok := keyCodeMap[k]; ok {
			keyCode = code
			found = true
		} else {
			return 0, 0, fmt.Errorf("unknown key: %q", k)
		}
	}
	if !found {
		return 0, 0, errors.New("no key specified in combo, only modifiers")
	}
	return keyCode, modifiers, nil
}
