//go:build darwin

package macosadapter

/*
#include "bridge.h"
*/
import "C"
import (
	"strings"
	"unicode/utf16"
	"unsafe"

	"github.com/cup-project/cup/internal/cupnode/actions"
)

// CGEventFlags modifier bits (CGEventTypes.h), used instead of the
// x/sys/windows virtual-key table the Windows adapter relies on since
// there is no equivalent cgo-free Go binding for Quartz Event Services.
const (
	flagShift   = 0x00020000
	flagControl = 0x00040000
	flagOption  = 0x00080000
	flagCommand = 0x00100000
)

const (
	eventLeftMouseDown  = 1
	eventLeftMouseUp    = 2
	eventRightMouseDown = 3
	eventRightMouseUp   = 4
	eventOtherMouseDown = 25
	eventOtherMouseUp   = 26
)

const (
	buttonLeft   = 0
	buttonRight  = 1
	buttonCenter = 2
)

// keyCodeMap maps normalized key names to macOS virtual key codes
// (Carbon/HIToolbox HIToolboxEvents.h kVK_* constants), covering the
// alphanumeric row, navigation, and editing keys CUP's key-combo syntax
// exposes.
var keyCodeMap = map[string]C.CGKeyCode{
	"a": 0, "s": 1, "d": 2, "f": 3, "h": 4, "g": 5, "z": 6, "x": 7, "c": 8, "v": 9,
	"b": 11, "q": 12, "w": 13, "e": 14, "r": 15, "y": 16, "t": 17,
	"1": 18, "2": 19, "3": 20, "4": 21, "6": 22, "5": 23, "equal": 24, "9": 25, "7": 26,
	"minus": 27, "8": 28, "0": 29, "rightbracket": 30, "o": 31, "u": 32,
	"leftbracket": 33, "i": 34, "p": 35, "enter": 36, "l": 37, "j": 38, "quote": 39,
	"k": 40, "semicolon": 41, "backslash": 42, "comma": 43, "slash": 44, "n": 45, "m": 46,
	"period": 47, "tab": 48, "space": 49, "backtick": 50, "backspace": 51, "escape": 53,
	"f17": 64, "f18": 79, "f19": 80, "f20": 90,
	"f5": 96, "f6": 97, "f7": 98, "f3": 99, "f8": 100, "f9": 101, "f11": 103,
	"f13": 105, "f16": 106, "f14": 107, "f10": 109, "f12": 111, "f15": 113,
	"home": 115, "pageup": 116, "delete": 117, "f4": 118, "end": 119,
	"f2": 120, "pagedown": 121, "f1": 122, "left": 123, "right": 124,
	"down": 125, "up": 126,
}

// modifierFlags accumulates the CGEventFlags bitmask for a ParseCombo
// modifier list.
func modifierFlags(mods []string) C.CGEventFlags {
	var flags C.CGEventFlags
	for _, m := range mods {
		switch m {
		case "shift":
			flags |= flagShift
		case "ctrl":
			flags |= flagControl
		case "alt":
			flags |= flagOption
		case "meta":
			flags |= flagCommand
		}
	}
	return flags
}

func sendKeyEvent(code C.CGKeyCode, down bool, flags C.CGEventFlags) {
	var downC C.int
	if down {
		downC = 1
	}
	C.cg_send_key_event(code, downC, C.ulong(flags))
}

// sendKeyCombo presses every key in combo in order with the parsed
// modifiers held down, mirroring windowsadapter's sendKeyCombo shape
// while going through CGEventCreateKeyboardEvent instead of SendInput.
func sendKeyCombo(combo string) bool {
	mods, keys := actions.ParseCombo(combo)
	if len(keys) == 0 {
		return false
	}
	flags := modifierFlags(mods)
	ok := true
	for _, k := range keys {
		code, found := keyCodeMap[k]
		if !found {
			ok = false
			continue
		}
		sendKeyEvent(code, true, flags)
		sendKeyEvent(code, false, flags)
	}
	return ok
}

// sendUnicodeString types literal text through a Unicode keyboard event,
// bypassing key-code lookup entirely.
func sendUnicodeString(s string) {
	if s == "" {
		return
	}
	units := utf16.Encode([]rune(s))
	if len(units) == 0 {
		return
	}
	cbuf := make([]C.ushort, len(units))
	for i, u := range units {
		cbuf[i] = C.ushort(u)
	}
	C.cg_send_unicode_string((*C.ushort)(unsafe.Pointer(&cbuf[0])), C.int(len(cbuf)), 1)
	C.cg_send_unicode_string((*C.ushort)(unsafe.Pointer(&cbuf[0])), C.int(len(cbuf)), 0)
}

func sendMouseClick(x, y int, button string) {
	fx, fy := C.double(x), C.double(y)
	switch strings.ToLower(button) {
	case "right":
		C.cg_send_mouse_event(eventRightMouseDown, fx, fy, buttonRight)
		C.cg_send_mouse_event(eventRightMouseUp, fx, fy, buttonRight)
	case "middle":
		C.cg_send_mouse_event(eventOtherMouseDown, fx, fy, buttonCenter)
		C.cg_send_mouse_event(eventOtherMouseUp, fx, fy, buttonCenter)
	default:
		C.cg_send_mouse_event(eventLeftMouseDown, fx, fy, buttonLeft)
		C.cg_send_mouse_event(eventLeftMouseUp, fx, fy, buttonLeft)
	}
}

func sendMouseMove(x, y int) {
	C.cg_send_mouse_event(5, C.double(x), C.double(y), buttonLeft)
}

func sendMouseDown(x, y int) {
	C.cg_send_mouse_event(eventLeftMouseDown, C.double(x), C.double(y), buttonLeft)
}

func sendMouseUp(x, y int) {
	C.cg_send_mouse_event(eventLeftMouseUp, C.double(x), C.double(y), buttonLeft)
}

// sendScroll posts one scroll-wheel tick in the given direction.
func sendScroll(direction string) {
	switch direction {
	case "up":
		C.cg_send_scroll_event(3, 0)
	case "down":
		C.cg_send_scroll_event(-3, 0)
	case "left":
		C.cg_send_scroll_event(0, -3)
	case "right":
		C.cg_send_scroll_event(0, 3)
	default:
		C.cg_send_scroll_event(-3, 0)
	}
}
