//go:build linux

package linuxadapter

import (
	"fmt"
	"time"

	"github.com/cup-project/cup/internal/cupnode/actions"
)

// X11 keysym values for named keys (keysymdef.h).
var namedKeysyms = map[string]uint64{
	"enter":     0xff0d,
	"tab":       0xff09,
	"escape":    0xff1b,
	"space":     0x0020,
	"backspace": 0xff08,
	"delete":    0xffff,
	"insert":    0xff63,
	"home":      0xff50,
	"end":       0xff57,
	"pageup":    0xff55,
	"pagedown":  0xff56,
	"up":        0xff52,
	"down":      0xff54,
	"left":      0xff51,
	"right":     0xff53,
	"f1":        0xffbe,
	"f2":        0xffbf,
	"f3":        0xffc0,
	"f4":        0xffc1,
	"f5":        0xffc2,
	"f6":        0xffc3,
	"f7":        0xffc4,
	"f8":        0xffc5,
	"f9":        0xffc6,
	"f10":       0xffc7,
	"f11":       0xffc8,
	"f12":       0xffc9,
	"ctrl":      0xffe3, // Control_L
	"shift":     0xffe1, // Shift_L
	"alt":       0xffe9, // Alt_L
	"meta":      0xffeb, // Super_L
}

// shiftedASCII maps characters that live on the shifted layer of a US
// keyboard to their unshifted key's keysym.
var shiftedASCII = map[rune]uint64{
	'!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
	'^': '6', '&': '7', '*': '8', '(': '9', ')': '0',
	'_': '-', '+': '=', '{': '[', '}': ']', '|': '\\',
	':': ';', '"': '\'', '<': ',', '>': '.', '?': '/',
	'~': '`',
}

// keysymFor resolves a single key token to (keysym, needsShift).
func keysymFor(key string) (uint64, bool, error) {
	if sym, found := namedKeysyms[key]; found {
		return sym, false, nil
	}
	runes := []rune(key)
	if len(runes) != 1 {
		return 0, false, fmt.Errorf("unrecognized key %q", key)
	}
	r := runes[0]
	if sym, shifted := shiftedASCII[r]; shifted {
		return sym, true, nil
	}
	if r >= 'A' && r <= 'Z' {
		return uint64(r + 32), true, nil
	}
	if r >= 0x20 && r <= 0x7e {
		return uint64(r), false, nil
	}
	// Non-Latin-1 characters use the Unicode keysym range; whether XTest
	// can produce them depends on the active keymap.
	return 0x01000000 + uint64(r), false, nil
}

// sendKeyCombo parses a combo string and plays it as XTest key events:
// modifiers down, each main key tapped, modifiers up in reverse.
func sendKeyCombo(combo string) error {
	modifiers, keys := actions.ParseCombo(combo)
	if len(keys) == 0 {
		return fmt.Errorf("empty key combo %q", combo)
	}

	for _, mod := range modifiers {
		sym, _, err := keysymFor(mod)
		if err != nil {
			return err
		}
		x11.sendKey(sym, true)
	}
	for _, key := range keys {
		sym, needsShift, err := keysymFor(key)
		if err != nil {
			releaseModifiers(modifiers)
			return err
		}
		if needsShift {
			x11.sendKey(namedKeysyms["shift"], true)
		}
		x11.sendKey(sym, true)
		x11.sendKey(sym, false)
		if needsShift {
			x11.sendKey(namedKeysyms["shift"], false)
		}
		time.Sleep(10 * time.Millisecond)
	}
	releaseModifiers(modifiers)
	return nil
}

func releaseModifiers(modifiers []string) {
	for i := len(modifiers) - 1; i >= 0; i-- {
		if sym, _, err := keysymFor(modifiers[i]); err == nil {
			x11.sendKey(sym, false)
		}
	}
}

// sendString types text one character at a time. Control characters go
// through their named keysyms since many toolkits drop them otherwise.
func sendString(text string) error {
	for _, r := range text {
		switch r {
		case '\n':
			x11.sendKey(namedKeysyms["enter"], true)
			x11.sendKey(namedKeysyms["enter"], false)
			continue
		case '\t':
			x11.sendKey(namedKeysyms["tab"], true)
			x11.sendKey(namedKeysyms["tab"], false)
			continue
		}
		sym, needsShift, err := keysymFor(string(r))
		if err != nil {
			return err
		}
		if needsShift {
			x11.sendKey(namedKeysyms["shift"], true)
		}
		x11.sendKey(sym, true)
		x11.sendKey(sym, false)
		if needsShift {
			x11.sendKey(namedKeysyms["shift"], false)
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}
