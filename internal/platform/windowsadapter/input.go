//go:build windows

package windowsadapter

import (
	"fmt"
	"unsafe"

	"github.com/cup-project/cup/internal/cupnode/actions"
)

// Win32 SendInput plumbing: the INPUT/MOUSEINPUT/KEYBDINPUT structure
// layout is mirrored by hand since no binding exposes it.

const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseEventfMove      = 0x0001
	mouseEventfLeftDown  = 0x0002
	mouseEventfLeftUp    = 0x0004
	mouseEventfRightDown = 0x0008
	mouseEventfRightUp   = 0x0010
	mouseEventfWheel     = 0x0800
	mouseEventfHwheel    = 0x1000
	mouseEventfAbsolute  = 0x8000

	wheelDelta = 120

	keyEventfExtendedKey = 0x0001
	keyEventfKeyUp       = 0x0002
	keyEventfUnicode     = 0x0004
)

// keybdInput mirrors KEYBDINPUT padded to the same union size SendInput
// expects (32 bytes past the INPUT.type/padding header, matching
// MOUSEINPUT's width on 64-bit Windows).
type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	_           uint32
	dwExtraInfo uint64
	_           [8]byte
}

type keyboardINPUT struct {
	typ uint32
	_   uint32
	ki  keybdInput
}

type mouseInput struct {
	dx, dy      int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	_           uint32
	dwExtraInfo uint64
}

type mouseINPUT struct {
	typ uint32
	_   uint32
	mi  mouseInput
}

const sizeofINPUT = 40

func sendKeyboardInputs(inputs []keyboardINPUT) error {
	if len(inputs) == 0 {
		return nil
	}
	sent, _, _ := procSendInput.Call(uintptr(len(inputs)), uintptr(unsafe.Pointer(&inputs[0])), sizeofINPUT)
	if sent == 0 {
		return fmt.Errorf("SendInput failed, sent 0/%d keyboard events", len(inputs))
	}
	return nil
}

func sendMouseInputs(inputs []mouseINPUT) error {
	if len(inputs) == 0 {
		return nil
	}
	sent, _, _ := procSendInput.Call(uintptr(len(inputs)), uintptr(unsafe.Pointer(&inputs[0])), sizeofINPUT)
	if sent == 0 {
		return fmt.Errorf("SendInput failed, sent 0/%d mouse events", len(inputs))
	}
	return nil
}

// vkMap maps normalised combo key names to virtual-key codes.
var vkMap = map[string]uint16{
	"enter": 0x0D, "tab": 0x09, "escape": 0x1B, "backspace": 0x08,
	"delete": 0x2E, "space": 0x20,
	"up": 0x26, "down": 0x28, "left": 0x25, "right": 0x27,
	"home": 0x24, "end": 0x23, "pageup": 0x21, "pagedown": 0x22,
	"f1": 0x70, "f2": 0x71, "f3": 0x72, "f4": 0x73, "f5": 0x74, "f6": 0x75,
	"f7": 0x76, "f8": 0x77, "f9": 0x78, "f10": 0x79, "f11": 0x7A, "f12": 0x7B,
}

var modifierVKs = map[string]uint16{
	"ctrl": 0xA2, "alt": 0xA4, "shift": 0xA0, "meta": 0x5B,
}

// extendedVKs marks keys that require KEYEVENTF_EXTENDEDKEY.
var extendedVKs = map[uint16]bool{
	0x26: true, 0x28: true, 0x25: true, 0x27: true,
	0x24: true, 0x23: true, 0x21: true, 0x22: true,
	0x2E: true, 0x5B: true, 0x5C: true,
}

func makeKeyInput(vk uint16, down bool) keyboardINPUT {
	flags := uint32(0)
	if !down {
		flags |= keyEventfKeyUp
	}
	if extendedVKs[vk] {
		flags |= keyEventfExtendedKey
	}
	return keyboardINPUT{typ: inputKeyboard, ki: keybdInput{wVk: vk, dwFlags: flags}}
}

// resolveComboVKs maps a parsed combo's modifier/key names to VK codes,
// reclassifying a modifier-only combo as a main-key press (already done by
// actions.ParseCombo, so this just looks codes up).
func resolveComboVKs(modifiers, keys []string) (modVKs, keyVKs []uint16) {
	for _, m := range modifiers {
		if vk, ok := modifierVKs[m]; ok {
			modVKs = append(modVKs, vk)
		}
	}
	for _, k := range keys {
		if vk, ok := vkMap[k]; ok {
			keyVKs = append(keyVKs, vk)
		} else if r := []rune(k); len(r) == 1 {
			ret, _, _ := procVkKeyScanW.Call(uintptr(r[0]))
			keyVKs = append(keyVKs, uint16(ret&0xff))
		}
	}
	return modVKs, keyVKs
}

// sendKeyCombo parses and sends a combo via SendInput, pressing
// modifiers down first so the OS registers modifier state before the
// main key — important for system hotkeys.
func sendKeyCombo(combo string) error {
	modNames, keyNames := actions.ParseCombo(combo)
	modVKs, keyVKs := resolveComboVKs(modNames, keyNames)

	var inputs []keyboardINPUT
	for _, vk := range modVKs {
		inputs = append(inputs, makeKeyInput(vk, true))
	}
	for _, vk := range keyVKs {
		inputs = append(inputs, makeKeyInput(vk, true))
	}
	for i := len(keyVKs) - 1; i >= 0; i-- {
		inputs = append(inputs, makeKeyInput(keyVKs[i], false))
	}
	for i := len(modVKs) - 1; i >= 0; i-- {
		inputs = append(inputs, makeKeyInput(modVKs[i], false))
	}
	if len(inputs) == 0 {
		return fmt.Errorf("could not resolve any key codes from combo %q", combo)
	}
	return sendKeyboardInputs(inputs)
}

// sendUnicodeString types text via KEYEVENTF_UNICODE scan codes, which
// preserves arbitrary characters SendInput's VK mapping would mangle.
func sendUnicodeString(text string) error {
	var inputs []keyboardINPUT
	for _, r := range text {
		inputs = append(inputs, keyboardINPUT{typ: inputKeyboard, ki: keybdInput{wScan: uint16(r), dwFlags: keyEventfUnicode}})
		inputs = append(inputs, keyboardINPUT{typ: inputKeyboard, ki: keybdInput{wScan: uint16(r), dwFlags: keyEventfUnicode | keyEventfKeyUp}})
	}
	if len(inputs) == 0 {
		return nil
	}
	return sendKeyboardInputs(inputs)
}

func screenToAbsolute(x, y int) (int32, int32) {
	sw, sh := screenSize()
	if sw == 0 {
		sw = 1
	}
	if sh == 0 {
		sh = 1
	}
	return int32(x * 65535 / sw), int32(y * 65535 / sh)
}

// sendMouseClick moves the cursor to (x,y) and sends count click(s) of the
// given button.
func sendMouseClick(x, y int, button string, count int) error {
	ax, ay := screenToAbsolute(x, y)
	downFlag, upFlag := uint32(mouseEventfLeftDown), uint32(mouseEventfLeftUp)
	if button == "right" {
		downFlag, upFlag = mouseEventfRightDown, mouseEventfRightUp
	}

	inputs := []mouseINPUT{{typ: inputMouse, mi: mouseInput{dx: ax, dy: ay, dwFlags: mouseEventfMove | mouseEventfAbsolute}}}
	for i := 0; i < count; i++ {
		inputs = append(inputs,
			mouseINPUT{typ: inputMouse, mi: mouseInput{dx: ax, dy: ay, dwFlags: downFlag | mouseEventfAbsolute}},
			mouseINPUT{typ: inputMouse, mi: mouseInput{dx: ax, dy: ay, dwFlags: upFlag | mouseEventfAbsolute}},
		)
	}
	return sendMouseInputs(inputs)
}

func sendMouseDown(x, y int, button string) error {
	ax, ay := screenToAbsolute(x, y)
	flag := uint32(mouseEventfLeftDown)
	if button == "right" {
		flag = mouseEventfRightDown
	}
	return sendMouseInputs([]mouseINPUT{
		{typ: inputMouse, mi: mouseInput{dx: ax, dy: ay, dwFlags: mouseEventfMove | mouseEventfAbsolute}},
		{typ: inputMouse, mi: mouseInput{dx: ax, dy: ay, dwFlags: flag | mouseEventfAbsolute}},
	})
}

func sendMouseUp(x, y int, button string) error {
	ax, ay := screenToAbsolute(x, y)
	flag := uint32(mouseEventfLeftUp)
	if button == "right" {
		flag = mouseEventfRightUp
	}
	return sendMouseInputs([]mouseINPUT{
		{typ: inputMouse, mi: mouseInput{dx: ax, dy: ay, dwFlags: flag | mouseEventfAbsolute}},
	})
}

// sendWheel moves the cursor to (x,y) and sends one wheel tick in the
// given direction.
func sendWheel(x, y int, direction string) error {
	ax, ay := screenToAbsolute(x, y)
	move := mouseINPUT{typ: inputMouse, mi: mouseInput{dx: ax, dy: ay, dwFlags: mouseEventfMove | mouseEventfAbsolute}}

	var flag uint32
	var delta int32
	switch direction {
	case "up":
		flag, delta = mouseEventfWheel, wheelDelta
	case "down":
		flag, delta = mouseEventfWheel, -wheelDelta
	case "left":
		flag, delta = mouseEventfHwheel, -wheelDelta
	case "right":
		flag, delta = mouseEventfHwheel, wheelDelta
	default:
		flag, delta = mouseEventfWheel, -wheelDelta
	}
	wheel := mouseINPUT{typ: inputMouse, mi: mouseInput{dx: ax, dy: ay, mouseData: uint32(delta), dwFlags: flag | mouseEventfAbsolute}}
	return sendMouseInputs([]mouseINPUT{move, wheel})
}
