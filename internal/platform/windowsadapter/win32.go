//go:build windows

package windowsadapter

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var modUser32 = windows.NewLazySystemDLL("user32.dll")

var (
	procEnumWindows              = modUser32.NewProc("EnumWindows")
	procGetWindowTextW           = modUser32.NewProc("GetWindowTextW")
	procIsWindowVisible          = modUser32.NewProc("IsWindowVisible")
	procGetForegroundWindow      = modUser32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessID = modUser32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect            = modUser32.NewProc("GetWindowRect")
	procGetSystemMetrics         = modUser32.NewProc("GetSystemMetrics")
	procFindWindowW              = modUser32.NewProc("FindWindowW")
	procFindWindowExW            = modUser32.NewProc("FindWindowExW")
	procSetForegroundWindow      = modUser32.NewProc("SetForegroundWindow")
	procSendInput                = modUser32.NewProc("SendInput")
	procVkKeyScanW               = modUser32.NewProc("VkKeyScanW")
	procGetDpiForSystem          = modUser32.NewProc("GetDpiForSystem")
)

type rect struct{ Left, Top, Right, Bottom int32 }

type winEntry struct {
	hwnd  uintptr
	title string
}

// enumWindows lists top-level visible windows via Win32 EnumWindows —
// near-instant compared to a UIA root walk.
func enumWindows() []winEntry {
	var out []winEntry
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(hwnd)
		if visible == 0 {
			return 1
		}
		buf := make([]uint16, 512)
		n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), 512)
		title := ""
		if n > 0 {
			title = windows.UTF16ToString(buf[:n])
		}
		out = append(out, winEntry{hwnd: hwnd, title: title})
		return 1
	})
	procEnumWindows.Call(cb, 0)
	return out
}

func foregroundWindow() (uintptr, string) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), 512)
	title := ""
	if n > 0 {
		title = windows.UTF16ToString(buf[:n])
	}
	return hwnd, title
}

func windowPID(hwnd uintptr) int {
	var pid uint32
	procGetWindowThreadProcessID.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return int(pid)
}

func windowRect(hwnd uintptr) (x, y, w, h int, ok bool) {
	var r rect
	ret, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return 0, 0, 0, 0, false
	}
	return int(r.Left), int(r.Top), int(r.Right - r.Left), int(r.Bottom - r.Top), true
}

func screenSize() (int, int) {
	w, _, _ := procGetSystemMetrics.Call(0)
	h, _, _ := procGetSystemMetrics.Call(1)
	return int(w), int(h)
}

func screenScale() float64 {
	dpi, _, _ := procGetDpiForSystem.Call()
	if dpi == 0 {
		return 1.0
	}
	return float64(dpi) / 96.0
}

// findDesktopHWND locates the Progman/WorkerW window hosting the desktop
// icons, for ScopeDesktop captures.
func findDesktopHWND() (uintptr, bool) {
	progmanName, _ := windows.UTF16PtrFromString("Progman")
	shellViewName, _ := windows.UTF16PtrFromString("SHELLDLL_DefView")

	progman, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(progmanName)), 0)
	if progman != 0 {
		shellView, _, _ := procFindWindowExW.Call(progman, 0, uintptr(unsafe.Pointer(shellViewName)), 0)
		if shellView != 0 {
			return progman, true
		}
	}

	var found uintptr
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		shellView, _, _ := procFindWindowExW.Call(hwnd, 0, uintptr(unsafe.Pointer(shellViewName)), 0)
		if shellView != 0 {
			found = hwnd
			return 0
		}
		return 1
	})
	procEnumWindows.Call(cb, 0)
	if found != 0 {
		return found, true
	}
	return 0, false
}

func setForegroundWindow(hwnd uintptr) {
	procSetForegroundWindow.Call(hwnd)
}
