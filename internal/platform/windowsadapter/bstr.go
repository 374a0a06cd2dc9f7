//go:build windows

package windowsadapter

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modoleaut32        = windows.NewLazySystemDLL("oleaut32.dll")
	procSysStringLen   = modoleaut32.NewProc("SysStringLen")
	procSysFreeString  = modoleaut32.NewProc("SysFreeString")
	procSysAllocString = modoleaut32.NewProc("SysAllocStringLen")
)

// newBSTR allocates a BSTR from a Go string for passing into a COM method
// that takes ownership of the pointer only for the duration of the call
// (ValuePattern.SetValue). The caller must invoke the returned free func
// once the call returns.
func newBSTR(s string) (ptr uintptr, free func()) {
	u16 := windows.StringToUTF16(s)
	n := len(u16) - 1 // StringToUTF16 includes the trailing NUL
	if n < 0 {
		n = 0
	}
	p, _, _ := procSysAllocString.Call(uintptr(unsafe.Pointer(&u16[0])), uintptr(n))
	return p, func() { procSysFreeString.Call(p) }
}

// bstrToString reads a BSTR (a length-prefixed UTF-16 string COM methods
// return ownership of to the caller) into a Go string and frees it.
func bstrToString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	defer procSysFreeString.Call(ptr)

	lenChars, _, _ := procSysStringLen.Call(ptr)
	if lenChars == 0 {
		return ""
	}
	u16 := unsafe.Slice((*uint16)(unsafe.Pointer(ptr)), lenChars)
	return windows.UTF16ToString(u16)
}
