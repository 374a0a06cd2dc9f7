//go:build windows

package windowsadapter

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// This file is a hand-rolled COM client for IUIAutomation — no pure-Go
// UIA binding exists. golang.org/x/sys/windows gives us
// CoCreateInstance/CoInitializeEx and raw syscalls; everything past that
// (vtable method dispatch) is implemented here the same way hand-written
// Go COM clients elsewhere do it: a GUID table, an IUnknown wrapper, and a
// generic vtable-slot invoker.

var (
	modole32 = windows.NewLazySystemDLL("ole32.dll")

	procCoInitializeEx   = modole32.NewProc("CoInitializeEx")
	procCoCreateInstance = modole32.NewProc("CoCreateInstance")
	procCoUninitialize   = modole32.NewProc("CoUninitialize")
)

// guid mirrors the Win32 GUID layout for syscall parameter passing.
type guid struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// clsidCUIAutomation / iidIUIAutomation are the well-known identifiers for
// the UI Automation COM server and its core interface
// (UIAutomationClient.h: CUIAutomation, IUIAutomation).
var (
	clsidCUIAutomation = guid{0xff48dba4, 0x60ef, 0x4201, [8]byte{0xaa, 0x87, 0x54, 0x10, 0x3e, 0xef, 0x59, 0x4e}}
	iidIUIAutomation   = guid{0x30cbe57d, 0xd9d0, 0x452a, [8]byte{0xab, 0x13, 0x7a, 0xc5, 0xac, 0x48, 0x25, 0xee}}
)

const clsctxInprocServer = 0x1

// comObject wraps a raw COM interface pointer: the first field of any COM
// object is a pointer to its vtable, whose first three slots are always
// IUnknown's QueryInterface/AddRef/Release.
type comObject struct {
	ptr uintptr
}

func (o comObject) valid() bool { return o.ptr != 0 }

func (o comObject) vtable() uintptr {
	return *(*uintptr)(unsafe.Pointer(o.ptr))
}

// call invokes the method at vtable slot index (0-based, IUnknown's three
// slots included in the count) with this object as the implicit first
// argument.
func (o comObject) call(index int, args ...uintptr) (uintptr, error) {
	if !o.valid() {
		return 0, fmt.Errorf("com: nil interface pointer")
	}
	slot := *(*uintptr)(unsafe.Pointer(o.vtable() + uintptr(index)*unsafe.Sizeof(uintptr(0))))
	full := append([]uintptr{o.ptr}, args...)
	ret, _, _ := syscall.SyscallN(slot, full...)
	return ret, nil
}

func (o comObject) release() {
	if o.valid() {
		o.call(2) // IUnknown::Release
	}
}

// initCOM calls CoInitializeEx(COINIT_APARTMENTTHREADED), matching
// comtypes' implicit apartment-threaded initialisation on first COM use.
func initCOM() error {
	const coinitApartmentThreaded = 0x2
	ret, _, _ := procCoInitializeEx.Call(0, uintptr(coinitApartmentThreaded))
	// S_OK (0) or S_FALSE (1, already initialised) are both fine.
	if int32(ret) < 0 {
		return fmt.Errorf("CoInitializeEx failed: 0x%x", uint32(ret))
	}
	return nil
}

// createUIAutomation instantiates the CUIAutomation COM server and
// returns its IUIAutomation interface.
func createUIAutomation() (comObject, error) {
	var obj comObject
	ret, _, _ := procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&clsidCUIAutomation)),
		0,
		uintptr(clsctxInprocServer),
		uintptr(unsafe.Pointer(&iidIUIAutomation)),
		uintptr(unsafe.Pointer(&obj.ptr)),
	)
	if int32(ret) < 0 {
		return comObject{}, fmt.Errorf("CoCreateInstance(CUIAutomation) failed: 0x%x", uint32(ret))
	}
	return obj, nil
}

// IUIAutomation vtable slot indices, counting IUnknown's 3 slots first,
// in IDL declaration order (UIAutomationClient.idl).
const (
	slotCompareElements = 3 + iota
	slotCompareRuntimeIds
	slotGetRootElement
	slotElementFromHandle
	slotElementFromPoint
	slotGetFocusedElement
	slotGetRootElementBuildCache
	slotElementFromHandleBuildCache
	slotElementFromPointBuildCache
	slotGetFocusedElementBuildCache
	slotCreateTreeWalker
	slotGetControlViewWalker
	slotGetContentViewWalker
	slotGetRawViewWalker
	slotGetRawViewCondition
	slotGetControlViewCondition
	slotGetContentViewCondition
	slotCreateCacheRequest
	slotCreateTrueCondition
	slotCreateFalseCondition
	slotCreatePropertyCondition
)

func (o comObject) elementFromHandleBuildCache(hwnd windows.HWND, cacheReq comObject) (comObject, error) {
	var out comObject
	_, err := o.call(slotElementFromHandleBuildCache, uintptr(hwnd), cacheReq.ptr, uintptr(unsafe.Pointer(&out.ptr)))
	return out, err
}

func (o comObject) createCacheRequest() (comObject, error) {
	var out comObject
	_, err := o.call(slotCreateCacheRequest, uintptr(unsafe.Pointer(&out.ptr)))
	return out, err
}

// ICacheRequest vtable slots (UIAutomationClient.idl IUIAutomationCacheRequest).
const (
	slotCRAddProperty = 3 + iota
	slotCRAddPattern
	slotCRClone
	slotCRPutAutomationElementMode
	slotCRGetAutomationElementMode
	slotCRGetTreeFilter
	slotCRPutTreeFilter
	slotCRPutTreeScope
	slotCRGetTreeScope
)

const (
	automationElementModeFull = 1
	treeScopeSubtree          = 7
)

func (o comObject) addProperty(propertyID int) error {
	_, err := o.call(slotCRAddProperty, uintptr(propertyID))
	return err
}

func (o comObject) setElementMode(mode int) error {
	_, err := o.call(slotCRPutAutomationElementMode, uintptr(mode))
	return err
}

func (o comObject) setTreeScope(scope int) error {
	_, err := o.call(slotCRPutTreeScope, uintptr(scope))
	return err
}

// makeSubtreeCacheRequest builds a CacheRequest caching every property
// this adapter reads, scoped to the whole subtree so a single
// ElementFromHandleBuildCache call returns the full tree in one COM
// round trip.
func makeSubtreeCacheRequest(uia comObject) (comObject, error) {
	cr, err := uia.createCacheRequest()
	if err != nil {
		return comObject{}, err
	}
	for _, pid := range propIDs {
		if err := cr.addProperty(pid); err != nil {
			return comObject{}, err
		}
	}
	if err := cr.setTreeScope(treeScopeSubtree); err != nil {
		return comObject{}, err
	}
	if err := cr.setElementMode(automationElementModeFull); err != nil {
		return comObject{}, err
	}
	return cr, nil
}

// getCachedProperty and getCachedChildren call IUIAutomationElement's
// GetCachedPropertyValue(PROPERTYID, VARIANT*) and
// GetCachedChildren(IUIAutomationElementArray**). The slot indices are
// hardcoded from the interface's declaration order (IUnknown's three
// slots, then SetFocus first), which this file does not reproduce in
// entirety.
const (
	slotGetCachedPropertyValue = 12
	slotGetCachedChildren      = 19
	slotSetFocus               = 3
)

// variant is a trimmed VARIANT covering the property types this adapter
// reads back: VT_BOOL, VT_I4, VT_R8, VT_BSTR, VT_R8|VT_ARRAY (bounding
// rectangle).
type variant struct {
	vt        uint16
	_         [6]byte
	valUint64 uint64 // covers BOOL/I4/R8/BSTR-pointer-as-uintptr
}

const (
	vtEmpty  = 0
	vtI4     = 3
	vtR8     = 5
	vtBool   = 11
	vtBstr   = 8
	vtUnk    = 13
	vtArray  = 0x2000
	vtR8Arr  = vtR8 | vtArray
)

func (o comObject) getCachedProperty(propertyID int) (variant, error) {
	var v variant
	_, err := o.call(slotGetCachedPropertyValue, uintptr(propertyID), uintptr(unsafe.Pointer(&v)))
	return v, err
}

func (o comObject) getCachedChildren() ([]comObject, error) {
	var arrPtr uintptr
	if _, err := o.call(slotGetCachedChildren, uintptr(unsafe.Pointer(&arrPtr))); err != nil {
		return nil, err
	}
	if arrPtr == 0 {
		return nil, nil
	}
	arr := comObject{ptr: arrPtr}
	defer arr.release()
	return arr.elements()
}

// IUIAutomationElementArray vtable slots (get_Length, GetElement).
const (
	slotArrGetLength  = 3
	slotArrGetElement = 4
)

func (o comObject) elements() ([]comObject, error) {
	lenRet, err := o.call(slotArrGetLength)
	if err != nil {
		return nil, err
	}
	n := int(int32(lenRet))
	out := make([]comObject, 0, n)
	for i := 0; i < n; i++ {
		var el comObject
		if _, err := o.call(slotArrGetElement, uintptr(i), uintptr(unsafe.Pointer(&el.ptr))); err != nil {
			continue
		}
		out = append(out, el)
	}
	return out, nil
}

func (o comObject) setFocus() error {
	_, err := o.call(slotSetFocus)
	return err
}
