//go:build windows

package windowsadapter

import "unsafe"

// UIA property ids cached in one batch per element.
const (
	propBoundingRectangle = 30001
	propControlType       = 30003
	propName              = 30005

	propHasKeyboardFocus  = 30008
	propIsEnabled         = 30010
	propAutomationID      = 30011
	propClassName         = 30012
	propHelpText          = 30013
	propIsOffscreen       = 30022
	propOrientation       = 30023
	propIsRequiredForForm = 30025

	propInvokeAvailable     = 30031
	propRangeValueAvailable = 30033
	propSelItemAvailable    = 30036
	propScrollAvailable     = 30034
	propToggleAvailable     = 30041
	propExpandAvailable     = 30028
	propValueAvailable      = 30043

	propValueValue     = 30045
	propValueReadOnly  = 30046
	propRangeValue     = 30047
	propRangeMin       = 30049
	propRangeMax       = 30050
	propExpandState    = 30070
	propWindowIsModal  = 30077
	propSelItemSelected = 30079
	propToggleState    = 30086

	propAriaRole       = 30101
	propAriaProperties = 30102
)

// propIDs is the full batch cached per element in one CacheRequest.
var propIDs = []int{
	propName, propControlType, propBoundingRectangle,
	propIsEnabled, propHasKeyboardFocus, propIsOffscreen, propAutomationID,
	propClassName, propHelpText, propOrientation, propIsRequiredForForm,
	propInvokeAvailable, propToggleAvailable, propExpandAvailable,
	propValueAvailable, propSelItemAvailable, propScrollAvailable,
	propRangeValueAvailable,
	propToggleState, propExpandState, propSelItemSelected, propValueReadOnly,
	propValueValue, propRangeValue, propRangeMin, propRangeMax, propWindowIsModal,
	propAriaRole, propAriaProperties,
}

func cachedBool(el comObject, propID int, def bool) bool {
	v, err := el.getCachedProperty(propID)
	if err != nil || v.vt == vtEmpty {
		return def
	}
	return v.valUint64 != 0
}

func cachedInt(el comObject, propID int, def int) int {
	v, err := el.getCachedProperty(propID)
	if err != nil || v.vt == vtEmpty {
		return def
	}
	return int(int32(v.valUint64))
}

func cachedFloat(el comObject, propID int) (float64, bool) {
	v, err := el.getCachedProperty(propID)
	if err != nil || v.vt == vtEmpty {
		return 0, false
	}
	return *(*float64)(unsafe.Pointer(&v.valUint64)), true
}

// cachedString reads a cached BSTR property. This adapter treats the raw
// VARIANT bytes as a UTF-16 BSTR pointer, matching how comtypes surfaces
// the same property as a Python str.
func cachedString(el comObject, propID int) string {
	v, err := el.getCachedProperty(propID)
	if err != nil || v.vt == vtEmpty || v.valUint64 == 0 {
		return ""
	}
	return bstrToString(uintptr(v.valUint64))
}

// safeArray mirrors the x64 SAFEARRAY header layout far enough to reach
// pvData; the BoundingRectangle property arrives as a four-double array.
type safeArray struct {
	cDims      uint16
	fFeatures  uint16
	cbElements uint32
	cLocks     uint32
	_          uint32
	pvData     uintptr
}

// cachedRect reads the BoundingRectangle property, which UIA returns as a
// four-element double array rather than a scalar.
func cachedRect(el comObject, propID int) (x, y, w, h int, ok bool) {
	v, err := el.getCachedProperty(propID)
	if err != nil || v.vt != vtR8Arr || v.valUint64 == 0 {
		return 0, 0, 0, 0, false
	}
	sa := (*safeArray)(unsafe.Pointer(uintptr(v.valUint64)))
	if sa.pvData == 0 || sa.cDims != 1 {
		return 0, 0, 0, 0, false
	}
	arr := (*[4]float64)(unsafe.Pointer(sa.pvData))
	return int(arr[0]), int(arr[1]), int(arr[2]), int(arr[3]), true
}
