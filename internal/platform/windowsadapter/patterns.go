//go:build windows

package windowsadapter

import "unsafe"

// UIA pattern ids (UIAutomationClient.h).
const (
	patternInvoke           = 10000
	patternValue            = 10002
	patternScroll           = 10004
	patternExpandCollapse   = 10005
	patternSelectionItem    = 10010
	patternRangeValue       = 10003
	patternToggle           = 10015
)

// slotGetCurrentPattern is IUIAutomationElement::GetCurrentPattern, a few
// slots after GetCachedPropertyValue (12) and before GetCachedChildren
// (19) in declaration order; see com.go's note on why this interface is
// not reproduced in entirety.
const slotGetCurrentPattern = 16

// getPattern fetches a pattern object by id via GetCurrentPattern(id,
// &out), returning a zero comObject when the element does not support it.
func (o comObject) getPattern(patternID int) (comObject, bool) {
	var out comObject
	if _, err := o.call(slotGetCurrentPattern, uintptr(patternID), uintptr(unsafe.Pointer(&out.ptr))); err != nil {
		return comObject{}, false
	}
	if !out.valid() {
		return comObject{}, false
	}
	return out, true
}

// IUIAutomationInvokePattern.
func (o comObject) invoke() error {
	_, err := o.call(3)
	return err
}

// IUIAutomationTogglePattern.
func (o comObject) toggle() error {
	_, err := o.call(3)
	return err
}

// IUIAutomationValuePattern.
func (o comObject) setValuePattern(text string) error {
	bstr, free := newBSTR(text)
	defer free()
	_, err := o.call(3, bstr)
	return err
}

// IUIAutomationExpandCollapsePattern.
func (o comObject) expand() error {
	_, err := o.call(3)
	return err
}

func (o comObject) collapse() error {
	_, err := o.call(4)
	return err
}

func (o comObject) expandCollapseState() int {
	var state int32
	if _, err := o.call(5, uintptr(unsafe.Pointer(&state))); err != nil {
		return -1
	}
	return int(state)
}

// IUIAutomationSelectionItemPattern.
func (o comObject) selectItem() error {
	_, err := o.call(3)
	return err
}

// IUIAutomationScrollPattern; amount values match UIA's ScrollAmount enum
// (0=LargeDecrement 1=SmallDecrement 2=NoAmount 3=LargeIncrement
// 4=SmallIncrement).
func (o comObject) scrollPattern(horizontal, vertical int) error {
	_, err := o.call(3, uintptr(int32(horizontal)), uintptr(int32(vertical)))
	return err
}

// IUIAutomationRangeValuePattern.
func (o comObject) rangeSetValue(v float64) error {
	_, err := o.call(3, *(*uintptr)(unsafe.Pointer(&v)))
	return err
}

func (o comObject) rangeGetValue() (float64, error) {
	return o.callFloat(4)
}

func (o comObject) rangeGetMin() (float64, error) {
	return o.callFloat(7)
}

func (o comObject) rangeGetMax() (float64, error) {
	return o.callFloat(6)
}

func (o comObject) rangeGetSmallChange() (float64, error) {
	return o.callFloat(9)
}

// callFloat invokes a property getter whose value comes back through a
// double* out parameter.
func (o comObject) callFloat(index int) (float64, error) {
	var out float64
	_, err := o.call(index, uintptr(unsafe.Pointer(&out)))
	return out, err
}
