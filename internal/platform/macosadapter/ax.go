//go:build darwin

package macosadapter

/*
#include "bridge.h"
*/
import "C"
import (
	"sync"
	"unsafe"
)

// axElement wraps a retained AXUIElementRef. Every value handed out to
// Go crosses the cgo boundary as a CFTypeRef and stays behind this
// wrapper so release accounting stays uniform.
type axElement struct {
	ref C.AXUIElementRef
}

func (e axElement) valid() bool { return e.ref != nil }

// cfAttrCache memoizes attribute-name CFStringRefs, built once and never
// released for the life of the process (there are only a few dozen
// distinct attribute names queried).
var (
	cfAttrMu    sync.Mutex
	cfAttrCache = map[string]C.CFStringRef{}
)

func cfAttr(name string) C.CFStringRef {
	cfAttrMu.Lock()
	defer cfAttrMu.Unlock()
	if cached, ok := cfAttrCache[name]; ok {
		return cached
	}
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))
	cf := C.cstring_to_cf_string(cs)
	cfAttrCache[name] = cf
	return cf
}

func isTrusted() bool {
	return C.ax_is_trusted() != 0
}

func systemWideElement() axElement {
	return axElement{ref: C.ax_create_system_wide()}
}

func applicationElement(pid int) axElement {
	return axElement{ref: C.ax_create_application(C.int(pid))}
}

func (e axElement) pid() int {
	return int(C.ax_get_pid(e.ref))
}

// axValue is the decoded form of an attribute read: at most one of the
// fields is populated, depending on the CFTypeRef the attribute held.
type axValue struct {
	str      string
	strOK    bool
	boolean  bool
	boolOK   bool
	number   float64
	numberOK bool
	point    *struct{ x, y float64 }
	size     *struct{ w, h float64 }
	elements []axElement
	raw      C.CFTypeRef
}

func decodeCFValue(v C.CFTypeRef) axValue {
	if v == nil {
		return axValue{}
	}
	switch {
	case C.cf_type_id_is_string(v) != 0:
		cs := C.cf_string_to_cstring(C.CFStringRef(v))
		if cs == nil {
			return axValue{}
		}
		defer C.free(unsafe.Pointer(cs))
		return axValue{str: C.GoString(cs), strOK: true}
	case C.cf_type_id_is_boolean(v) != 0:
		return axValue{boolean: C.cf_boolean_value(v) != 0, boolOK: true}
	case C.cf_type_id_is_number(v) != 0:
		return axValue{number: float64(C.cf_number_double_value(v)), numberOK: true}
	case C.cf_type_id_is_array(v) != 0:
		arr := C.CFArrayRef(v)
		n := int(C.cf_array_count(arr))
		out := make([]axElement, 0, n)
		for i := 0; i < n; i++ {
			item := C.cf_array_get(arr, C.long(i))
			if C.cf_type_id_is_element(item) != 0 {
				out = append(out, axElement{ref: C.AXUIElementRef(C.ax_retain_element(item))})
			}
		}
		return axValue{elements: out}
	default:
		var x, y C.float
		if C.ax_value_get_point(v, &x, &y) != 0 {
			return axValue{point: &struct{ x, y float64 }{float64(x), float64(y)}}
		}
		var w, h C.float
		if C.ax_value_get_size(v, &w, &h) != 0 {
			return axValue{size: &struct{ w, h float64 }{float64(w), float64(h)}}
		}
		return axValue{}
	}
}

// getAttribute reads one attribute off an element.
func getAttribute(el axElement, name string) (axValue, bool) {
	v := C.ax_copy_attribute(el.ref, cfAttr(name))
	if v == nil {
		return axValue{}, false
	}
	defer C.cf_release(v)
	return decodeCFValue(v), true
}

// batchRead reads many attributes in a single round trip
// (AXUIElementCopyMultipleAttributeValues), keyed by attribute name.
func batchRead(el axElement, names []string) map[string]axValue {
	out := make(map[string]axValue, len(names))
	if len(names) == 0 {
		return out
	}
	arr := C.CFArrayCreateMutable(C.kCFAllocatorDefault, C.CFIndex(len(names)), &C.kCFTypeArrayCallBacks)
	defer C.CFRelease(C.CFTypeRef(arr))
	for _, n := range names {
		C.CFArrayAppendValue(arr, unsafe.Pointer(cfAttr(n)))
	}
	values := C.ax_copy_multiple_attributes(el.ref, C.CFArrayRef(arr))
	if values == nil {
		for _, n := range names {
			if v, ok := getAttribute(el, n); ok {
				out[n] = v
			}
		}
		return out
	}
	defer C.cf_release(C.CFTypeRef(values))
	count := int(C.cf_array_count(values))
	for i := 0; i < count && i < len(names); i++ {
		item := C.cf_array_get(values, C.long(i))
		out[names[i]] = decodeCFValue(item)
	}
	return out
}

func isSettable(el axElement, name string) bool {
	return C.ax_is_settable(el.ref, cfAttr(name)) != 0
}

func setStringAttribute(el axElement, name, value string) bool {
	cs := C.CString(value)
	defer C.free(unsafe.Pointer(cs))
	cf := C.cstring_to_cf_string(cs)
	defer C.cf_release(C.CFTypeRef(cf))
	return C.ax_set_attribute(el.ref, cfAttr(name), C.CFTypeRef(cf)) == 0
}

func setBoolAttribute(el axElement, name string, value bool) bool {
	var v C.CFTypeRef
	if value {
		v = C.CFTypeRef(C.kCFBooleanTrue)
	} else {
		v = C.CFTypeRef(C.kCFBooleanFalse)
	}
	return C.ax_set_attribute(el.ref, cfAttr(name), v) == 0
}

func actionNames(el axElement) []string {
	arr := C.ax_copy_action_names(el.ref)
	if arr == nil {
		return nil
	}
	defer C.cf_release(C.CFTypeRef(arr))
	n := int(C.cf_array_count(arr))
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		item := C.cf_array_get(arr, C.long(i))
		if C.cf_type_id_is_string(item) != 0 {
			cs := C.cf_string_to_cstring(C.CFStringRef(item))
			if cs != nil {
				out = append(out, C.GoString(cs))
				C.free(unsafe.Pointer(cs))
			}
		}
	}
	return out
}

func performAction(el axElement, name string) bool {
	return C.ax_perform_action(el.ref, cfAttr(name)) == 0
}

func frontmostAppPID() (int, bool) {
	pid := int(C.ax_frontmost_app_pid())
	return pid, pid >= 0
}

type runningApp struct {
	pid    int
	name   string
	bundle string
}

func runningApps() []runningApp {
	const maxApps = 256
	pids := make([]C.int, maxApps)
	names := make([]*C.char, maxApps)
	bundles := make([]*C.char, maxApps)
	var count C.int
	C.ax_running_apps(&pids[0], &names[0], &bundles[0], &count, C.int(maxApps))
	out := make([]runningApp, 0, int(count))
	for i := 0; i < int(count); i++ {
		out = append(out, runningApp{
			pid:    int(pids[i]),
			name:   C.GoString(names[i]),
			bundle: C.GoString(bundles[i]),
		})
		C.free(unsafe.Pointer(names[i]))
		C.free(unsafe.Pointer(bundles[i]))
	}
	return out
}

func screenInfo() (w, h, scale float64, ok bool) {
	var cw, ch, cs C.float
	if C.ax_screen_info(&cw, &ch, &cs) == 0 {
		return 0, 0, 1, false
	}
	return float64(cw), float64(ch), float64(cs), true
}
