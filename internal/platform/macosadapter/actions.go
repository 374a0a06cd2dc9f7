//go:build darwin

package macosadapter

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/cup-project/cup/internal/cupnode/actions"
)

// Handler is the macOS action backend: AXUIElement actions first, Quartz
// Event Services synthetic input when the element exposes no usable
// action, the same pattern-then-synthetic shape the Windows handler uses
// with UIA and SendInput.
type Handler struct {
	adapter *Adapter
}

func fail(action, msg string) actions.Result {
	return actions.Result{Success: false, Error: fmt.Sprintf("%s: %s", action, msg)}
}

func ok(message string) actions.Result {
	return actions.Result{Success: true, Message: message}
}

func elementOf(nativeRef any) (axElement, bool) {
	el, isEl := nativeRef.(axElement)
	return el, isEl && el.valid()
}

func centerOf(el axElement) (int, int, bool) {
	b := boundsOf(el)
	if b == nil {
		return 0, 0, false
	}
	return b.X + b.W/2, b.Y + b.H/2, true
}

func (h *Handler) Execute(ctx context.Context, nativeRef any, action string, params map[string]any) actions.Result {
	el, isEl := elementOf(nativeRef)
	if !isEl {
		return fail(action, "stale or invalid element reference")
	}
	switch action {
	case "click":
		return h.click(el)
	case "rightclick":
		return h.rightclick(el)
	case "doubleclick":
		return h.doubleclick(el)
	case "longpress":
		return h.longpress(el)
	case "toggle":
		return h.toggle(el)
	case "type":
		return h.typeText(el, paramString(params, "value"))
	case "setvalue":
		return h.setValue(el, paramString(params, "value"))
	case "expand":
		return h.expandOrCollapse(el, true)
	case "collapse":
		return h.expandOrCollapse(el, false)
	case "select":
		return h.selectItem(el)
	case "scroll":
		return h.scroll(el, paramString(params, "direction"))
	case "increment":
		return h.adjustRange(el, true)
	case "decrement":
		return h.adjustRange(el, false)
	case "focus":
		return h.focus(el)
	case "dismiss":
		return h.dismiss(el)
	default:
		return fail(action, "unsupported action")
	}
}

func paramString(params map[string]any, key string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// click prefers AXPress, falling back to a synthetic mouse click at the
// element's center when the role offers no press action.
func (h *Handler) click(el axElement) actions.Result {
	if performAction(el, "AXPress") {
		return ok("clicked via AXPress")
	}
	if x, y, found := centerOf(el); found {
		sendMouseClick(x, y, "left")
		return ok("clicked via synthetic mouse event")
	}
	return fail("click", "element has no bounds and no AXPress action")
}

func (h *Handler) rightclick(el axElement) actions.Result {
	if x, y, found := centerOf(el); found {
		sendMouseClick(x, y, "right")
		return ok("right-clicked")
	}
	return fail("rightclick", "element has no bounds")
}

func (h *Handler) doubleclick(el axElement) actions.Result {
	x, y, found := centerOf(el)
	if !found {
		return fail("doubleclick", "element has no bounds")
	}
	sendMouseClick(x, y, "left")
	sendMouseClick(x, y, "left")
	return ok("double-clicked")
}

func (h *Handler) longpress(el axElement) actions.Result {
	x, y, found := centerOf(el)
	if !found {
		return fail("longpress", "element has no bounds")
	}
	sendMouseDown(x, y)
	time.Sleep(700 * time.Millisecond)
	sendMouseUp(x, y)
	return ok("long-pressed")
}

func (h *Handler) toggle(el axElement) actions.Result {
	if performAction(el, "AXPress") {
		return ok("toggled via AXPress")
	}
	if setBoolAttribute(el, "AXValue", true) {
		return ok("toggled via AXValue")
	}
	return h.click(el)
}

func (h *Handler) typeText(el axElement, text string) actions.Result {
	if text == "" {
		return fail("type", "missing text parameter")
	}
	if !setBoolAttribute(el, "AXFocused", true) {
		h.click(el)
	}
	sendUnicodeString(text)
	return ok("typed text")
}

func (h *Handler) setValue(el axElement, value string) actions.Result {
	if setStringAttribute(el, "AXValue", value) {
		return ok("set value via AXValue")
	}
	return h.typeText(el, value)
}

func (h *Handler) expandOrCollapse(el axElement, expand bool) actions.Result {
	if setBoolAttribute(el, "AXExpanded", expand) {
		if expand {
			return ok("expanded via AXExpanded")
		}
		return ok("collapsed via AXExpanded")
	}
	if expand && performAction(el, "AXShowMenu") {
		return ok("expanded via AXShowMenu")
	}
	return h.click(el)
}

func (h *Handler) selectItem(el axElement) actions.Result {
	if performAction(el, "AXPick") {
		return ok("selected via AXPick")
	}
	if setBoolAttribute(el, "AXSelected", true) {
		return ok("selected via AXSelected")
	}
	return h.click(el)
}

func (h *Handler) scroll(el axElement, direction string) actions.Result {
	if direction == "" {
		direction = "down"
	}
	if x, y, found := centerOf(el); found {
		sendMouseEventMoveThenScroll(x, y, direction)
		return ok("scrolled " + direction)
	}
	sendScroll(direction)
	return ok("scrolled " + direction)
}

// sendMouseEventMoveThenScroll keeps the scroll call symmetrical with the
// other handlers' element-targeted gestures; CGEventCreateScrollWheelEvent
// always targets whatever is under the current cursor position, so the
// cursor is parked over the element's center first.
func sendMouseEventMoveThenScroll(x, y int, direction string) {
	sendMouseMove(x, y)
	sendScroll(direction)
}

func (h *Handler) adjustRange(el axElement, increment bool) actions.Result {
	action := "AXIncrement"
	if !increment {
		action = "AXDecrement"
	}
	if performAction(el, action) {
		if increment {
			return ok("incremented via AXIncrement")
		}
		return ok("decremented via AXDecrement")
	}
	key := "up"
	if !increment {
		key = "down"
	}
	if !setBoolAttribute(el, "AXFocused", true) {
		h.click(el)
	}
	if sendKeyCombo(key) {
		return ok("adjusted via arrow key fallback")
	}
	return fail("adjustrange", "no AXIncrement/AXDecrement action and arrow-key fallback failed")
}

func (h *Handler) focus(el axElement) actions.Result {
	if setBoolAttribute(el, "AXFocused", true) {
		return ok("focused")
	}
	return fail("focus", "element does not accept AXFocused")
}

func (h *Handler) dismiss(el axElement) actions.Result {
	if performAction(el, "AXCancel") {
		return ok("dismissed via AXCancel")
	}
	setBoolAttribute(el, "AXFocused", true)
	if sendKeyCombo("escape") {
		return ok("dismissed via escape key")
	}
	return fail("dismiss", "no AXCancel action and escape fallback failed")
}

func (h *Handler) PressKeys(ctx context.Context, combo string) actions.Result {
	if sendKeyCombo(combo) {
		return ok("pressed " + combo)
	}
	return fail("presskeys", "unrecognized key in combo: "+combo)
}

// LaunchApp resolves name against every running application's name and
// bundle id and, failing that, shells out to `open -a` — the launch
// mechanism macOS itself exposes without an Objective-C binding
// (windowsadapter takes the analogous shortcut via Start-Process).
func (h *Handler) LaunchApp(ctx context.Context, name string) actions.Result {
	if best, found := matchRunningApp(name); found {
		return ok(fmt.Sprintf("application %q already running (pid %d)", best.name, best.pid))
	}

	cmd := exec.CommandContext(ctx, "open", "-a", name)
	if err := cmd.Run(); err != nil {
		return fail("launchapp", fmt.Sprintf("open -a %q failed: %v", name, err))
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if ra, found := matchRunningApp(name); found {
			return ok(fmt.Sprintf("launched %q (pid %d)", ra.name, ra.pid))
		}
		time.Sleep(250 * time.Millisecond)
	}
	return ok(fmt.Sprintf("launch requested for %q but no matching process observed within timeout", name))
}

func matchRunningApp(name string) (runningApp, bool) {
	apps := runningApps()
	names := make([]string, 0, len(apps))
	byName := make(map[string]runningApp, len(apps))
	for _, ra := range apps {
		names = append(names, ra.name)
		byName[ra.name] = ra
	}
	sort.Strings(names)
	if best, found := actions.FuzzyMatch(name, names); found {
		return byName[best], true
	}
	for _, ra := range apps {
		if strings.EqualFold(ra.bundle, name) {
			return ra, true
		}
	}
	return runningApp{}, false
}
