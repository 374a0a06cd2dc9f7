package webadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cup-project/cup/internal/cupnode/actions"
	"github.com/cup-project/cup/internal/platform/webadapter/cdp"
)

// Handler executes CUP actions against web pages via CDP. Native refs are
// the backendRef values the adapter stored in the ref table during
// capture.
type Handler struct {
	host string
	port int
}

// NewHandler builds a web action handler reading CUP_CDP_HOST/
// CUP_CDP_PORT like the adapter does.
func NewHandler() *Handler {
	host := os.Getenv("CUP_CDP_HOST")
	if host == "" {
		host = defaultHost
	}
	port := defaultPort
	if raw := os.Getenv("CUP_CDP_PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			port = p
		}
	}
	return &Handler{host: host, port: port}
}

func fail(action string, err error) actions.Result {
	return actions.Result{Error: fmt.Sprintf("web action %q failed: %v", action, err)}
}

func ok(message string) actions.Result {
	return actions.Result{Success: true, Message: message}
}

func (h *Handler) Execute(ctx context.Context, nativeRef any, action string, params map[string]any) actions.Result {
	ref, okType := nativeRef.(backendRef)
	if !okType {
		return actions.Result{Error: "stale or malformed web element reference"}
	}

	conn, err := cdp.Connect(ref.wsURL, h.host)
	if err != nil {
		return fail(action, err)
	}
	defer conn.Close()

	return h.dispatch(conn, ref.backendNodeID, action, params)
}

func (h *Handler) dispatch(conn *cdp.Conn, backendNodeID int64, action string, params map[string]any) actions.Result {
	switch action {
	case "click":
		return h.mouseClick(conn, backendNodeID, "left", 1)
	case "rightclick":
		return h.mouseClick(conn, backendNodeID, "right", 1)
	case "doubleclick":
		return h.mouseClick(conn, backendNodeID, "left", 2)
	case "longpress":
		return h.longPress(conn, backendNodeID)
	case "type":
		value, _ := params["value"].(string)
		return h.typeText(conn, backendNodeID, value)
	case "setvalue":
		value, _ := params["value"].(string)
		return h.setValue(conn, backendNodeID, value)
	case "toggle":
		return h.toggle(conn, backendNodeID)
	case "expand", "collapse":
		return h.mouseClick(conn, backendNodeID, "left", 1)
	case "select":
		return h.selectNode(conn, backendNodeID)
	case "scroll":
		direction, _ := params["direction"].(string)
		return h.scroll(conn, backendNodeID, direction)
	case "focus":
		return h.focus(conn, backendNodeID)
	case "dismiss":
		return h.dismiss(conn)
	case "increment":
		return h.arrowKey(conn, backendNodeID, "ArrowUp")
	case "decrement":
		return h.arrowKey(conn, backendNodeID, "ArrowDown")
	default:
		return actions.Result{Error: fmt.Sprintf("action %q not implemented for web", action)}
	}
}

func getClickPoint(conn *cdp.Conn, backendNodeID int64) (float64, float64, error) {
	raw, err := conn.Send("DOM.getBoxModel", map[string]any{"backendNodeId": backendNodeID}, sendTimeout)
	if err != nil {
		return 0, 0, err
	}
	var resp struct {
		Model struct {
			Content []float64 `json:"content"`
			Border  []float64 `json:"border"`
		} `json:"model"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, 0, err
	}
	quad := resp.Model.Content
	if len(quad) < 8 {
		quad = resp.Model.Border
	}
	if len(quad) < 8 {
		return 0, 0, fmt.Errorf("cannot determine element position from box model")
	}
	var sx, sy float64
	for i := 0; i < 8; i += 2 {
		sx += quad[i]
		sy += quad[i+1]
	}
	return sx / 4, sy / 4, nil
}

func (h *Handler) mouseClick(conn *cdp.Conn, backendNodeID int64, button string, clickCount int) actions.Result {
	x, y, err := getClickPoint(conn, backendNodeID)
	if err != nil {
		return fail("click", err)
	}
	for i := 1; i <= clickCount; i++ {
		if _, err := conn.Send("Input.dispatchMouseEvent", map[string]any{
			"type": "mousePressed", "x": x, "y": y, "button": button, "clickCount": i,
		}, sendTimeout); err != nil {
			return fail("click", err)
		}
		if _, err := conn.Send("Input.dispatchMouseEvent", map[string]any{
			"type": "mouseReleased", "x": x, "y": y, "button": button, "clickCount": i,
		}, sendTimeout); err != nil {
			return fail("click", err)
		}
	}
	switch {
	case button == "left" && clickCount == 1:
		return ok("Clicked")
	case button == "left" && clickCount == 2:
		return ok("Double-clicked")
	case button == "right" && clickCount == 1:
		return ok("Right-clicked")
	default:
		return ok(fmt.Sprintf("Mouse %s x%d", button, clickCount))
	}
}

func (h *Handler) longPress(conn *cdp.Conn, backendNodeID int64) actions.Result {
	x, y, err := getClickPoint(conn, backendNodeID)
	if err != nil {
		return fail("longpress", err)
	}
	if _, err := conn.Send("Input.dispatchMouseEvent", map[string]any{
		"type": "mousePressed", "x": x, "y": y, "button": "left", "clickCount": 1,
	}, sendTimeout); err != nil {
		return fail("longpress", err)
	}
	time.Sleep(800 * time.Millisecond)
	if _, err := conn.Send("Input.dispatchMouseEvent", map[string]any{
		"type": "mouseReleased", "x": x, "y": y, "button": "left", "clickCount": 1,
	}, sendTimeout); err != nil {
		return fail("longpress", err)
	}
	return ok("Long-pressed")
}

func (h *Handler) typeText(conn *cdp.Conn, backendNodeID int64, text string) actions.Result {
	if _, err := conn.Send("DOM.focus", map[string]any{"backendNodeId": backendNodeID}, sendTimeout); err != nil {
		return fail("type", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := h.sendKeyCombo(conn, "ctrl+a"); err != nil {
		return fail("type", err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, err := conn.Send("Input.insertText", map[string]any{"text": text}, sendTimeout); err != nil {
		return fail("type", err)
	}
	return ok(fmt.Sprintf("Typed: %s", text))
}

func resolveObjectID(conn *cdp.Conn, backendNodeID int64) (string, error) {
	raw, err := conn.Send("DOM.resolveNode", map[string]any{"backendNodeId": backendNodeID}, sendTimeout)
	if err != nil {
		return "", err
	}
	var resp struct {
		Object struct {
			ObjectID string `json:"objectId"`
		} `json:"object"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	return resp.Object.ObjectID, nil
}

func (h *Handler) setValue(conn *cdp.Conn, backendNodeID int64, text string) actions.Result {
	objectID, err := resolveObjectID(conn, backendNodeID)
	if err != nil || objectID == "" {
		return actions.Result{Error: "cannot resolve DOM node for setvalue"}
	}
	_, err = conn.Send("Runtime.callFunctionOn", map[string]any{
		"objectId": objectID,
		"functionDeclaration": `function(v) {
			this.value = v;
			this.dispatchEvent(new Event('input', {bubbles: true}));
			this.dispatchEvent(new Event('change', {bubbles: true}));
		}`,
		"arguments": []map[string]any{{"value": text}},
	}, sendTimeout)
	if err != nil {
		return fail("setvalue", err)
	}
	return ok(fmt.Sprintf("Set value to: %s", text))
}

func (h *Handler) scroll(conn *cdp.Conn, backendNodeID int64, direction string) actions.Result {
	x, y, err := getClickPoint(conn, backendNodeID)
	if err != nil {
		return fail("scroll", err)
	}
	var dx, dy float64
	switch direction {
	case "up":
		dy = -200
	case "down":
		dy = 200
	case "left":
		dx = -200
	case "right":
		dx = 200
	}
	_, err = conn.Send("Input.dispatchMouseEvent", map[string]any{
		"type": "mouseWheel", "x": x, "y": y, "deltaX": dx, "deltaY": dy,
	}, sendTimeout)
	if err != nil {
		return fail("scroll", err)
	}
	return ok(fmt.Sprintf("Scrolled %s", direction))
}

func (h *Handler) focus(conn *cdp.Conn, backendNodeID int64) actions.Result {
	if _, err := conn.Send("DOM.focus", map[string]any{"backendNodeId": backendNodeID}, sendTimeout); err != nil {
		return fail("focus", err)
	}
	return ok("Focused")
}

func (h *Handler) toggle(conn *cdp.Conn, backendNodeID int64) actions.Result {
	objectID, err := resolveObjectID(conn, backendNodeID)
	if err != nil || objectID == "" {
		return h.mouseClick(conn, backendNodeID, "left", 1)
	}
	_, err = conn.Send("Runtime.callFunctionOn", map[string]any{
		"objectId":            objectID,
		"functionDeclaration": "function() { this.click(); }",
	}, sendTimeout)
	if err != nil {
		return fail("toggle", err)
	}
	return ok("Toggled")
}

func (h *Handler) selectNode(conn *cdp.Conn, backendNodeID int64) actions.Result {
	objectID, err := resolveObjectID(conn, backendNodeID)
	if err != nil || objectID == "" {
		return h.mouseClick(conn, backendNodeID, "left", 1)
	}
	_, err = conn.Send("Runtime.callFunctionOn", map[string]any{
		"objectId": objectID,
		"functionDeclaration": `function() {
			if (this.tagName === 'OPTION') {
				this.selected = true;
				if (this.parentElement) {
					this.parentElement.dispatchEvent(new Event('change', {bubbles: true}));
				}
			} else {
				this.click();
			}
		}`,
	}, sendTimeout)
	if err != nil {
		return fail("select", err)
	}
	return ok("Selected")
}

func (h *Handler) dismiss(conn *cdp.Conn) actions.Result {
	for _, typ := range []string{"keyDown", "keyUp"} {
		if _, err := conn.Send("Input.dispatchKeyEvent", map[string]any{
			"type": typ, "key": "Escape", "code": "Escape",
		}, sendTimeout); err != nil {
			return fail("dismiss", err)
		}
	}
	return ok("Dismissed (Escape)")
}

func (h *Handler) arrowKey(conn *cdp.Conn, backendNodeID int64, key string) actions.Result {
	if _, err := conn.Send("DOM.focus", map[string]any{"backendNodeId": backendNodeID}, sendTimeout); err != nil {
		return fail("arrow", err)
	}
	time.Sleep(50 * time.Millisecond)
	for _, typ := range []string{"keyDown", "keyUp"} {
		if _, err := conn.Send("Input.dispatchKeyEvent", map[string]any{
			"type": typ, "key": key, "code": key,
		}, sendTimeout); err != nil {
			return fail("arrow", err)
		}
	}
	verb := "Incremented"
	if key == "ArrowDown" {
		verb = "Decremented"
	}
	return ok(verb)
}

// cdpKeyMap maps normalised combo key names to CDP key/code pairs.
var cdpKeyMap = map[string][2]string{
	"enter": {"Enter", "Enter"}, "tab": {"Tab", "Tab"},
	"escape": {"Escape", "Escape"}, "backspace": {"Backspace", "Backspace"},
	"delete": {"Delete", "Delete"}, "space": {" ", "Space"},
	"up": {"ArrowUp", "ArrowUp"}, "down": {"ArrowDown", "ArrowDown"},
	"left": {"ArrowLeft", "ArrowLeft"}, "right": {"ArrowRight", "ArrowRight"},
	"home": {"Home", "Home"}, "end": {"End", "End"},
	"pageup": {"PageUp", "PageUp"}, "pagedown": {"PageDown", "PageDown"},
	"f1": {"F1", "F1"}, "f2": {"F2", "F2"}, "f3": {"F3", "F3"}, "f4": {"F4", "F4"},
	"f5": {"F5", "F5"}, "f6": {"F6", "F6"}, "f7": {"F7", "F7"}, "f8": {"F8", "F8"},
	"f9": {"F9", "F9"}, "f10": {"F10", "F10"}, "f11": {"F11", "F11"}, "f12": {"F12", "F12"},
}

type cdpModifier struct {
	key, code string
	bit       int
}

// cdpModifierMap carries the CDP modifier bitmask.
var cdpModifierMap = map[string]cdpModifier{
	"ctrl":  {"Control", "ControlLeft", 2},
	"alt":   {"Alt", "AltLeft", 1},
	"shift": {"Shift", "ShiftLeft", 8},
	"meta":  {"Meta", "MetaLeft", 4},
}

func (h *Handler) sendKeyCombo(conn *cdp.Conn, combo string) error {
	modifiers, keys := actions.ParseCombo(combo)

	modBits := 0
	for _, m := range modifiers {
		if info, ok := cdpModifierMap[m]; ok {
			modBits |= info.bit
		}
	}

	for _, m := range modifiers {
		info, ok := cdpModifierMap[m]
		if !ok {
			continue
		}
		if _, err := conn.Send("Input.dispatchKeyEvent", map[string]any{
			"type": "keyDown", "key": info.key, "code": info.code, "modifiers": modBits,
		}, sendTimeout); err != nil {
			return err
		}
	}

	for _, key := range keys {
		var cdpKey, cdpCode, text string
		if mapped, ok := cdpKeyMap[key]; ok {
			cdpKey, cdpCode = mapped[0], mapped[1]
		} else if len([]rune(key)) == 1 {
			cdpKey = key
			if isAlpha(key) {
				cdpCode = "Key" + strings.ToUpper(key)
			}
			text = key
		} else {
			continue
		}

		params := map[string]any{
			"type": "keyDown", "key": cdpKey, "code": cdpCode, "modifiers": modBits,
		}
		if text != "" && modBits == 0 {
			params["text"] = text
		}
		if _, err := conn.Send("Input.dispatchKeyEvent", params, sendTimeout); err != nil {
			return err
		}
		if _, err := conn.Send("Input.dispatchKeyEvent", map[string]any{
			"type": "keyUp", "key": cdpKey, "code": cdpCode, "modifiers": modBits,
		}, sendTimeout); err != nil {
			return err
		}
	}

	for i := len(modifiers) - 1; i >= 0; i-- {
		info, ok := cdpModifierMap[modifiers[i]]
		if !ok {
			continue
		}
		if _, err := conn.Send("Input.dispatchKeyEvent", map[string]any{
			"type": "keyUp", "key": info.key, "code": info.code, "modifiers": 0,
		}, sendTimeout); err != nil {
			return err
		}
	}
	return nil
}

func isAlpha(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// PressKeys sends a keyboard shortcut to the currently focused element in
// the first available tab.
func (h *Handler) PressKeys(ctx context.Context, combo string) actions.Result {
	targets, err := cdp.PageTargets(ctx, h.host, h.port)
	if err != nil {
		return actions.Result{Error: fmt.Sprintf("cannot connect to CDP for press_keys: %v", err)}
	}
	if len(targets) == 0 {
		return actions.Result{Error: "no browser tabs found for press_keys"}
	}
	conn, err := cdp.Connect(targets[0].WebSocketDebuggerURL, h.host)
	if err != nil {
		return actions.Result{Error: fmt.Sprintf("cannot connect to CDP for press_keys: %v", err)}
	}
	defer conn.Close()

	if err := h.sendKeyCombo(conn, combo); err != nil {
		return actions.Result{Error: fmt.Sprintf("failed to press keys: %v", err)}
	}
	return ok(fmt.Sprintf("Pressed %s", combo))
}

// LaunchApp is not applicable to the web platform.
func (h *Handler) LaunchApp(ctx context.Context, name string) actions.Result {
	return actions.Result{Error: "open_app is not applicable for web platform"}
}
