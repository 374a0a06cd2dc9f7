//go:build linux

package linuxadapter

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cup-project/cup/internal/cupnode/actions"
)

// Handler is the Linux action backend: AT-SPI2 Action/Value/EditableText
// interfaces first, XTest synthetic input when the element exposes no
// usable interface.
type Handler struct {
	adapter *Adapter
}

func fail(action, msg string) actions.Result {
	return actions.Result{Error: fmt.Sprintf("action %q failed: %s", action, msg)}
}

func ok(message string) actions.Result {
	return actions.Result{Success: true, Message: message}
}

func refOf(nativeRef any) (accessibleRef, bool) {
	el, isRef := nativeRef.(accessibleRef)
	return el, isRef && el.conn != nil
}

// centerOf returns the element's on-screen center, walking up the
// ancestor chain when the element itself reports no extents.
func centerOf(el accessibleRef) (int, int, bool) {
	cur := el
	for i := 0; i < 8; i++ {
		if x, y, w, h, has := cur.extents(); has && w > 0 && h > 0 {
			return x + w/2, y + h/2, true
		}
		parent, has := cur.parent()
		if !has {
			break
		}
		cur = parent
	}
	return 0, 0, false
}

func (h *Handler) Execute(ctx context.Context, nativeRef any, action string, params map[string]any) actions.Result {
	el, isRef := refOf(nativeRef)
	if !isRef {
		return actions.Result{Error: "stale or malformed AT-SPI element reference"}
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
		value, _ := params["value"].(string)
		return h.typeText(el, value)
	case "setvalue":
		value, _ := params["value"].(string)
		return h.setValue(el, value)
	case "expand":
		return h.expandOrCollapse(el, true)
	case "collapse":
		return h.expandOrCollapse(el, false)
	case "select":
		return h.selectItem(el)
	case "scroll":
		direction, _ := params["direction"].(string)
		return h.scroll(el, direction)
	case "increment":
		return h.adjustRange(el, true)
	case "decrement":
		return h.adjustRange(el, false)
	case "focus":
		return h.focus(el)
	case "dismiss":
		return h.dismiss(el)
	default:
		return actions.Result{Error: fmt.Sprintf("action %q not implemented for linux", action)}
	}
}

func syntheticClick(x, y, button, times int) {
	x11.sendMotion(x, y)
	for i := 0; i < times; i++ {
		x11.sendButton(button, true)
		x11.sendButton(button, false)
	}
}

func (h *Handler) click(el accessibleRef) actions.Result {
	for _, name := range []string{"click", "press", "activate"} {
		if el.doActionNamed(name) {
			return ok("Clicked")
		}
	}
	if el.grabFocus() {
		time.Sleep(50 * time.Millisecond)
		if err := sendKeyCombo("enter"); err == nil {
			return ok("Clicked (focus+enter fallback)")
		}
	}
	if x, y, has := centerOf(el); has {
		syntheticClick(x, y, 1, 1)
		return ok("Clicked (synthetic mouse fallback)")
	}
	return fail("click", "element exposes no click action and has no bounds")
}

func (h *Handler) rightclick(el accessibleRef) actions.Result {
	if el.doActionNamed("menu") {
		return ok("Opened context menu")
	}
	if x, y, has := centerOf(el); has {
		syntheticClick(x, y, 3, 1)
		return ok("Right-clicked")
	}
	return fail("rightclick", "element has no bounds")
}

func (h *Handler) doubleclick(el accessibleRef) actions.Result {
	if x, y, has := centerOf(el); has {
		syntheticClick(x, y, 1, 2)
		return ok("Double-clicked")
	}
	return fail("doubleclick", "element has no bounds")
}

func (h *Handler) longpress(el accessibleRef) actions.Result {
	x, y, has := centerOf(el)
	if !has {
		return fail("longpress", "element has no bounds")
	}
	x11.sendMotion(x, y)
	x11.sendButton(1, true)
	time.Sleep(800 * time.Millisecond)
	x11.sendButton(1, false)
	return ok("Long-pressed")
}

func (h *Handler) toggle(el accessibleRef) actions.Result {
	if el.doActionNamed("toggle") {
		return ok("Toggled")
	}
	return h.click(el)
}

func (h *Handler) typeText(el accessibleRef, text string) actions.Result {
	if el.setTextContents(text) {
		return ok(fmt.Sprintf("Typed: %s", text))
	}
	if !el.grabFocus() {
		if r := h.click(el); !r.Success {
			return fail("type", "element accepts neither text nor focus")
		}
	}
	time.Sleep(50 * time.Millisecond)
	if err := sendKeyCombo("ctrl+a"); err != nil {
		return fail("type", err.Error())
	}
	time.Sleep(50 * time.Millisecond)
	if err := sendString(text); err != nil {
		return fail("type", err.Error())
	}
	return ok(fmt.Sprintf("Typed: %s", text))
}

func (h *Handler) setValue(el accessibleRef, value string) actions.Result {
	if _, _, _, hasValue := el.valueInfo(); hasValue {
		if v, err := strconv.ParseFloat(value, 64); err == nil && el.setCurrentValue(v) {
			return ok(fmt.Sprintf("Set value to: %s", value))
		}
	}
	if el.setTextContents(value) {
		return ok(fmt.Sprintf("Set value to: %s", value))
	}
	return h.typeText(el, value)
}

func (h *Handler) expandOrCollapse(el accessibleRef, expand bool) actions.Result {
	expanded := el.states()["expanded"]
	if expanded == expand {
		if expand {
			return ok("Already expanded")
		}
		return ok("Already collapsed")
	}
	for _, name := range []string{"expand or contract", "expand", "toggle expand"} {
		if el.doActionNamed(name) {
			if expand {
				return ok("Expanded")
			}
			return ok("Collapsed")
		}
	}
	return h.click(el)
}

func (h *Handler) selectItem(el accessibleRef) actions.Result {
	if parent, has := el.parent(); has {
		if idx := el.indexInParent(); idx >= 0 && parent.selectChild(idx) {
			return ok("Selected")
		}
	}
	return h.click(el)
}

func (h *Handler) scroll(el accessibleRef, direction string) actions.Result {
	if direction == "" {
		direction = "down"
	}
	// X buttons 4-7 are the wheel: up, down, left, right.
	button := map[string]int{"up": 4, "down": 5, "left": 6, "right": 7}[direction]
	if button == 0 {
		return fail("scroll", fmt.Sprintf("unknown direction %q", direction))
	}
	x, y, has := centerOf(el)
	if !has {
		return fail("scroll", "no visible center found on element or its ancestors")
	}
	x11.sendMotion(x, y)
	for i := 0; i < 3; i++ {
		x11.sendButton(button, true)
		x11.sendButton(button, false)
	}
	return ok(fmt.Sprintf("Scrolled %s", direction))
}

func (h *Handler) adjustRange(el accessibleRef, increment bool) actions.Result {
	cur, min, max, hasValue := el.valueInfo()
	if hasValue {
		step := el.minimumIncrement()
		if step <= 0 {
			step = 1
		}
		next := cur + step
		if !increment {
			next = cur - step
		}
		if next < min {
			next = min
		}
		if next > max {
			next = max
		}
		if el.setCurrentValue(next) {
			verb := "Incremented"
			if !increment {
				verb = "Decremented"
			}
			return ok(fmt.Sprintf("%s to %v", verb, next))
		}
	}
	key := "up"
	if !increment {
		key = "down"
	}
	if el.grabFocus() {
		if err := sendKeyCombo(key); err == nil {
			verb := "Incremented"
			if !increment {
				verb = "Decremented"
			}
			return ok(verb + " (arrow-key fallback)")
		}
	}
	return fail("adjust range", "element exposes no value interface")
}

func (h *Handler) focus(el accessibleRef) actions.Result {
	if el.grabFocus() {
		return ok("Focused")
	}
	return fail("focus", "element did not accept focus")
}

func (h *Handler) dismiss(el accessibleRef) actions.Result {
	for _, name := range []string{"cancel", "close", "dismiss"} {
		if el.doActionNamed(name) {
			return ok("Dismissed")
		}
	}
	el.grabFocus()
	time.Sleep(50 * time.Millisecond)
	if err := sendKeyCombo("escape"); err != nil {
		return fail("dismiss", err.Error())
	}
	return ok("Dismissed (Escape)")
}

func (h *Handler) PressKeys(ctx context.Context, combo string) actions.Result {
	if err := sendKeyCombo(combo); err != nil {
		return actions.Result{Error: fmt.Sprintf("failed to press keys: %v", err)}
	}
	return ok(fmt.Sprintf("Pressed %s", combo))
}

// LaunchApp discovers installed apps from XDG .desktop entries,
// fuzzy-matches name, launches the Exec line, and polls for a matching
// window.
func (h *Handler) LaunchApp(ctx context.Context, name string) actions.Result {
	if strings.TrimSpace(name) == "" {
		return actions.Result{Error: "app name must not be empty"}
	}

	apps := scanDesktopEntries()
	if len(apps) == 0 {
		return actions.Result{Error: "no .desktop entries found in XDG data directories"}
	}

	names := make([]string, 0, len(apps))
	for n := range apps {
		names = append(names, n)
	}
	match, found := actions.FuzzyMatch(name, names)
	if !found {
		return actions.Result{Error: fmt.Sprintf("no installed app matching %q found", name)}
	}

	argv := parseExecLine(apps[match])
	if len(argv) == 0 {
		return actions.Result{Error: fmt.Sprintf("app %q has an empty Exec line", match)}
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return actions.Result{Error: fmt.Sprintf("launching %q: %v", match, err)}
	}
	go cmd.Wait()

	if h.waitForWindow(ctx, match, 8*time.Second) {
		return ok(fmt.Sprintf("%s launched", match))
	}
	return ok(fmt.Sprintf("%s launch sent, but window not yet detected", match))
}

// waitForWindow polls the AT-SPI window list for a title or application
// name containing the launched app's name.
func (h *Handler) waitForWindow(ctx context.Context, appName string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	lower := strings.ToLower(appName)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		for _, app := range h.adapter.applications() {
			if strings.Contains(strings.ToLower(app.name()), lower) {
				return true
			}
			for _, win := range windowsOf(app) {
				if strings.Contains(strings.ToLower(win.name()), lower) {
					return true
				}
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

// xdgApplicationDirs lists every applications/ directory named by the XDG
// base-directory spec, XDG_DATA_HOME first.
func xdgApplicationDirs() []string {
	var dirs []string
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(dataDirs, ":") {
		if d != "" {
			dirs = append(dirs, filepath.Join(d, "applications"))
		}
	}
	return dirs
}

// scanDesktopEntries maps lowercase app display names to their Exec lines.
// NoDisplay entries are skipped; the first occurrence of a name wins, so
// user-local entries shadow system ones.
func scanDesktopEntries() map[string]string {
	apps := make(map[string]string)
	for _, dir := range xdgApplicationDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".desktop") {
				continue
			}
			name, execLine, display := parseDesktopFile(filepath.Join(dir, e.Name()))
			if !display || name == "" || execLine == "" {
				continue
			}
			key := strings.ToLower(name)
			if _, exists := apps[key]; !exists {
				apps[key] = execLine
			}
		}
	}
	return apps
}

func parseDesktopFile(path string) (name, execLine string, display bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", false
	}
	defer f.Close()

	display = true
	inDesktopEntry := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			inDesktopEntry = line == "[Desktop Entry]"
			continue
		}
		if !inDesktopEntry {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Name=") && name == "":
			name = strings.TrimPrefix(line, "Name=")
		case strings.HasPrefix(line, "Exec=") && execLine == "":
			execLine = strings.TrimPrefix(line, "Exec=")
		case strings.HasPrefix(line, "NoDisplay=true"):
			display = false
		}
	}
	return name, execLine, display
}

// parseExecLine splits a .desktop Exec value into argv, dropping the %f/%u
// style field codes that stand in for file arguments.
func parseExecLine(execLine string) []string {
	var argv []string
	for _, part := range strings.Fields(execLine) {
		if strings.HasPrefix(part, "%") && len(part) == 2 {
			continue
		}
		part = strings.Trim(part, `"`)
		if part != "" {
			argv = append(argv, part)
		}
	}
	return argv
}
