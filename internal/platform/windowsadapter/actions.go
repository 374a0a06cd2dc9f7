//go:build windows

package windowsadapter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cup-project/cup/internal/cupnode/actions"
)

// Handler executes CUP actions against UIA elements via pattern objects,
// falling back to synthetic input when no pattern applies.
type Handler struct {
	adapter *Adapter
}

func fail(action string, msg string) actions.Result {
	return actions.Result{Error: fmt.Sprintf("action %q failed: %s", action, msg)}
}

func ok(message string) actions.Result {
	return actions.Result{Success: true, Message: message}
}

func elementCenter(el comObject) (int, int, bool) {
	x, y, w, h, okRect := cachedRect(el, propBoundingRectangle)
	if !okRect {
		return 0, 0, false
	}
	return x + w/2, y + h/2, true
}

func (h *Handler) Execute(ctx context.Context, nativeRef any, action string, params map[string]any) actions.Result {
	el, isEl := nativeRef.(comObject)
	if !isEl || !el.valid() {
		return actions.Result{Error: "stale or malformed UIA element reference"}
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
		return actions.Result{Error: fmt.Sprintf("action %q not implemented for windows", action)}
	}
}

func (h *Handler) click(el comObject) actions.Result {
	if pat, has := el.getPattern(patternInvoke); has {
		if err := pat.invoke(); err != nil {
			return fail("click", err.Error())
		}
		return ok("Clicked")
	}
	if err := el.setFocus(); err == nil {
		time.Sleep(50 * time.Millisecond)
		if err := sendKeyCombo("enter"); err == nil {
			return ok("Clicked (focus+enter fallback)")
		}
	}
	if x, y, has := elementCenter(el); has {
		if err := sendMouseClick(x, y, "left", 1); err == nil {
			return ok("Clicked (synthetic mouse fallback)")
		}
	}
	return fail("click", "element does not support click")
}

func (h *Handler) toggle(el comObject) actions.Result {
	if pat, has := el.getPattern(patternToggle); has {
		if err := pat.toggle(); err != nil {
			return fail("toggle", err.Error())
		}
		return ok("Toggled")
	}
	return h.click(el)
}

func (h *Handler) typeText(el comObject, text string) actions.Result {
	if err := el.setFocus(); err != nil {
		return fail("type", err.Error())
	}
	time.Sleep(50 * time.Millisecond)
	if err := sendKeyCombo("ctrl+a"); err != nil {
		return fail("type", err.Error())
	}
	time.Sleep(50 * time.Millisecond)
	if err := sendUnicodeString(text); err != nil {
		return fail("type", err.Error())
	}
	return ok(fmt.Sprintf("Typed: %s", text))
}

func (h *Handler) setValue(el comObject, text string) actions.Result {
	if pat, has := el.getPattern(patternValue); has {
		if err := pat.setValuePattern(text); err != nil {
			return fail("setvalue", err.Error())
		}
		return ok(fmt.Sprintf("Set value to: %s", text))
	}
	return h.typeText(el, text)
}

func (h *Handler) expandOrCollapse(el comObject, expand bool) actions.Result {
	pat, has := el.getPattern(patternExpandCollapse)
	if !has {
		return h.click(el)
	}
	if expand {
		if err := pat.expand(); err != nil {
			return fail("expand", err.Error())
		}
		return ok("Expanded")
	}
	if err := pat.collapse(); err != nil {
		return fail("collapse", err.Error())
	}
	return ok("Collapsed")
}

func (h *Handler) selectItem(el comObject) actions.Result {
	if pat, has := el.getPattern(patternSelectionItem); has {
		if err := pat.selectItem(); err != nil {
			return fail("select", err.Error())
		}
		return ok("Selected")
	}
	return h.click(el)
}

func (h *Handler) scroll(el comObject, direction string) actions.Result {
	pat, has := el.getPattern(patternScroll)
	if has {
		// UIA ScrollAmount: 0=LargeDecrement 1=SmallDecrement 2=NoAmount
		// 3=LargeIncrement 4=SmallIncrement.
		horiz, vert := 2, 2
		switch direction {
		case "up":
			vert = 1
		case "down":
			vert = 4
		case "left":
			horiz = 1
		case "right":
			horiz = 4
		}
		if err := pat.scrollPattern(horiz, vert); err != nil {
			return fail("scroll", err.Error())
		}
		return ok(fmt.Sprintf("Scrolled %s", direction))
	}
	x, y, has := elementCenter(el)
	if !has {
		return fail("scroll", "element has no bounds for synthetic wheel fallback")
	}
	if err := sendWheel(x, y, direction); err != nil {
		return fail("scroll", err.Error())
	}
	return ok(fmt.Sprintf("Scrolled %s (synthetic wheel)", direction))
}

func (h *Handler) adjustRange(el comObject, increment bool) actions.Result {
	pat, has := el.getPattern(patternRangeValue)
	if has {
		current, errV := pat.rangeGetValue()
		step, errS := pat.rangeGetSmallChange()
		min, errMin := pat.rangeGetMin()
		max, errMax := pat.rangeGetMax()
		if errV == nil && errS == nil && errMin == nil && errMax == nil {
			if step <= 0 {
				step = 1
			}
			next := current + step
			if !increment {
				next = current - step
			}
			if next < min {
				next = min
			}
			if next > max {
				next = max
			}
			if err := pat.rangeSetValue(next); err != nil {
				return fail("adjust range", err.Error())
			}
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
	if err := el.setFocus(); err == nil {
		if err := sendKeyCombo(key); err == nil {
			verb := "Incremented"
			if !increment {
				verb = "Decremented"
			}
			return ok(verb + " (arrow-key fallback)")
		}
	}
	return fail("adjust range", "element does not support range value")
}

func (h *Handler) rightclick(el comObject) actions.Result {
	x, y, has := elementCenter(el)
	if !has {
		return fail("rightclick", "element has no bounds")
	}
	if err := sendMouseClick(x, y, "right", 1); err != nil {
		return fail("rightclick", err.Error())
	}
	return ok("Right-clicked")
}

func (h *Handler) doubleclick(el comObject) actions.Result {
	x, y, has := elementCenter(el)
	if !has {
		return fail("doubleclick", "element has no bounds")
	}
	if err := sendMouseClick(x, y, "left", 2); err != nil {
		return fail("doubleclick", err.Error())
	}
	return ok("Double-clicked")
}

func (h *Handler) longpress(el comObject) actions.Result {
	x, y, has := elementCenter(el)
	if !has {
		return fail("longpress", "element has no bounds")
	}
	if err := sendMouseDown(x, y, "left"); err != nil {
		return fail("longpress", err.Error())
	}
	time.Sleep(800 * time.Millisecond)
	if err := sendMouseUp(x, y, "left"); err != nil {
		return fail("longpress", err.Error())
	}
	return ok("Long-pressed")
}

func (h *Handler) focus(el comObject) actions.Result {
	if err := el.setFocus(); err != nil {
		return fail("focus", err.Error())
	}
	return ok("Focused")
}

func (h *Handler) dismiss(el comObject) actions.Result {
	_ = el.setFocus()
	time.Sleep(50 * time.Millisecond)
	if err := sendKeyCombo("escape"); err != nil {
		return fail("dismiss", err.Error())
	}
	return ok("Dismissed (Escape)")
}

// PressKeys sends a keyboard shortcut system-wide.
func (h *Handler) PressKeys(ctx context.Context, combo string) actions.Result {
	if err := sendKeyCombo(combo); err != nil {
		return actions.Result{Error: fmt.Sprintf("failed to press keys: %v", err)}
	}
	return ok(fmt.Sprintf("Pressed %s", combo))
}

// LaunchApp discovers installed apps via Get-StartApps (falling back to a
// Start Menu .lnk scan), fuzzy-matches name, and launches by AppID.
func (h *Handler) LaunchApp(ctx context.Context, name string) actions.Result {
	if strings.TrimSpace(name) == "" {
		return actions.Result{Error: "app name must not be empty"}
	}

	apps := getStartApps()
	if len(apps) == 0 {
		return actions.Result{Error: "could not discover installed applications"}
	}

	names := make([]string, 0, len(apps))
	for n := range apps {
		names = append(names, n)
	}
	match, found := actions.FuzzyMatch(name, names)
	if !found {
		return actions.Result{Error: fmt.Sprintf("no installed app matching %q found", name)}
	}
	appID := apps[match]

	pid := launchByAppID(appID)
	if waitForWindow(ctx, pid, match, 8*time.Second) {
		return ok(fmt.Sprintf("%s launched", strings.Title(match)))
	}
	return ok(fmt.Sprintf("%s launch sent, but window not yet detected", strings.Title(match)))
}

func runPowerShell(command string) (string, bool) {
	cmd := exec.Command("powershell.exe", "-NoProfile", "-NonInteractive", "-Command", command)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", false
	}
	return out.String(), true
}

func getStartApps() map[string]string {
	if apps := getStartAppsViaPowerShell(); len(apps) > 0 {
		return apps
	}
	return getAppsFromShortcuts()
}

func getStartAppsViaPowerShell() map[string]string {
	output, okRun := runPowerShell("Get-StartApps | ConvertTo-Csv -NoTypeInformation")
	if !okRun || strings.TrimSpace(output) == "" {
		return nil
	}
	r := csv.NewReader(strings.NewReader(output))
	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return nil
	}
	header := records[0]
	nameIdx, idIdx := -1, -1
	for i, h := range header {
		switch h {
		case "Name":
			nameIdx = i
		case "AppID":
			idIdx = i
		}
	}
	if nameIdx == -1 || idIdx == -1 {
		return nil
	}
	apps := make(map[string]string)
	for _, row := range records[1:] {
		if nameIdx >= len(row) || idIdx >= len(row) {
			continue
		}
		n := strings.TrimSpace(row[nameIdx])
		id := strings.TrimSpace(row[idIdx])
		if n != "" && id != "" {
			apps[strings.ToLower(n)] = id
		}
	}
	return apps
}

func getAppsFromShortcuts() map[string]string {
	apps := make(map[string]string)
	dirs := []string{
		filepath.Join(os.Getenv("ProgramData"), `Microsoft\Windows\Start Menu\Programs`),
		filepath.Join(os.Getenv("APPDATA"), `Microsoft\Windows\Start Menu\Programs`),
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info == nil || info.IsDir() {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".lnk") {
				return nil
			}
			name := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			if _, exists := apps[name]; !exists {
				apps[name] = path
			}
			return nil
		})
	}
	return apps
}

func launchByAppID(appID string) int {
	if strings.Contains(appID, `\`) {
		if _, err := os.Stat(appID); err == nil || strings.Contains(appID, `\`) {
			cmd := fmt.Sprintf("Start-Process -LiteralPath %s -PassThru | Select-Object -ExpandProperty Id", psQuote(appID))
			out, okRun := runPowerShell(cmd)
			if okRun {
				if pid, err := strconv.Atoi(strings.TrimSpace(out)); err == nil {
					return pid
				}
			}
			return 0
		}
	}
	cmd := fmt.Sprintf(`Start-Process %s`, psQuote(`shell:AppsFolder\`+appID))
	runPowerShell(cmd)
	return 0
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// waitForWindow polls for a new visible window whose title contains the
// app name, up to timeout.
func waitForWindow(ctx context.Context, pid int, appName string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	lower := strings.ToLower(appName)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		for _, e := range enumWindows() {
			if e.title == "" {
				continue
			}
			if (pid != 0 && windowPID(e.hwnd) == pid) || strings.Contains(strings.ToLower(e.title), lower) {
				return true
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}
