//go:build darwin

// Package macosadapter implements the CUP platform adapter for macOS via
// the Accessibility API (AXUIElement), bound through cgo against
// ApplicationServices and CoreGraphics.
package macosadapter

import (
	"context"
	"sort"
	"sync"

	"github.com/cup-project/cup/internal/cuperrors"
	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/actions"
	"github.com/cup-project/cup/internal/platform"
)

func init() {
	platform.Factory[cupnode.PlatformMacOS] = func() platform.Adapter { return New() }
}

// Adapter is the macOS platform's CUP backend: a thin wrapper over the
// system-wide AXUIElement and NSWorkspace query surface.
type Adapter struct {
	mu          sync.Mutex
	initialized bool
	systemWide  axElement

	handler *Handler
}

// New builds an uninitialized macOS adapter.
func New() *Adapter {
	a := &Adapter{}
	a.handler = &Handler{adapter: a}
	return a
}

func (a *Adapter) PlatformName() cupnode.Platform { return cupnode.PlatformMacOS }

// Initialize verifies the process holds Accessibility permission and
// caches the system-wide element. Without the permission every other AX
// call would fail silently, so this errors out loudly instead.
func (a *Adapter) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}
	if !isTrusted() {
		return cuperrors.New(cuperrors.KindEnvironment,
			"process is not trusted for Accessibility access; grant it in System Settings > Privacy & Security > Accessibility")
	}
	a.systemWide = systemWideElement()
	a.initialized = true
	return nil
}

// ScreenInfo returns the main display's size and backing scale factor.
func (a *Adapter) ScreenInfo(ctx context.Context) (int, int, float64, error) {
	w, h, scale, ok := screenInfo()
	if !ok {
		return 1920, 1080, 2.0, nil
	}
	return int(w), int(h), scale, nil
}

func appElement(pid int) axElement {
	return applicationElement(pid)
}

func windowTitle(win axElement) string {
	vals := batchRead(win, []string{"AXTitle"})
	return stringOf(vals, "AXTitle")
}

// windowsOf returns every AXWindow child of an application element.
func windowsOf(app axElement) []axElement {
	v, ok := getAttribute(app, "AXWindows")
	if !ok {
		return nil
	}
	return v.elements
}

// ForegroundWindow returns the frontmost application's main window.
func (a *Adapter) ForegroundWindow(ctx context.Context) (*cupnode.WindowDescriptor, error) {
	pid, ok := frontmostAppPID()
	if !ok {
		return nil, cuperrors.New(cuperrors.KindEnvironment, "no frontmost application")
	}
	app := appElement(pid)
	wins := windowsOf(app)
	if len(wins) == 0 {
		return nil, cuperrors.New(cuperrors.KindEnvironment, "frontmost application has no windows")
	}
	win := wins[0]
	bundle := ""
	for _, ra := range runningApps() {
		if ra.pid == pid {
			bundle = ra.bundle
		}
	}
	return &cupnode.WindowDescriptor{
		Handle:   win,
		Title:    windowTitle(win),
		PID:      pidPtr(pid),
		BundleID: bundle,
		Bounds:   boundsOf(win),
	}, nil
}

func pidPtr(pid int) *int { return &pid }

func boundsOf(win axElement) *cupnode.Bounds {
	vals := batchRead(win, []string{"AXPosition", "AXSize"})
	pv, pok := vals["AXPosition"]
	sv, sok := vals["AXSize"]
	if !pok || pv.point == nil {
		return nil
	}
	b := &cupnode.Bounds{X: int(pv.point.x), Y: int(pv.point.y)}
	if sok && sv.size != nil {
		b.W, b.H = int(sv.size.w), int(sv.size.h)
	}
	return b
}

// AllWindows returns every top-level window across every regular
// (non-background) running application.
func (a *Adapter) AllWindows(ctx context.Context) ([]*cupnode.WindowDescriptor, error) {
	var out []*cupnode.WindowDescriptor
	for _, ra := range runningApps() {
		app := appElement(ra.pid)
		for _, win := range windowsOf(app) {
			out = append(out, &cupnode.WindowDescriptor{
				Handle:   win,
				Title:    windowTitle(win),
				PID:      pidPtr(ra.pid),
				BundleID: ra.bundle,
				Bounds:   boundsOf(win),
			})
		}
	}
	return out, nil
}

// WindowList returns lightweight per-window metadata with no tree walk.
func (a *Adapter) WindowList(ctx context.Context) ([]cupnode.WindowOverview, error) {
	fgPID, _ := frontmostAppPID()
	apps := runningApps()
	sort.Slice(apps, func(i, j int) bool { return apps[i].pid < apps[j].pid })

	var out []cupnode.WindowOverview
	for _, ra := range apps {
		app := appElement(ra.pid)
		wins := windowsOf(app)
		for i, win := range wins {
			pid := ra.pid
			out = append(out, cupnode.WindowOverview{
				Title:      windowTitle(win),
				PID:        &pid,
				BundleID:   ra.bundle,
				Foreground: ra.pid == fgPID && i == 0,
				Bounds:     boundsOf(win),
			})
		}
	}
	return out, nil
}

// DesktopWindow has no AXUIElement representation on macOS; the Finder
// desktop is not exposed through the Accessibility tree the way Windows'
// Progman surface is.
func (a *Adapter) DesktopWindow(ctx context.Context) (*cupnode.WindowDescriptor, error) {
	return nil, nil
}

// Execute, PressKeys, and LaunchApp forward to the adapter's action
// handler so *Adapter itself satisfies actions.Handler, matching every
// other platform adapter doubling as its own action backend.
func (a *Adapter) Execute(ctx context.Context, nativeRef any, action string, params map[string]any) actions.Result {
	return a.handler.Execute(ctx, nativeRef, action, params)
}

func (a *Adapter) PressKeys(ctx context.Context, combo string) actions.Result {
	return a.handler.PressKeys(ctx, combo)
}

func (a *Adapter) LaunchApp(ctx context.Context, name string) actions.Result {
	return a.handler.LaunchApp(ctx, name)
}
