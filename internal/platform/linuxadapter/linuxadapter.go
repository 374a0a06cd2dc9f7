//go:build linux

// Package linuxadapter implements the CUP platform adapter for Linux via
// AT-SPI2 over D-Bus (github.com/godbus/dbus/v5 — AT-SPI2 is natively a
// D-Bus protocol), with screen metrics and input synthesis going through
// X11 via cgo (libX11/libXtst) since AT-SPI exposes no display geometry
// of its own.
package linuxadapter

import (
	"context"
	"sync"

	"github.com/cup-project/cup/internal/cuperrors"
	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/actions"
	"github.com/cup-project/cup/internal/platform"
)

func init() {
	platform.Factory[cupnode.PlatformLinux] = func() platform.Adapter { return New() }
}

// Adapter is the Linux platform's CUP backend: one AT-SPI2 bus connection
// plus a lazily opened X11 display for geometry and synthetic input.
type Adapter struct {
	mu          sync.Mutex
	initialized bool
	bus         *atspiConn

	handler *Handler
}

// New builds an uninitialized Linux adapter.
func New() *Adapter {
	a := &Adapter{}
	a.handler = &Handler{adapter: a}
	return a
}

func (a *Adapter) PlatformName() cupnode.Platform { return cupnode.PlatformLinux }

// Initialize connects to the accessibility bus.
func (a *Adapter) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}
	bus, err := connectATSPI()
	if err != nil {
		return cuperrors.Wrap(cuperrors.KindEnvironment, "connecting to AT-SPI2 accessibility bus", err)
	}
	a.bus = bus
	a.initialized = true
	return nil
}

// ScreenInfo returns the primary display's size, falling back to a fixed
// 1920x1080 at scale 1.0 when X11 can't be opened — e.g. under a pure
// Wayland compositor with no XWayland.
func (a *Adapter) ScreenInfo(ctx context.Context) (int, int, float64, error) {
	if w, h, ok := x11.screenSize(); ok {
		return w, h, scaleFactor(), nil
	}
	return 1920, 1080, 1.0, nil
}

func (a *Adapter) applications() []accessibleRef {
	if a.bus == nil {
		return nil
	}
	return a.bus.root().children()
}

func windowsOf(app accessibleRef) []accessibleRef {
	var wins []accessibleRef
	for _, child := range app.children() {
		switch child.roleName() {
		case "frame", "dialog", "window":
			wins = append(wins, child)
		}
	}
	return wins
}

func windowDescriptor(app, win accessibleRef) *cupnode.WindowDescriptor {
	d := &cupnode.WindowDescriptor{
		Handle: win,
		Title:  win.name(),
	}
	if x, y, w, h, ok := win.extents(); ok {
		d.Bounds = &cupnode.Bounds{X: x, Y: y, W: w, H: h}
	}
	return d
}

// ForegroundWindow walks every registered application's top-level windows
// looking for one whose AT-SPI state includes active/focused.
func (a *Adapter) ForegroundWindow(ctx context.Context) (*cupnode.WindowDescriptor, error) {
	for _, app := range a.applications() {
		for _, win := range windowsOf(app) {
			states := win.states()
			if states["active"] || states["focused"] {
				return windowDescriptor(app, win), nil
			}
		}
	}
	return nil, cuperrors.New(cuperrors.KindEnvironment, "no active window found via AT-SPI2")
}

// AllWindows returns every top-level window across every registered
// application.
func (a *Adapter) AllWindows(ctx context.Context) ([]*cupnode.WindowDescriptor, error) {
	var out []*cupnode.WindowDescriptor
	for _, app := range a.applications() {
		for _, win := range windowsOf(app) {
			out = append(out, windowDescriptor(app, win))
		}
	}
	return out, nil
}

// WindowList returns lightweight per-window metadata with no tree walk.
func (a *Adapter) WindowList(ctx context.Context) ([]cupnode.WindowOverview, error) {
	var out []cupnode.WindowOverview
	for _, app := range a.applications() {
		for _, win := range windowsOf(app) {
			states := win.states()
			overview := cupnode.WindowOverview{
				Title:      win.name(),
				Foreground: states["active"] || states["focused"],
			}
			if x, y, w, h, ok := win.extents(); ok {
				overview.Bounds = &cupnode.Bounds{X: x, Y: y, W: w, H: h}
			}
			out = append(out, overview)
		}
	}
	return out, nil
}

// desktopAppNames are file managers whose "desktop frame" accessible
// represents the desktop surface.
var desktopAppNames = map[string]bool{
	"nautilus": true, "nemo": true, "caja": true, "pcmanfm": true, "thunar": true,
}

// DesktopWindow returns the file manager's desktop-frame accessible when
// one of the known desktop-capable file managers is running.
func (a *Adapter) DesktopWindow(ctx context.Context) (*cupnode.WindowDescriptor, error) {
	for _, app := range a.applications() {
		if !desktopAppNames[app.name()] {
			continue
		}
		for _, child := range app.children() {
			if child.roleName() == "desktop frame" {
				return windowDescriptor(app, child), nil
			}
		}
	}
	return nil, nil
}

// CaptureTree walks each requested window's accessibility tree.
func (a *Adapter) CaptureTree(ctx context.Context, wins []*cupnode.WindowDescriptor, maxDepth int) ([]*cupnode.Node, *cupnode.Stats, *cupnode.RefTable, error) {
	if err := a.Initialize(ctx); err != nil {
		return nil, nil, nil, err
	}
	if maxDepth < 0 {
		maxDepth = 999
	}

	idGen := &cupnode.IDGen{}
	refs := cupnode.NewRefTable()
	stats := cupnode.NewStats()

	var refsList []accessibleRef
	for _, w := range wins {
		if el, ok := w.Handle.(accessibleRef); ok {
			refsList = append(refsList, el)
		}
	}
	tree := a.captureTreeWindows(refsList, idGen, refs, stats, maxDepth)
	return tree, stats, refs, nil
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
