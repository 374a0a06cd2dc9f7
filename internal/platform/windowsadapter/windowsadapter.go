//go:build windows

// Package windowsadapter implements the CUP platform adapter for Windows
// via the UI Automation (UIA) COM API.
package windowsadapter

import (
	"context"
	"sync"

	"github.com/cup-project/cup/internal/cuperrors"
	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/actions"
	"github.com/cup-project/cup/internal/platform"
)

func init() {
	platform.Factory[cupnode.PlatformWindows] = func() platform.Adapter { return New() }
}

// Adapter is the Windows platform's CUP backend: one apartment-threaded
// COM client holding the IUIAutomation root interface.
type Adapter struct {
	mu          sync.Mutex
	initialized bool
	uia         comObject

	handler *Handler
}

// New builds an uninitialized Windows adapter.
func New() *Adapter {
	a := &Adapter{}
	a.handler = &Handler{adapter: a}
	return a
}

func (a *Adapter) PlatformName() cupnode.Platform { return cupnode.PlatformWindows }

// Initialize performs CoInitializeEx and instantiates the CUIAutomation
// COM server once per Adapter; later calls on the same Adapter are no-ops.
func (a *Adapter) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}
	if err := initCOM(); err != nil {
		return cuperrors.Wrap(cuperrors.KindEnvironment, "initializing COM apartment", err)
	}
	uia, err := createUIAutomation()
	if err != nil {
		return cuperrors.Wrap(cuperrors.KindEnvironment, "creating IUIAutomation instance", err)
	}
	a.uia = uia
	a.initialized = true
	return nil
}

// ScreenInfo returns the primary display's size and DPI scale.
func (a *Adapter) ScreenInfo(ctx context.Context) (int, int, float64, error) {
	w, h := screenSize()
	return w, h, screenScale(), nil
}

func pidPtr(pid int) *int { return &pid }

// ForegroundWindow returns the currently focused top-level window.
func (a *Adapter) ForegroundWindow(ctx context.Context) (*cupnode.WindowDescriptor, error) {
	hwnd, title := foregroundWindow()
	if hwnd == 0 {
		return nil, cuperrors.New(cuperrors.KindEnvironment, "no foreground window")
	}
	return &cupnode.WindowDescriptor{
		Handle: hwnd,
		Title:  title,
		PID:    pidPtr(windowPID(hwnd)),
	}, nil
}

// AllWindows returns every visible top-level window.
func (a *Adapter) AllWindows(ctx context.Context) ([]*cupnode.WindowDescriptor, error) {
	entries := enumWindows()
	out := make([]*cupnode.WindowDescriptor, 0, len(entries))
	for _, e := range entries {
		out = append(out, &cupnode.WindowDescriptor{
			Handle: e.hwnd,
			Title:  e.title,
			PID:    pidPtr(windowPID(e.hwnd)),
		})
	}
	return out, nil
}

// WindowList returns lightweight per-window metadata with no tree walk.
func (a *Adapter) WindowList(ctx context.Context) ([]cupnode.WindowOverview, error) {
	fg, _ := foregroundWindow()
	entries := enumWindows()
	out := make([]cupnode.WindowOverview, 0, len(entries))
	for _, e := range entries {
		if e.title == "" {
			continue
		}
		overview := cupnode.WindowOverview{
			Title:      e.title,
			PID:        pidPtr(windowPID(e.hwnd)),
			Foreground: e.hwnd == fg,
		}
		if x, y, w, h, ok := windowRect(e.hwnd); ok {
			overview.Bounds = &cupnode.Bounds{X: x, Y: y, W: w, H: h}
		}
		out = append(out, overview)
	}
	return out, nil
}

// DesktopWindow returns the Progman/WorkerW desktop surface.
func (a *Adapter) DesktopWindow(ctx context.Context) (*cupnode.WindowDescriptor, error) {
	hwnd, ok := findDesktopHWND()
	if !ok {
		return nil, nil
	}
	return &cupnode.WindowDescriptor{
		Handle: hwnd,
		Title:  "Desktop",
		PID:    pidPtr(windowPID(hwnd)),
	}, nil
}

// Execute, PressKeys, and LaunchApp forward to the adapter's action
// handler so *Adapter itself satisfies actions.Handler, matching the
// session's requirement that every platform.Adapter double as its own
// action backend.
func (a *Adapter) Execute(ctx context.Context, nativeRef any, action string, params map[string]any) actions.Result {
	return a.handler.Execute(ctx, nativeRef, action, params)
}

func (a *Adapter) PressKeys(ctx context.Context, combo string) actions.Result {
	return a.handler.PressKeys(ctx, combo)
}

func (a *Adapter) LaunchApp(ctx context.Context, name string) actions.Result {
	return a.handler.LaunchApp(ctx, name)
}
