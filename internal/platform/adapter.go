// Package platform defines the capability-set interface every
// platform-specific CUP backend implements, plus the lazy constructor
// that selects one at session start.
package platform

import (
	"context"

	"github.com/cup-project/cup/internal/cupnode"
)

// Adapter is the interface the session orchestrator calls against; all
// platform-specific window enumeration, tree walking, and CUP node
// construction lives behind it.
type Adapter interface {
	// PlatformName returns the identifier used in CUP envelopes — one of
	// windows, macos, linux, web, android, ios.
	PlatformName() cupnode.Platform

	// Initialize performs one-time setup (COM init, CDP connect, Atspi
	// bootstrap, ...). It must be idempotent.
	Initialize(ctx context.Context) error

	// ScreenInfo returns the primary display's width, height, and DPI
	// scale factor.
	ScreenInfo(ctx context.Context) (w, h int, scale float64, err error)

	// ForegroundWindow returns metadata for the currently focused window.
	ForegroundWindow(ctx context.Context) (*cupnode.WindowDescriptor, error)

	// AllWindows returns metadata for every visible top-level window.
	AllWindows(ctx context.Context) ([]*cupnode.WindowDescriptor, error)

	// WindowList returns lightweight per-window metadata with no tree
	// walk — it must be near-instant.
	WindowList(ctx context.Context) ([]cupnode.WindowOverview, error)

	// DesktopWindow returns the desktop surface window, or nil if the
	// platform has no desktop concept (e.g. web).
	DesktopWindow(ctx context.Context) (*cupnode.WindowDescriptor, error)

	// CaptureTree walks the accessibility tree for the given windows and
	// returns the CUP tree roots, aggregate stats, and a freshly built
	// ref table mapping node id to native element handle.
	CaptureTree(ctx context.Context, windows []*cupnode.WindowDescriptor, maxDepth int) ([]*cupnode.Node, *cupnode.Stats, *cupnode.RefTable, error)
}
