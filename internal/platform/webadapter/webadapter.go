// Package webadapter implements the CUP platform adapter for web pages
// via the Chrome DevTools Protocol.
package webadapter

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cup-project/cup/internal/cuperrors"
	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/actions"
	"github.com/cup-project/cup/internal/platform"
	"github.com/cup-project/cup/internal/platform/webadapter/cdp"
)

func init() {
	platform.Factory[cupnode.PlatformWeb] = func() platform.Adapter { return New() }
}

const (
	defaultHost = "127.0.0.1"
	defaultPort = 9222
	sendTimeout = 30 * time.Second
)

// Adapter is the web platform's CUP backend, connecting to a Chromium
// target over CDP.
type Adapter struct {
	host string
	port int

	mu          sync.Mutex
	initialized bool
	launcher    *bootstrapLauncher
	lastTools   []cupnode.Tool

	handler *Handler
}

// New builds an uninitialized web adapter, reading CUP_CDP_HOST/
// CUP_CDP_PORT from the environment (localhost:9222 when unset).
func New() *Adapter {
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
	return &Adapter{host: host, port: port, handler: NewHandler()}
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

func (a *Adapter) PlatformName() cupnode.Platform { return cupnode.PlatformWeb }

// Initialize verifies (or bootstraps) a reachable CDP endpoint with at
// least one page target.
func (a *Adapter) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}

	targets, err := cdp.PageTargets(ctx, a.host, a.port)
	if err != nil || len(targets) == 0 {
		log.Debug().Str("component", "capture").Str("platform", "web").
			Msg("no reachable CDP target, attempting local bootstrap launch")
		launcher, launchErr := newBootstrapLauncher(ctx, a.port)
		if launchErr != nil {
			return cuperrors.Wrap(cuperrors.KindEnvironment,
				fmt.Sprintf("cannot connect to CDP at %s:%d; launch Chrome with --remote-debugging-port=%d", a.host, a.port, a.port),
				launchErr)
		}
		a.launcher = launcher
		targets, err = cdp.PageTargets(ctx, a.host, a.port)
		if err != nil || len(targets) == 0 {
			return cuperrors.New(cuperrors.KindEnvironment,
				fmt.Sprintf("CDP endpoint at %s:%d has no page targets; open at least one tab", a.host, a.port))
		}
	}

	a.initialized = true
	return nil
}

func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.launcher != nil {
		return a.launcher.Close()
	}
	return nil
}

func (a *Adapter) pageTargets(ctx context.Context) ([]cdp.Target, error) {
	return cdp.PageTargets(ctx, a.host, a.port)
}

// ScreenInfo returns the active tab's viewport dimensions and device pixel
// ratio as the "scale" factor.
func (a *Adapter) ScreenInfo(ctx context.Context) (int, int, float64, error) {
	targets, err := a.pageTargets(ctx)
	if err != nil || len(targets) == 0 {
		return 1920, 1080, 1.0, nil
	}
	conn, err := cdp.Connect(targets[0].WebSocketDebuggerURL, a.host)
	if err != nil {
		return 1920, 1080, 1.0, nil
	}
	defer conn.Close()
	w, h, s, _ := getViewportInfo(conn)
	return w, h, s, nil
}

func (a *Adapter) descriptorFor(t cdp.Target) *cupnode.WindowDescriptor {
	return &cupnode.WindowDescriptor{
		Handle: t.WebSocketDebuggerURL,
		Title:  t.Title,
		URL:    t.URL,
	}
}

func (a *Adapter) ForegroundWindow(ctx context.Context) (*cupnode.WindowDescriptor, error) {
	targets, err := a.pageTargets(ctx)
	if err != nil {
		return nil, cuperrors.Wrap(cuperrors.KindEnvironment, "listing CDP targets", err)
	}
	if len(targets) == 0 {
		return nil, cuperrors.New(cuperrors.KindEnvironment, "no browser tabs found")
	}
	return a.descriptorFor(targets[0]), nil
}

func (a *Adapter) AllWindows(ctx context.Context) ([]*cupnode.WindowDescriptor, error) {
	targets, err := a.pageTargets(ctx)
	if err != nil {
		return nil, cuperrors.Wrap(cuperrors.KindEnvironment, "listing CDP targets", err)
	}
	out := make([]*cupnode.WindowDescriptor, len(targets))
	for i, t := range targets {
		out[i] = a.descriptorFor(t)
	}
	return out, nil
}

func (a *Adapter) WindowList(ctx context.Context) ([]cupnode.WindowOverview, error) {
	targets, err := a.pageTargets(ctx)
	if err != nil {
		return nil, cuperrors.Wrap(cuperrors.KindEnvironment, "listing CDP targets", err)
	}
	out := make([]cupnode.WindowOverview, len(targets))
	for i, t := range targets {
		out[i] = cupnode.WindowOverview{
			Title:      t.Title,
			Foreground: i == 0,
			URL:        t.URL,
		}
	}
	return out, nil
}

// DesktopWindow has no meaning on the web platform.
func (a *Adapter) DesktopWindow(ctx context.Context) (*cupnode.WindowDescriptor, error) {
	return nil, nil
}

// CaptureTree walks each requested tab's accessibility tree over CDP,
// running one worker per window bounded by min(len(windows), 8).
func (a *Adapter) CaptureTree(ctx context.Context, windows []*cupnode.WindowDescriptor, maxDepth int) ([]*cupnode.Node, *cupnode.Stats, *cupnode.RefTable, error) {
	if err := a.Initialize(ctx); err != nil {
		return nil, nil, nil, err
	}
	if maxDepth < 0 {
		maxDepth = 999
	}
	if len(windows) == 0 {
		return nil, cupnode.NewStats(), cupnode.NewRefTable(), nil
	}
	a.mu.Lock()
	a.lastTools = nil
	a.mu.Unlock()

	idGen := &cupnode.IDGen{}
	refs := cupnode.NewRefTable()
	stats := cupnode.NewStats()

	poolSize := len(windows)
	if poolSize > 8 {
		poolSize = 8
	}
	sem := make(chan struct{}, poolSize)

	type walkResult struct {
		roots []*cupnode.Node
		stats *cupnode.Stats
	}
	results := make([]walkResult, len(windows))

	var wg sync.WaitGroup
	for i, win := range windows {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, win *cupnode.WindowDescriptor) {
			defer wg.Done()
			defer func() { <-sem }()
			roots, winStats, tools, err := a.captureWindow(ctx, win, idGen, refs, maxDepth)
			if err != nil {
				log.Warn().Str("component", "capture").Str("platform", "web").
					Str("window", win.Title).Err(err).Msg("window capture failed, skipped")
				return
			}
			results[i] = walkResult{roots: roots, stats: winStats}
			a.mu.Lock()
			a.lastTools = append(a.lastTools, tools...)
			a.mu.Unlock()
		}(i, win)
	}
	wg.Wait()

	var tree []*cupnode.Node
	for _, r := range results {
		tree = append(tree, r.roots...)
		stats.Merge(r.stats)
	}
	return tree, stats, refs, nil
}

func (a *Adapter) captureWindow(ctx context.Context, win *cupnode.WindowDescriptor, idGen *cupnode.IDGen, refs *cupnode.RefTable, maxDepth int) ([]*cupnode.Node, *cupnode.Stats, []cupnode.Tool, error) {
	wsURL, _ := win.Handle.(string)
	conn, err := cdp.Connect(wsURL, a.host)
	if err != nil {
		return nil, nil, nil, err
	}
	defer conn.Close()

	if _, err := conn.Send("Accessibility.enable", nil, sendTimeout); err != nil {
		return nil, nil, nil, err
	}
	if _, err := conn.Send("Runtime.enable", nil, sendTimeout); err != nil {
		return nil, nil, nil, err
	}

	vw, vh, _, _ := getViewportInfo(conn)

	raw, err := conn.Send("Accessibility.getFullAXTree", nil, sendTimeout)
	if err != nil {
		return nil, nil, nil, err
	}
	axNodes, err := decodeAXNodes(raw)
	if err != nil {
		return nil, nil, nil, err
	}

	stats := cupnode.NewStats()
	roots := buildTreeFromFlat(axNodes, idGen, stats, maxDepth, vw, vh, refs, wsURL)

	tools := extractWebMCPTools(conn)
	return roots, stats, tools, nil
}

// LastTools returns the WebMCP tools discovered by the most recently
// completed CaptureTree call.
func (a *Adapter) LastTools() []cupnode.Tool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]cupnode.Tool(nil), a.lastTools...)
}

func getViewportInfo(conn *cdp.Conn) (int, int, float64, error) {
	raw, err := conn.Send("Runtime.evaluate", map[string]any{
		"expression":    "JSON.stringify({w:window.innerWidth,h:window.innerHeight,s:window.devicePixelRatio})",
		"returnByValue": true,
	}, 5*time.Second)
	if err != nil {
		return 1920, 1080, 1.0, err
	}
	w, h, s, err := parseViewportResult(raw)
	if err != nil {
		return 1920, 1080, 1.0, err
	}
	return w, h, s, nil
}
