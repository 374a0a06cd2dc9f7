// Package cup is the top-level session API: adapter selection, capture
// orchestration, action dispatch, and semantic search over the last
// captured tree.
package cup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cup-project/cup/internal/cuperrors"
	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/actions"
	"github.com/cup-project/cup/internal/cupnode/format"
	"github.com/cup-project/cup/internal/cupnode/search"
	"github.com/cup-project/cup/internal/platform"
)

// MaxDepthDefault is effectively unbounded; callers cap depth explicitly
// when they want a shallow capture.
const MaxDepthDefault = 999

// Session is a stateful CUP capture/action handle bound to one platform
// adapter. Element ids returned by Snapshot are only valid until the next
// Snapshot call — Action/Press/Batch always operate against the most
// recent capture's ref table.
type Session struct {
	id      string
	adapter platform.Adapter
	exec    *actions.Executor

	mu          sync.Mutex
	lastTree    []*cupnode.Node // raw (unpruned) tree, used by Find
	lastEnv     cupnode.Envelope
	lastCapture time.Time
}

// handlerAdapter narrows a platform.Adapter down to the actions.Handler
// methods it already implements, letting every adapter double as its own
// action backend without an extra indirection layer.
type handlerAdapter interface {
	actions.Handler
}

// New builds a Session bound to the named platform, or the host's
// detected platform when name is empty.
func New(ctx context.Context, name cupnode.Platform) (*Session, error) {
	adapter, err := platform.GetAdapter(ctx, name)
	if err != nil {
		return nil, err
	}

	h, ok := adapter.(handlerAdapter)
	if !ok {
		return nil, cuperrors.New(cuperrors.KindEnvironment,
			fmt.Sprintf("platform %q adapter does not implement an action handler", adapter.PlatformName()))
	}

	return &Session{
		id:      uuid.NewString(),
		adapter: adapter,
		exec:    actions.NewExecutor(h),
	}, nil
}

// ID returns the session's opaque identifier, attached to log lines so
// concurrent sessions in one process can be told apart.
func (s *Session) ID() string { return s.id }

// SnapshotOptions configures a capture.
type SnapshotOptions struct {
	Scope    cupnode.Scope
	App      string // title filter, only honored for ScopeFull
	MaxDepth int
	Detail   format.Detail
}

// DefaultSnapshotOptions returns the defaults: foreground scope,
// unbounded depth, compact detail.
func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{Scope: cupnode.ScopeForeground, MaxDepth: MaxDepthDefault, Detail: format.DetailCompact}
}

// Snapshot captures the accessibility tree and returns the structured CUP
// envelope. Callers wanting compact text should pass the result through
// format.SerializeCompact, which reuses the same capture instead of
// re-walking.
func (s *Session) Snapshot(ctx context.Context, opts SnapshotOptions) (cupnode.Envelope, []cupnode.WindowOverview, error) {
	if opts.Scope == "" {
		opts.Scope = cupnode.ScopeForeground
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = MaxDepthDefault
	}
	if opts.Detail == "" {
		opts.Detail = format.DetailCompact
	}

	sw, sh, scale, err := s.adapter.ScreenInfo(ctx)
	if err != nil {
		return cupnode.Envelope{}, nil, err
	}
	screen := cupnode.NewScreen(sw, sh, scale)

	if opts.Scope == cupnode.ScopeOverview {
		windowList, err := s.adapter.WindowList(ctx)
		if err != nil {
			return cupnode.Envelope{}, nil, err
		}
		env := cupnode.Envelope{
			Version:  cupnode.ProtocolVersion,
			Platform: s.adapter.PlatformName(),
			Screen:   screen,
			Scope:    cupnode.ScopeOverview,
			Tree:     []*cupnode.Node{},
			Windows:  windowList,
		}
		s.storeCapture(nil, env)
		return env, windowList, nil
	}

	var (
		windows    []*cupnode.WindowDescriptor
		windowList []cupnode.WindowOverview
		app        *cupnode.AppInfo
	)

	switch opts.Scope {
	case cupnode.ScopeForeground:
		win, err := s.adapter.ForegroundWindow(ctx)
		if err != nil {
			return cupnode.Envelope{}, nil, err
		}
		windows = []*cupnode.WindowDescriptor{win}
		app = &cupnode.AppInfo{Name: win.Title, PID: win.PID, BundleID: win.BundleID}
		windowList, err = s.adapter.WindowList(ctx)
		if err != nil {
			return cupnode.Envelope{}, nil, err
		}
	case cupnode.ScopeDesktop:
		desktop, err := s.adapter.DesktopWindow(ctx)
		if err != nil {
			return cupnode.Envelope{}, nil, err
		}
		if desktop == nil {
			// Platforms without a desktop concept fall back to overview.
			windowList, err = s.adapter.WindowList(ctx)
			if err != nil {
				return cupnode.Envelope{}, nil, err
			}
			env := cupnode.Envelope{
				Version:  cupnode.ProtocolVersion,
				Platform: s.adapter.PlatformName(),
				Screen:   screen,
				Scope:    cupnode.ScopeOverview,
				Tree:     []*cupnode.Node{},
				Windows:  windowList,
			}
			s.storeCapture(nil, env)
			return env, windowList, nil
		}
		windows = []*cupnode.WindowDescriptor{desktop}
		app = &cupnode.AppInfo{Name: "Desktop", PID: desktop.PID, BundleID: desktop.BundleID}
	case cupnode.ScopeFull:
		all, err := s.adapter.AllWindows(ctx)
		if err != nil {
			return cupnode.Envelope{}, nil, err
		}
		if opts.App != "" {
			needle := strings.ToLower(opts.App)
			filtered := all[:0]
			for _, w := range all {
				if strings.Contains(strings.ToLower(w.Title), needle) {
					filtered = append(filtered, w)
				}
			}
			all = filtered
		}
		windows = all
	default:
		return cupnode.Envelope{}, nil, cuperrors.New(cuperrors.KindInvalidInput, fmt.Sprintf("unknown scope %q", opts.Scope))
	}

	tree, _, refs, err := s.adapter.CaptureTree(ctx, windows, opts.MaxDepth)
	if err != nil {
		return cupnode.Envelope{}, nil, err
	}
	s.exec.SetRefs(refs)

	var tools []cupnode.Tool
	if lt, ok := s.adapter.(interface{ LastTools() []cupnode.Tool }); ok {
		tools = lt.LastTools()
	}

	env := format.BuildEnvelope(tree, s.adapter.PlatformName(), opts.Scope, screen, app, tools, format.NowMillis())
	s.storeCapture(tree, env)
	return env, windowList, nil
}

func (s *Session) storeCapture(rawTree []*cupnode.Node, env cupnode.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTree = rawTree
	s.lastEnv = env
	s.lastCapture = time.Now()
}

// SnapshotText captures and serializes to the compact LLM-oriented text
// form in one call.
func (s *Session) SnapshotText(ctx context.Context, opts SnapshotOptions) (string, error) {
	if opts.Scope == "" {
		opts.Scope = cupnode.ScopeForeground
	}
	env, windowList, err := s.Snapshot(ctx, opts)
	if err != nil {
		return "", err
	}
	if env.Scope == cupnode.ScopeOverview {
		return format.SerializeOverview(env.Windows, env.Platform, env.Screen.W, env.Screen.H), nil
	}
	detail := opts.Detail
	if detail == "" {
		detail = format.DetailCompact
	}
	return format.SerializeCompact(env, windowList, detail, format.MaxOutputChars), nil
}

// Action executes one CUP action against an element id from the most
// recent capture.
func (s *Session) Action(ctx context.Context, elementID, action string, params map[string]any) actions.Result {
	return s.exec.Execute(ctx, elementID, action, params)
}

// Press sends a keyboard shortcut with no element reference required.
func (s *Session) Press(ctx context.Context, combo string) actions.Result {
	return s.exec.PressKeys(ctx, combo)
}

// OpenApp launches an application by fuzzy-matched name.
func (s *Session) OpenApp(ctx context.Context, name string) actions.Result {
	return s.exec.LaunchApp(ctx, name)
}

// Find searches the last captured tree (or runs an implicit foreground
// snapshot if none exists yet) and returns matching nodes without
// children, ranked by relevance.
func (s *Session) Find(ctx context.Context, q search.Query) ([]search.Result, error) {
	s.mu.Lock()
	tree := s.lastTree
	s.mu.Unlock()

	if tree == nil {
		if _, _, err := s.Snapshot(ctx, DefaultSnapshotOptions()); err != nil {
			return nil, err
		}
		s.mu.Lock()
		tree = s.lastTree
		s.mu.Unlock()
	}

	return search.SearchTree(tree, q), nil
}

// BatchStep is one entry in a Batch call: either an element action, a
// "press" action (Keys set, ElementID empty), or a "wait" action
// (Action=="wait", WaitMS set).
type BatchStep struct {
	ElementID string
	Action    string
	Params    map[string]any
	Keys      string
	WaitMS    int
}

// Batch executes a sequence of steps, stopping at the first failure.
func (s *Session) Batch(ctx context.Context, steps []BatchStep) []actions.Result {
	var results []actions.Result

	for _, step := range steps {
		var result actions.Result

		switch step.Action {
		case "wait":
			ms := step.WaitMS
			if ms <= 0 {
				ms = 500
			}
			// Waits are clamped to [50, 5000]ms.
			if ms < 50 {
				ms = 50
			}
			if ms > 5000 {
				ms = 5000
			}
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				result = actions.Result{Error: ctx.Err().Error()}
				results = append(results, result)
				return results
			}
			result = actions.Result{Success: true, Message: fmt.Sprintf("Waited %dms", ms)}
		case "press":
			if step.Keys == "" {
				results = append(results, actions.Result{Error: "press action requires 'keys' parameter"})
				return results
			}
			result = s.Press(ctx, step.Keys)
		default:
			if step.ElementID == "" {
				results = append(results, actions.Result{Error: fmt.Sprintf("element action %q requires 'element_id' parameter", step.Action)})
				return results
			}
			result = s.Action(ctx, step.ElementID, step.Action, step.Params)
		}

		results = append(results, result)
		if !result.Success {
			break
		}
	}

	return results
}

// Screenshot is not implemented by this module. PNG capture depends on OS-specific
// windowing/permission APIs (screencapture, mss, Quartz) outside CUP's
// accessibility-tree scope.
func (s *Session) Screenshot(ctx context.Context, region *cupnode.Bounds) ([]byte, error) {
	return nil, cuperrors.ErrNotImplemented
}

// Close releases any adapter-owned resources (e.g. a bootstrapped browser
// process for the web adapter).
func (s *Session) Close() error {
	if c, ok := s.adapter.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
