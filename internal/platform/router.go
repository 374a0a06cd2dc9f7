package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/cup-project/cup/internal/cupnode"
)

// DetectPlatform maps the Go build's GOOS to a CUP platform identifier.
func DetectPlatform() (cupnode.Platform, error) {
	switch runtime.GOOS {
	case "windows":
		return cupnode.PlatformWindows, nil
	case "darwin":
		return cupnode.PlatformMacOS, nil
	case "linux":
		return cupnode.PlatformLinux, nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Factory constructs a fresh, uninitialized Adapter for one platform. Each
// platform package registers its constructor here during init() so this
// file never imports a platform subpackage directly — doing so would pull
// every platform's cgo/syscall build tags into every build.
var Factory = map[cupnode.Platform]func() Adapter{}

// GetAdapter returns a fresh, initialized adapter instance. When platform
// is empty, it auto-detects from the current build's GOOS. Each call
// creates a new adapter — callers are responsible for holding onto it
// for reuse within a Session.
func GetAdapter(ctx context.Context, platform cupnode.Platform) (Adapter, error) {
	if platform == "" {
		detected, err := DetectPlatform()
		if err != nil {
			return nil, err
		}
		platform = detected
	}

	ctor, ok := Factory[platform]
	if !ok {
		return nil, fmt.Errorf("no adapter available for platform %q; currently supported: windows, macos, linux, web", platform)
	}

	adapter := ctor()
	if err := adapter.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initializing %s adapter: %w", platform, err)
	}
	return adapter, nil
}
