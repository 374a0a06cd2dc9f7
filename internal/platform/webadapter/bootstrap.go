package webadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/cup-project/cup/internal/platform/webadapter/cdp"
)

// bootstrapLauncher owns a locally launched Chromium process used only
// when no externally managed CDP target answers at CUP_CDP_HOST/
// CUP_CDP_PORT. Playwright is used only to obtain a debuggable Chromium
// process; every subsequent interaction goes through raw CDP.
type bootstrapLauncher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// newBootstrapLauncher starts a headless Chromium with remote debugging
// exposed on port, then polls the CDP target list until it responds.
func newBootstrapLauncher(ctx context.Context, port int) (*bootstrapLauncher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
			fmt.Sprintf("--remote-debugging-port=%d", port),
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	// A fresh page ensures at least one "page" CDP target exists for
	// capture_tree to walk.
	ctxt, err := browser.NewContext()
	if err == nil {
		_, _ = ctxt.NewPage()
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if targets, err := cdp.PageTargets(ctx, "127.0.0.1", port); err == nil && len(targets) > 0 {
			break
		}
		time.Sleep(200 * time.Millisecond)
	}

	return &bootstrapLauncher{pw: pw, browser: browser}, nil
}

func (l *bootstrapLauncher) Close() error {
	if l.browser != nil {
		_ = l.browser.Close()
	}
	if l.pw != nil {
		return l.pw.Stop()
	}
	return nil
}
