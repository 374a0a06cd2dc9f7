//go:build darwin

package commands

// Registers the macOS Accessibility (AXUIElement) adapter with the
// platform router (see root.go's blank-import note).
import _ "github.com/cup-project/cup/internal/platform/macosadapter"
