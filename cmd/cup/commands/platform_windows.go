//go:build windows

package commands

// Registers the Windows UI Automation adapter with the platform router
// (see root.go's blank-import note).
import _ "github.com/cup-project/cup/internal/platform/windowsadapter"
