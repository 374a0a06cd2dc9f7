//go:build linux

package commands

// Registers the Linux AT-SPI2 adapter with the platform router (see
// root.go's blank-import note).
import _ "github.com/cup-project/cup/internal/platform/linuxadapter"
