//go:build linux

package linuxadapter

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// scaleFactor resolves the desktop's display scale: GDK_SCALE and
// QT_SCALE_FACTOR first, then a gsettings query, defaulting to 1.0 when
// neither is available.
func scaleFactor() float64 {
	for _, envVar := range []string{"GDK_SCALE", "QT_SCALE_FACTOR"} {
		if raw := os.Getenv(envVar); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
				return v
			}
		}
	}
	out, err := exec.Command("gsettings", "get", "org.gnome.desktop.interface", "scaling-factor").Output()
	if err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64); err == nil && v > 0 {
			return v
		}
	}
	return 1.0
}
