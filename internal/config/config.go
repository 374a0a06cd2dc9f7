// Package config loads CUP's runtime settings: environment variables for
// connection/display plumbing and logging, plus an optional cup.toml file
// for rarely-changing numeric defaults.
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Defaults holds the static, rarely-changing numbers a session needs —
// capture depth, output size, search tuning, and worker pool cap. These
// load from an optional cup.toml. MaxDepth and WorkerPoolCap are also
// overridable by CUP_MAX_DEPTH and CUP_WORKER_POOL_CAP, with the
// environment winning over file values; the other fields have no
// environment override.
type Defaults struct {
	MaxDepth        int     `toml:"max_depth"`
	MaxOutputChars  int     `toml:"max_output_chars"`
	SearchLimit     int     `toml:"search_limit"`
	SearchThreshold float64 `toml:"search_threshold"`
	WorkerPoolCap   int     `toml:"worker_pool_cap"`
}

// DefaultDefaults mirrors the constants already hard-coded in
// internal/cupnode/format and internal/cupnode/search, so a missing
// cup.toml behaves identically to those packages' own zero-config
// behaviour.
func DefaultDefaults() Defaults {
	return Defaults{
		MaxDepth:        999,
		MaxOutputChars:  40_000,
		SearchLimit:     5,
		SearchThreshold: 0.15,
		WorkerPoolCap:   8,
	}
}

// Runtime is the full set of settings a session or CLI invocation reads:
// connection/display env vars plus the file-backed Defaults.
type Runtime struct {
	Defaults Defaults

	CDPHost string
	CDPPort int

	Display       string
	XDGDataHome   string
	XDGDataDirs   string
	GDKScale      string
	QTScaleFactor string

	LogLevel string
	LogFile  string
}

// Load reads .env (if present), an optional
// cup.toml at tomlPath (skipped silently if absent), and then overlays
// process environment variables — env always wins.
func Load(tomlPath string) (Runtime, error) {
	_ = godotenv.Load()

	defaults := DefaultDefaults()
	if tomlPath != "" {
		if _, err := os.Stat(tomlPath); err == nil {
			var fileDefaults Defaults
			if _, err := toml.DecodeFile(tomlPath, &fileDefaults); err != nil {
				return Runtime{}, err
			}
			mergeNonZero(&defaults, fileDefaults)
		}
	}

	rt := Runtime{
		Defaults:      defaults,
		CDPHost:       getenvDefault("CUP_CDP_HOST", "127.0.0.1"),
		CDPPort:       getenvIntDefault("CUP_CDP_PORT", 9222),
		Display:       os.Getenv("DISPLAY"),
		XDGDataHome:   os.Getenv("XDG_DATA_HOME"),
		XDGDataDirs:   os.Getenv("XDG_DATA_DIRS"),
		GDKScale:      os.Getenv("GDK_SCALE"),
		QTScaleFactor: os.Getenv("QT_SCALE_FACTOR"),
		LogLevel:      getenvDefault("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
	}

	if v := os.Getenv("CUP_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rt.Defaults.MaxDepth = n
		}
	}
	if v := os.Getenv("CUP_WORKER_POOL_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rt.Defaults.WorkerPoolCap = n
		}
	}

	return rt, nil
}

func mergeNonZero(dst *Defaults, src Defaults) {
	if src.MaxDepth != 0 {
		dst.MaxDepth = src.MaxDepth
	}
	if src.MaxOutputChars != 0 {
		dst.MaxOutputChars = src.MaxOutputChars
	}
	if src.SearchLimit != 0 {
		dst.SearchLimit = src.SearchLimit
	}
	if src.SearchThreshold != 0 {
		dst.SearchThreshold = src.SearchThreshold
	}
	if src.WorkerPoolCap != 0 {
		dst.WorkerPoolCap = src.WorkerPoolCap
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvIntDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
