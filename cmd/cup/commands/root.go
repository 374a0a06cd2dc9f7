// Package commands implements the cup CLI's subcommands, one cobra
// command constructor per file.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/cup-project/cup/internal/config"
	"github.com/cup-project/cup/internal/cup"
	"github.com/cup-project/cup/internal/cupnode"

	// Blank-imported so each platform adapter's init() registers itself
	// with the platform router (internal/platform/router.go Factory map)
	// without router.go ever importing a platform package directly.
	_ "github.com/cup-project/cup/internal/platform/webadapter"
)

type rootOptions struct {
	platform string
	tomlPath string
}

var opts rootOptions

// NewRootCmd builds the cup root command with every subcommand attached.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "cup",
		Short:   "CUP - Computer Use Protocol CLI",
		Version: version,
		Long: `cup captures a uniform accessibility tree across Windows, macOS,
Linux, and web pages, and lets an agent act on the elements it finds.

Examples:
  cup snapshot
  cup snapshot --scope full
  cup find --role button --name submit
  cup action e14 click
  cup press ctrl+s
  cup open-app "visual studio code"`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.platform, "platform", "", "force a platform (windows, macos, linux, web); default auto-detects")
	rootCmd.PersistentFlags().StringVar(&opts.tomlPath, "config", "cup.toml", "path to an optional cup.toml defaults file")

	rootCmd.AddCommand(
		newSnapshotCmd(),
		newOverviewCmd(),
		newFindCmd(),
		newActionCmd(),
		newPressCmd(),
		newOpenAppCmd(),
		newBatchCmd(),
		newCopyCmd(),
	)

	return rootCmd
}

func setupLogging() error {
	rt, err := config.Load(opts.tomlPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := zerolog.ParseLevel(rt.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	console := zerolog.ConsoleWriter{Out: os.Stderr}
	if rt.LogFile == "" {
		log.Logger = log.Output(console)
		return nil
	}

	// Long-running invocations (batch, find loops driven by an agent) fan
	// out to a rotating file sink alongside the console writer.
	rotator := &lumberjack.Logger{
		Filename:   rt.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	log.Logger = log.Output(zerolog.MultiLevelWriter(console, rotator))
	return nil
}

// newSession builds a Session for the configured (or auto-detected)
// platform, wired into a context cancelled on SIGINT/SIGTERM.
func newSession() (*cup.Session, context.Context, context.CancelFunc, error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	var name cupnode.Platform
	if opts.platform != "" {
		name = cupnode.Platform(opts.platform)
	}

	s, err := cup.New(ctx, name)
	if err != nil {
		stop()
		return nil, nil, nil, err
	}
	return s, ctx, stop, nil
}

// withTimeout bounds a single CLI command's blocking work so a wedged
// native call cannot hang the process forever.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}
