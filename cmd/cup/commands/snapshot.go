package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cup-project/cup/internal/cup"
	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/format"
)

func newSnapshotCmd() *cobra.Command {
	var (
		scope    string
		app      string
		maxDepth int
		detail   string
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture the accessibility tree as compact text",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, stop, err := newSession()
			if err != nil {
				return err
			}
			defer stop()
			defer s.Close()

			ctx, cancel := withTimeout(ctx, 30*time.Second)
			defer cancel()

			opts := cup.SnapshotOptions{
				Scope:    cupnode.Scope(scope),
				App:      app,
				MaxDepth: maxDepth,
				Detail:   format.Detail(detail),
			}

			if raw {
				env, _, err := s.Snapshot(ctx, opts)
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(env, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			text, err := s.SnapshotText(ctx, opts)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "foreground", "capture scope: overview, foreground, desktop, full")
	cmd.Flags().StringVar(&app, "app", "", "filter windows by title substring (scope=full only)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", cup.MaxDepthDefault, "maximum tree depth")
	cmd.Flags().StringVar(&detail, "detail", string(format.DetailCompact), "pruning detail: compact or full")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the structured envelope instead of compact text")
	return cmd
}
