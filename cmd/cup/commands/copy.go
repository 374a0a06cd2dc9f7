package commands

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/cup-project/cup/internal/cup"
	"github.com/cup-project/cup/internal/cupnode"
)

func newCopyCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Capture a snapshot and copy its compact text to the clipboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, stop, err := newSession()
			if err != nil {
				return err
			}
			defer stop()
			defer s.Close()

			ctx, cancel := withTimeout(ctx, 30*time.Second)
			defer cancel()

			text, err := s.SnapshotText(ctx, cup.SnapshotOptions{Scope: cupnode.Scope(scope)})
			if err != nil {
				return err
			}
			if err := clipboard.WriteAll(text); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			fmt.Println("snapshot copied to clipboard")
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "foreground", "capture scope: overview, foreground, desktop, full")
	return cmd
}
