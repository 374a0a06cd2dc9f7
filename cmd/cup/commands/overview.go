package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cup-project/cup/internal/cup"
	"github.com/cup-project/cup/internal/cupnode"
)

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "List all open windows, no tree walking (near-instant)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, stop, err := newSession()
			if err != nil {
				return err
			}
			defer stop()
			defer s.Close()

			ctx, cancel := withTimeout(ctx, 10*time.Second)
			defer cancel()

			text, err := s.SnapshotText(ctx, cup.SnapshotOptions{Scope: cupnode.ScopeOverview})
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
}
