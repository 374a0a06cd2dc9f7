package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newOpenAppCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open-app <name>",
		Short: "Open an application by fuzzy-matched name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, stop, err := newSession()
			if err != nil {
				return err
			}
			defer stop()
			defer s.Close()

			ctx, cancel := withTimeout(ctx, 20*time.Second)
			defer cancel()

			result := s.OpenApp(ctx, args[0])
			if !result.Success {
				return fmt.Errorf("%s", result.Error)
			}
			fmt.Println(result.Message)
			return nil
		},
	}
}
