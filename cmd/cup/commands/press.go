package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "press <combo>",
		Short: "Send a keyboard shortcut to the focused window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, stop, err := newSession()
			if err != nil {
				return err
			}
			defer stop()
			defer s.Close()

			ctx, cancel := withTimeout(ctx, 10*time.Second)
			defer cancel()

			result := s.Press(ctx, args[0])
			if !result.Success {
				return fmt.Errorf("%s", result.Error)
			}
			fmt.Println(result.Message)
			return nil
		},
	}
}
