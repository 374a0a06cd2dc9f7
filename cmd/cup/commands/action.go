package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newActionCmd() *cobra.Command {
	var (
		value     string
		direction string
	)

	cmd := &cobra.Command{
		Use:   "action <element-id> <action>",
		Short: "Execute a CUP action on an element from the last snapshot",
		Long: `Execute a CUP action on an element from the last snapshot.

Element ids are ephemeral: they are only valid within the process that
captured them, so "cup action" alone (without a prior "cup snapshot" in
the same invocation) always reports a stale reference. Chain a snapshot
and an action with "cup batch" to act on a single-shot capture.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, stop, err := newSession()
			if err != nil {
				return err
			}
			defer stop()
			defer s.Close()

			ctx, cancel := withTimeout(ctx, 30*time.Second)
			defer cancel()

			params := map[string]any{}
			if value != "" {
				params["value"] = value
			}
			if direction != "" {
				params["direction"] = direction
			}

			result := s.Action(ctx, args[0], args[1], params)
			if !result.Success {
				return fmt.Errorf("%s", result.Error)
			}
			fmt.Println(result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "value for type/setvalue actions")
	cmd.Flags().StringVar(&direction, "direction", "", "direction for scroll actions (up, down, left, right)")
	return cmd
}
