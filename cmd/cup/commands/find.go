package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/search"
)

func newFindCmd() *cobra.Command {
	var (
		query string
		role  string
		name  string
		state string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Search the foreground tree for matching elements",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, stop, err := newSession()
			if err != nil {
				return err
			}
			defer stop()
			defer s.Close()

			ctx, cancel := withTimeout(ctx, 30*time.Second)
			defer cancel()

			q := search.Query{Text: query, Role: role, Name: name, Limit: limit}
			if state != "" {
				st := cupnode.State(state)
				q.State = &st
			}

			results, err := s.Find(ctx, q)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for _, r := range results {
				fmt.Printf("[%s] %s %q (score %.2f)\n", r.Node.ID, r.Node.Role, r.Node.Name, r.Score)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "freeform semantic query, e.g. \"play button\"")
	cmd.Flags().StringVar(&role, "role", "", "role filter (exact CUP role or synonym)")
	cmd.Flags().StringVar(&name, "name", "", "name filter (fuzzy token match)")
	cmd.Flags().StringVar(&state, "state", "", "state filter, e.g. focused, disabled")
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum results")
	return cmd
}
