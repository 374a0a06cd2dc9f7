package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cup-project/cup/internal/cup"
)

func newBatchCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Execute a JSON array of actions, stopping on first failure",
		Long: `Execute a JSON array of action specs, stopping at the first failure.

Each spec is an object with either:
  {"element_id": "e14", "action": "click"}
  {"element_id": "e5", "action": "type", "value": "hello"}
  {"action": "press", "keys": "ctrl+s"}
  {"action": "wait", "ms": 500}

Reads from --file, or stdin when --file is omitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, stop, err := newSession()
			if err != nil {
				return err
			}
			defer stop()
			defer s.Close()

			ctx, cancel := withTimeout(ctx, 60*time.Second)
			defer cancel()

			steps, err := readBatchSteps(file)
			if err != nil {
				return err
			}

			results := s.Batch(ctx, steps)
			for i, r := range results {
				if r.Success {
					fmt.Printf("%d: ok: %s\n", i, r.Message)
				} else {
					fmt.Printf("%d: failed: %s\n", i, r.Error)
				}
			}
			if len(results) > 0 && !results[len(results)-1].Success {
				return fmt.Errorf("batch stopped at step %d", len(results)-1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to a JSON file of action specs (default: stdin)")
	return cmd
}

func readBatchSteps(file string) ([]cup.BatchStep, error) {
	var (
		data []byte
		err  error
	)
	if file != "" {
		data, err = os.ReadFile(file)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("reading batch specs: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing batch specs: %w", err)
	}

	steps := make([]cup.BatchStep, 0, len(raw))
	for _, spec := range raw {
		step := cup.BatchStep{Params: map[string]any{}}
		if v, ok := spec["action"].(string); ok {
			step.Action = v
		}
		if v, ok := spec["element_id"].(string); ok {
			step.ElementID = v
		}
		if v, ok := spec["keys"].(string); ok {
			step.Keys = v
		}
		if v, ok := spec["ms"].(float64); ok {
			step.WaitMS = int(v)
		}
		for k, v := range spec {
			switch k {
			case "action", "element_id", "keys", "ms":
			default:
				step.Params[k] = v
			}
		}
		steps = append(steps, step)
	}
	return steps, nil
}
