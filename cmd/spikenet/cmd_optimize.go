package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newOptimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Remove stale patterns",
		Long: `Remove stale patterns from storage.

A pattern is stale when it has gone unused for more than 30 days AND was
matched fewer than 5 times. Frequently matched patterns survive
regardless of age.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			svc, cleanup, err := openService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			removed, err := svc.OptimizeStorage(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"removed": removed,
					"count":   len(removed),
				})
				return nil
			}
			if len(removed) == 0 {
				fmt.Println("No stale patterns.")
				return nil
			}
			fmt.Printf("Removed %d stale pattern(s):\n", len(removed))
			for _, id := range removed {
				fmt.Printf("  %s\n", id)
			}
			return nil
		},
	}
}
