package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Report pattern table, classifier, and cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			svc, cleanup, err := openService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			stats := svc.Stats()

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(stats)
				return nil
			}

			fmt.Printf("Patterns:    %d\n", stats.Patterns)
			fmt.Printf("Classifier:  %d inputs, %d outputs\n", stats.InputSize, stats.OutputSize)
			fmt.Printf("Cache:       %d entries, %d hits / %d misses (ratio %.2f)\n",
				stats.Cache.Size, stats.Cache.Hits, stats.Cache.Misses, stats.Cache.Ratio)
			for label, rec := range stats.Evolution {
				fmt.Printf("Evolution:   %-16s gen %d, fitness %.3f\n", label, rec.Generation, rec.Fitness)
			}
			return nil
		},
	}
}
