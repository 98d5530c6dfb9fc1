package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			svc, cleanup, err := openService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			patterns := svc.ListPatterns()

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"patterns": patterns,
					"count":    len(patterns),
				})
				return nil
			}

			if len(patterns) == 0 {
				fmt.Println("No patterns stored.")
				return nil
			}
			fmt.Printf("%-24s %-16s %6s %8s  %s\n", "ID", "LABEL", "BITS", "MATCHES", "LAST ACCESS")
			for _, p := range patterns {
				active := 0
				for _, b := range p.Bits {
					if b != 0 {
						active++
					}
				}
				fmt.Printf("%-24s %-16s %6d %8d  %s\n",
					p.ID, p.Label, active, p.RecognitionCount,
					p.LastAccessed.Format(time.RFC3339))
			}
			return nil
		},
	}
}
