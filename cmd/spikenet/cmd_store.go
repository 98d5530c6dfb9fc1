package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spikenet-io/spikenet/internal/recognition"
)

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store a labeled pattern",
		Long: `Store a labeled pattern in the recognition table.

Values above 0.5 become active bits; the vector is sized to the
classifier's input width.

Examples:
  spikenet store --label digits --data 1,1,0,0
  spikenet store --id p1 --label digits --data 0.9,0.2,1,0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			label, _ := cmd.Flags().GetString("label")
			dataStr, _ := cmd.Flags().GetString("data")
			jsonOut, _ := cmd.Flags().GetBool("json")

			data, err := parseData(dataStr)
			if err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}

			svc, cleanup, err := openService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.StorePattern(cmd.Context(), recognition.PatternInput{
				ID:    id,
				Label: label,
				Data:  data,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"pattern_id": p.ID,
					"label":      p.Label,
					"bits":       len(p.Bits),
				})
			} else {
				fmt.Printf("Stored pattern %s (%s), %d bits\n", p.ID, p.Label, len(p.Bits))
			}
			return nil
		},
	}

	cmd.Flags().String("id", "", "Pattern id (generated when empty)")
	cmd.Flags().String("label", "", "Pattern label")
	cmd.Flags().String("data", "", "Comma-separated numeric payload")
	cmd.MarkFlagRequired("label")
	cmd.MarkFlagRequired("data")

	return cmd
}
