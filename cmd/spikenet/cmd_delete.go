package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <pattern-id>",
		Short: "Delete a stored pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			id := args[0]

			svc, cleanup, err := openService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			deleted, err := svc.DeletePattern(cmd.Context(), id)
			if err != nil {
				return err
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"pattern_id": id,
					"deleted":    deleted,
				})
				return nil
			}
			if deleted {
				fmt.Printf("Deleted pattern %s\n", id)
			} else {
				fmt.Printf("Pattern %s not found\n", id)
			}
			return nil
		},
	}
}
