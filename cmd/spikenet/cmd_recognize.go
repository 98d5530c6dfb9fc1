package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spikenet-io/spikenet/internal/recognition"
)

func newRecognizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recognize",
		Short: "Classify a numeric payload against the stored patterns",
		Long: `Classify a numeric payload against the stored patterns.

Reports the best match when its similarity clears the threshold. The
confidence printed is always the raw best similarity, matched or not.

Examples:
  spikenet recognize --data 1,1,0,0
  spikenet recognize --data 1,1,0,0 --threshold 0.8 --evolve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataStr, _ := cmd.Flags().GetString("data")
			threshold, _ := cmd.Flags().GetFloat64("threshold")
			noLearn, _ := cmd.Flags().GetBool("no-learn")
			evolve, _ := cmd.Flags().GetBool("evolve")
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

			opts := recognition.DefaultOptions()
			if threshold > 0 {
				opts.Threshold = threshold
			}
			opts.EnableLearning = !noLearn
			opts.EnableEvolution = evolve

			res, err := svc.Recognize(cmd.Context(), data, &opts)
			if err != nil {
				return err
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(res)
				return nil
			}

			if res.Matched {
				fmt.Printf("Matched %s (%s), confidence %.3f\n", res.PatternID, res.Label, res.Confidence)
			} else {
				fmt.Printf("No match (best similarity %.3f)\n", res.Confidence)
			}
			fmt.Printf("  energy: %.2f, %s, took %s\n", res.Energy, res.NetworkState, res.ProcessingTime)
			for _, c := range res.Comparisons {
				fmt.Printf("  %-20s %-12s %.3f\n", c.PatternID, c.Label, c.Similarity)
			}
			return nil
		},
	}

	cmd.Flags().String("data", "", "Comma-separated numeric payload")
	cmd.Flags().Float64("threshold", 0, "Minimum similarity for a match (default 0.6)")
	cmd.Flags().Bool("no-learn", false, "Skip access bookkeeping on match")
	cmd.Flags().Bool("evolve", false, "Let the matched pattern mutate toward network output")
	cmd.MarkFlagRequired("data")

	return cmd
}
