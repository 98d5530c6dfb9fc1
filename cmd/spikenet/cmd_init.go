package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spikenet-io/spikenet/internal/config"
	"github.com/spikenet-io/spikenet/internal/store"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize spikenet pattern storage in current directory",
		Long: `Initialize spikenet pattern storage.

Creates the .spikenet/ directory with a default config.yaml. Initialized
projects use the SQLite backend so patterns survive between invocations;
edit config.yaml to switch back to the in-memory backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")

			dir := filepath.Join(root, store.DataDirName)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}

			configPath := filepath.Join(dir, config.FileName)
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				cfg := config.Default()
				cfg.Store.Backend = "sqlite"
				if err := cfg.Save(root); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{
					"status": "initialized",
					"path":   dir,
				})
			} else {
				fmt.Printf("Initialized spikenet in %s\n", dir)
			}
			return nil
		},
	}
	return cmd
}
