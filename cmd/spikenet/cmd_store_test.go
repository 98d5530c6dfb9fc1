package main

import (
	"testing"
)

// Drives the real subcommands against a sqlite-backed project root,
// the way separate CLI invocations would.
func TestStoreThenRecognizeAcrossInvocations(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("SPIKENET_STORE_BACKEND", "sqlite")
	t.Setenv("SPIKENET_SEED", "1")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newStoreCmd())
	rootCmd.SetArgs([]string{"store", "--root", tmpDir, "--id", "p1", "--label", "A", "--data", "1,1,0,0"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	// Fresh command tree simulates a second process.
	rootCmd = newTestRootCmd()
	rootCmd.AddCommand(newListCmd())
	rootCmd.SetArgs([]string{"list", "--root", tmpDir})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	rootCmd = newTestRootCmd()
	rootCmd.AddCommand(newRecognizeCmd())
	rootCmd.SetArgs([]string{"recognize", "--root", tmpDir, "--data", "1,1,0,0"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("recognize failed: %v", err)
	}

	rootCmd = newTestRootCmd()
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.SetArgs([]string{"delete", "--root", tmpDir, "p1"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestStoreCmdRejectsBadData(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newStoreCmd())
	rootCmd.SetArgs([]string{"store", "--root", t.TempDir(), "--label", "A", "--data", "1,x"})
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("store accepted malformed data")
	}
}
