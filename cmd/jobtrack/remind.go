package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one reminder sweep now",
	Long:  `Select every job with an unsent reminder due in the current UTC day and dispatch the follow-up emails, without waiting for the daily schedule.`,
	RunE:  runRemind,
}

func init() {
	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	sched, database, err := buildScheduler(databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	stats, err := sched.Sweep(context.Background(), time.Now())
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sweep done: %d selected, %d dispatched, %d failed, %d skipped\n",
		stats.Selected, stats.Dispatched, stats.Failed, stats.Skipped)
	return nil
}
