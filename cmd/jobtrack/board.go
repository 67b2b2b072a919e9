package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobtrack/internal/apiclient"
	"github.com/jonathan/jobtrack/internal/board"
	"github.com/jonathan/jobtrack/internal/observability"
	"github.com/jonathan/jobtrack/internal/types"
)

var (
	boardServer string
	boardToken  string
	boardMoves  []string
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the application board",
	Long: `Fetch your job applications and render them as a status board.

With --move, status changes are applied optimistically before the server
confirms them; a rejected change is rolled back and reported.`,
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().StringVar(&boardServer, "server", "http://localhost:8080", "API server base URL")
	boardCmd.Flags().StringVar(&boardToken, "token", "", "Bearer token (defaults to JOBTRACK_TOKEN)")
	boardCmd.Flags().StringArrayVar(&boardMoves, "move", nil, "Move a job: <job-id>=<STATUS> (repeatable)")
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	token := boardToken
	if token == "" {
		token = os.Getenv("JOBTRACK_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("no token: pass --token or set JOBTRACK_TOKEN")
	}

	client := apiclient.New(boardServer)
	client.SetToken(token)

	ctx := context.Background()
	jobs, err := client.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch jobs: %w", err)
	}

	store := board.NewStore()
	store.ReplaceAll(jobs)
	coordinator := board.NewCoordinator(store, client)

	for _, move := range boardMoves {
		id, status, err := parseMove(move)
		if err != nil {
			return err
		}
		if err := coordinator.RequestStatusChange(ctx, id, status); err != nil {
			// A failed move is already rolled back; report it and render
			// the board as it stands.
			fmt.Fprintf(cmd.ErrOrStderr(), "Move rejected: %v\n", err)
		}
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintBoard(store.Jobs())
	return nil
}

// parseMove splits one --move argument of the form <job-id>=<STATUS>.
func parseMove(arg string) (uuid.UUID, types.JobStatus, error) {
	idStr, statusStr, ok := strings.Cut(arg, "=")
	if !ok {
		return uuid.Nil, "", fmt.Errorf("invalid --move %q (want <job-id>=<STATUS>)", arg)
	}

	id, err := uuid.Parse(strings.TrimSpace(idStr))
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid job id in --move %q: %w", arg, err)
	}

	status, err := types.ParseJobStatus(strings.ToUpper(strings.TrimSpace(statusStr)))
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid status in --move %q: %w", arg, err)
	}

	return id, status, nil
}
