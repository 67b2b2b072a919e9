package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtrack/internal/config"
	"github.com/jonathan/jobtrack/internal/db"
	"github.com/jonathan/jobtrack/internal/email"
	"github.com/jonathan/jobtrack/internal/reminder"
	"github.com/jonathan/jobtrack/internal/server"
)

var (
	servePort        int
	serveMigrate     bool
	serveNoReminders bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the job tracking REST API, together with the daily reminder scheduler.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema on startup")
	serveCmd.Flags().BoolVar(&serveNoReminders, "no-reminders", false, "Do not start the daily reminder scheduler")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	srv, err := server.New(server.Config{
		Port:        servePort,
		DatabaseURL: databaseURL,
		Migrate:     serveMigrate,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// The reminder scheduler runs alongside the API when SMTP is configured.
	if !serveNoReminders && os.Getenv("SMTP_HOST") != "" {
		sched, database, err := buildScheduler(databaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go sched.Run(ctx)
	} else {
		log.Printf("Reminder scheduler disabled")
	}

	return srv.Start()
}

// buildScheduler assembles the reminder scheduler on its own database pool.
func buildScheduler(databaseURL string) (*reminder.Scheduler, *db.DB, error) {
	smtpConfig, err := config.NewSMTPConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create SMTP config: %w", err)
	}

	reminderConfig, err := config.NewReminderConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create reminder config: %w", err)
	}

	database, err := db.Connect(context.Background(), databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	dispatcher := email.NewService(smtpConfig)
	return reminder.NewScheduler(database, database, dispatcher, reminderConfig), database, nil
}
