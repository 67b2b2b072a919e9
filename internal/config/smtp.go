package config

import (
	"fmt"
	"os"
)

// SMTPConfig holds SMTP settings for the reminder notification dispatcher.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// NewSMTPConfig creates SMTP configuration from environment variables.
// It reads SMTP_HOST, SMTP_PORT (default: 587), SMTP_USERNAME, SMTP_PASSWORD,
// SMTP_FROM and SMTP_FROM_NAME. Host and From are required: the reminder
// scheduler refuses to start without a working dispatcher.
func NewSMTPConfig() (*SMTPConfig, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST is required but not set")
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		return nil, fmt.Errorf("SMTP_FROM is required but not set")
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587" // default submission port
	}

	fromName := os.Getenv("SMTP_FROM_NAME")
	if fromName == "" {
		fromName = "Jobtrack"
	}

	return &SMTPConfig{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     from,
		FromName: fromName,
	}, nil
}
