// Package email provides the reminder notification dispatcher via SMTP.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"strings"

	"github.com/jonathan/jobtrack/internal/config"
	"github.com/jonathan/jobtrack/internal/types"
)

// Service sends notification emails over SMTP.
type Service struct {
	config *config.SMTPConfig
	server string
	auth   smtp.Auth

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewService creates a new email service from SMTP configuration.
func NewService(cfg *config.SMTPConfig) *Service {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &Service{
		config: cfg,
		server: cfg.Host + ":" + cfg.Port,
		auth:   auth,
		send:   smtp.SendMail,
	}
}

// SendHTMLEmail sends a multipart email with an HTML body.
func (s *Service) SendHTMLEmail(to []string, subject, htmlBody string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	const boundary = "boundary-jobtrack"

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
	fmt.Fprintf(&msg, "\r\n")

	// Plain text part (fallback)
	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "Please view this email in an HTML-capable email client.\r\n")
	fmt.Fprintf(&msg, "\r\n")

	// HTML part
	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "%s\r\n", htmlBody)
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return s.send(s.server, s.auth, s.config.From, to, msg.Bytes())
}

// ReminderData holds the fields rendered into the reminder email.
type ReminderData struct {
	Position     string
	Company      string
	Status       types.JobStatus
	JobURL       string
	Notes        string
	DashboardURL string
}

// SendReminder composes and sends one follow-up reminder for a job
// application. This implements the reminder sweep's dispatcher contract.
func (s *Service) SendReminder(to string, job *types.Job) error {
	dashboardURL := os.Getenv("CLIENT_URL")
	if dashboardURL == "" {
		dashboardURL = "http://localhost:3000"
	}

	data := ReminderData{
		Position:     job.Position,
		Company:      job.Company,
		Status:       job.Status,
		JobURL:       job.JobURL,
		Notes:        job.Notes,
		DashboardURL: dashboardURL + "/dashboard",
	}

	subject := fmt.Sprintf("Reminder: follow up on your application at %s", job.Company)
	html, err := renderTemplate(reminderEmailTemplate, data)
	if err != nil {
		return fmt.Errorf("render reminder template: %w", err)
	}

	return s.SendHTMLEmail([]string{to}, subject, html)
}

func renderTemplate(tmpl string, data interface{}) (string, error) {
	t := template.Must(template.New("email").Parse(tmpl))
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const reminderEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Job application reminder</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #667eea; padding: 30px; border-radius: 10px; text-align: center; margin-bottom: 30px; color: white; }
        .card { background: #f8f9fa; padding: 25px; border-radius: 8px; border-left: 4px solid #667eea; margin: 25px 0; }
        .status { background: #e3f2fd; padding: 4px 8px; border-radius: 4px; font-weight: bold; }
        .button { display: inline-block; padding: 15px 30px; background: #667eea; color: white; text-decoration: none; border-radius: 25px; font-weight: bold; }
        .footer { border-top: 1px solid #eee; padding-top: 20px; margin-top: 30px; text-align: center; color: #999; font-size: 14px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Job Application Reminder</h1>
    </div>

    <p>Hi there!</p>

    <p>This is a friendly reminder about a job application that might need a follow-up:</p>

    <div class="card">
        <h3>{{.Position}}</h3>
        <p><strong>Company:</strong> {{.Company}}</p>
        <p><strong>Current Status:</strong> <span class="status">{{.Status}}</span></p>
        {{if .JobURL}}<p><a href="{{.JobURL}}">View job posting</a></p>{{end}}
        {{if .Notes}}<p><strong>Notes:</strong> {{.Notes}}</p>{{end}}
    </div>

    <p>
        <a href="{{.DashboardURL}}" class="button">Open your board</a>
    </p>

    <div class="footer">
        <p>Best of luck with your job search!</p>
    </div>
</body>
</html>`
