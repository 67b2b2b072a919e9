// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobtrack/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxJobsPerColumn caps how many applications one board column shows
	maxJobsPerColumn = 8
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBoard outputs the applications grouped into one column per status, in
// board-column order.
func (p *Printer) PrintBoard(jobs []types.Job) {
	byStatus := make(map[types.JobStatus][]types.Job)
	for _, job := range jobs {
		byStatus[job.Status] = append(byStatus[job.Status], job)
	}

	for _, status := range types.JobStatuses {
		column := byStatus[status]

		var sb strings.Builder
		if len(column) == 0 {
			sb.WriteString("(empty)")
		}

		count := min(len(column), maxJobsPerColumn)
		for i := 0; i < count; i++ {
			job := column[i]
			sb.WriteString(fmt.Sprintf("%s — %s", job.Company, job.Position))
			if job.ReminderAt != nil && !job.ReminderSent {
				sb.WriteString(fmt.Sprintf("  (follow up %s)", job.ReminderAt.Format("Jan 2")))
			}
			if i < count-1 {
				sb.WriteString("\n")
			}
		}
		if len(column) > maxJobsPerColumn {
			sb.WriteString(fmt.Sprintf("\n... and %d more", len(column)-maxJobsPerColumn))
		}

		p.printBox(fmt.Sprintf("%s (%d)", status, len(column)), sb.String())
	}
}

// PrintJob outputs a one-job summary card.
func (p *Printer) PrintJob(job *types.Job) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:   %s\n", job.Company))
	sb.WriteString(fmt.Sprintf("Position:  %s\n", job.Position))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", job.Status))
	sb.WriteString(fmt.Sprintf("Type:      %s\n", job.Type))
	sb.WriteString(fmt.Sprintf("Applied:   %s", job.AppliedAt.Format("2006-01-02")))
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("\nLocation:  %s", job.Location))
	}
	if job.Salary != "" {
		sb.WriteString(fmt.Sprintf("\nSalary:    %s", job.Salary))
	}
	if job.ReminderAt != nil {
		sb.WriteString(fmt.Sprintf("\nReminder:  %s", job.ReminderAt.Format("2006-01-02")))
		if job.ReminderSent {
			sb.WriteString(" (sent)")
		}
	}

	p.printBox(fmt.Sprintf("Job %s", shortID(job.ID.String())), sb.String())
}

// shortID returns the first segment of a UUID for compact display.
func shortID(id string) string {
	if i := strings.Index(id, "-"); i > 0 {
		return id[:i]
	}
	return id
}
