// Package types provides type definitions for structured data shared between
// the jobtrack server, data layer, and API client.
package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JobStatus is the lifecycle status of a job application. The set is a closed
// wire contract shared by the server and every client; adding a value requires
// a coordinated deploy.
type JobStatus string

const (
	StatusApplied      JobStatus = "APPLIED"
	StatusInterviewing JobStatus = "INTERVIEWING"
	StatusOffered      JobStatus = "OFFERED"
	StatusRejected     JobStatus = "REJECTED"
	StatusWithdrawn    JobStatus = "WITHDRAWN"
)

// JobStatuses lists every valid status in board-column order.
var JobStatuses = []JobStatus{
	StatusApplied,
	StatusInterviewing,
	StatusOffered,
	StatusRejected,
	StatusWithdrawn,
}

// Valid reports whether s is a member of the status enumeration.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusOffered, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// ParseJobStatus converts a wire string into a JobStatus.
func ParseJobStatus(s string) (JobStatus, error) {
	status := JobStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown job status: %q", s)
	}
	return status, nil
}

// JobType classifies the kind of position.
type JobType string

const (
	TypeInternship JobType = "INTERNSHIP"
	TypeFullTime   JobType = "FULL_TIME"
	TypePartTime   JobType = "PART_TIME"
	TypeFreelance  JobType = "FREELANCE"
)

// Valid reports whether t is a member of the job type enumeration.
func (t JobType) Valid() bool {
	switch t {
	case TypeInternship, TypeFullTime, TypePartTime, TypeFreelance:
		return true
	}
	return false
}

// Job represents a tracked job application.
type Job struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Company      string     `json:"company"`
	Position     string     `json:"position"`
	Status       JobStatus  `json:"status"`
	Type         JobType    `json:"type"`
	Color        string     `json:"color,omitempty"`
	Description  string     `json:"description,omitempty"`
	Salary       string     `json:"salary,omitempty"`
	Location     string     `json:"location,omitempty"`
	JobURL       string     `json:"job_url,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	AppliedAt    time.Time  `json:"applied_at"`
	ReminderAt   *time.Time `json:"reminder_at,omitempty"`
	ReminderSent bool       `json:"reminder_sent"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateJobRequest represents the request to track a new job application.
type CreateJobRequest struct {
	Company     string     `json:"company" validate:"required,min=1"`
	Position    string     `json:"position" validate:"required,min=1"`
	Status      string     `json:"status" validate:"required,oneof=APPLIED INTERVIEWING OFFERED REJECTED WITHDRAWN"`
	Type        string     `json:"type" validate:"required,oneof=INTERNSHIP FULL_TIME PART_TIME FREELANCE"`
	Color       string     `json:"color,omitempty"`
	Description string     `json:"description,omitempty"`
	Salary      string     `json:"salary,omitempty"`
	Location    string     `json:"location,omitempty"`
	JobURL      string     `json:"job_url,omitempty" validate:"omitempty,url"`
	Notes       string     `json:"notes,omitempty"`
	AppliedAt   *time.Time `json:"applied_at,omitempty"`
	ReminderAt  *time.Time `json:"reminder_at,omitempty"`
}

// UpdateJobRequest is the metadata-edit command for a job. Only the fields
// present in the request are applied; status changes go through the dedicated
// status endpoint instead.
type UpdateJobRequest struct {
	Company     *string    `json:"company,omitempty" validate:"omitempty,min=1"`
	Position    *string    `json:"position,omitempty" validate:"omitempty,min=1"`
	Type        *string    `json:"type,omitempty" validate:"omitempty,oneof=INTERNSHIP FULL_TIME PART_TIME FREELANCE"`
	Color       *string    `json:"color,omitempty"`
	Description *string    `json:"description,omitempty"`
	Salary      *string    `json:"salary,omitempty"`
	Location    *string    `json:"location,omitempty"`
	JobURL      *string    `json:"job_url,omitempty" validate:"omitempty,url"`
	Notes       *string    `json:"notes,omitempty"`
	AppliedAt   *time.Time `json:"applied_at,omitempty"`
	ReminderAt  *time.Time `json:"reminder_at,omitempty"`
}

// Empty reports whether the command carries no field changes.
func (r *UpdateJobRequest) Empty() bool {
	return r.Company == nil && r.Position == nil && r.Type == nil &&
		r.Color == nil && r.Description == nil && r.Salary == nil &&
		r.Location == nil && r.JobURL == nil && r.Notes == nil &&
		r.AppliedAt == nil && r.ReminderAt == nil
}

// UpdateJobStatusRequest is the status-change command for a job.
type UpdateJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=APPLIED INTERVIEWING OFFERED REJECTED WITHDRAWN"`
}

// UpdateJobStatusResponse is the canonical server response for a status change.
type UpdateJobStatusResponse struct {
	ID     uuid.UUID `json:"id"`
	Status JobStatus `json:"status"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateJobRequest using the validator.
func (r *UpdateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateJobStatusRequest using the validator.
func (r *UpdateJobStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
