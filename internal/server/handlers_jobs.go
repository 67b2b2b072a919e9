package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/jobtrack/internal/server/middleware"
	"github.com/jonathan/jobtrack/internal/types"
)

// JobStore is the data-layer surface the job handlers need. *db.DB satisfies
// this; tests provide an in-memory fake. Every mutation is scoped by owner:
// a nil job result means not found or not owned, and both map to 404 so the
// API does not leak which records exist.
type JobStore interface {
	CreateJob(ctx context.Context, userID uuid.UUID, req *types.CreateJobRequest) (*types.Job, error)
	ListJobs(ctx context.Context, userID uuid.UUID) ([]types.Job, error)
	GetJob(ctx context.Context, jobID, userID uuid.UUID) (*types.Job, error)
	UpdateJob(ctx context.Context, jobID, userID uuid.UUID, req *types.UpdateJobRequest) (*types.Job, error)
	UpdateJobStatus(ctx context.Context, jobID, userID uuid.UUID, status types.JobStatus) (*types.Job, error)
	DeleteJob(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
}

// requestScope pulls the authenticated user and the {id} path value out of a
// request. Returns false after writing the error response.
func requestScope(w http.ResponseWriter, r *http.Request) (userID, jobID uuid.UUID, ok bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	jobID, err = uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid job ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, jobID, true
}

// handleListJobs returns the caller's job applications, newest first.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobs, err := s.jobs.ListJobs(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing jobs: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	if jobs == nil {
		jobs = []types.Job{}
	}

	writeJSON(w, http.StatusOK, jobs)
}

// handleCreateJob records a new job application for the caller.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, err := s.jobs.CreateJob(r.Context(), userID, &req)
	if err != nil {
		log.Printf("Error creating job: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// handleGetJob returns one job application.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	userID, jobID, ok := requestScope(w, r)
	if !ok {
		return
	}

	job, err := s.jobs.GetJob(r.Context(), jobID, userID)
	if err != nil {
		log.Printf("Error getting job %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// handleUpdateJob applies a metadata edit to one job application. Status
// changes are rejected here; they go through the status endpoint.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	userID, jobID, ok := requestScope(w, r)
	if !ok {
		return
	}

	var req types.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Empty() {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, err := s.jobs.UpdateJob(r.Context(), jobID, userID, &req)
	if err != nil {
		log.Printf("Error updating job %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update job")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// handleUpdateJobStatus moves one job application to a new lifecycle status
// and returns the value the server settled on. Unknown statuses are rejected
// before any state is touched.
func (s *Server) handleUpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	userID, jobID, ok := requestScope(w, r)
	if !ok {
		return
	}

	var req types.UpdateJobStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, err := types.ParseJobStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := s.jobs.UpdateJobStatus(r.Context(), jobID, userID, status)
	if err != nil {
		log.Printf("Error updating status for job %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update job status")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, types.UpdateJobStatusResponse{
		ID:     job.ID,
		Status: job.Status,
	})
}

// handleDeleteJob removes one job application.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	userID, jobID, ok := requestScope(w, r)
	if !ok {
		return
	}

	deleted, err := s.jobs.DeleteJob(r.Context(), jobID, userID)
	if err != nil {
		log.Printf("Error deleting job %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete job")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
