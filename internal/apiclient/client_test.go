package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobtrack/internal/types"
)

func TestLoginInstallsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req types.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user@example.com", req.Email)

		_ = json.NewEncoder(w).Encode(types.LoginResponse{Token: "tok-123"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Login(context.Background(), &types.LoginRequest{
		Email:    "user@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.Token)
	assert.Equal(t, "tok-123", c.Token())
}

func TestListJobsSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]types.Job{
			{ID: uuid.New(), Company: "Initech", Status: types.StatusApplied},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")

	jobs, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Initech", jobs[0].Company)
}

func TestUpdateJobStatus(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "PATCH", r.Method)
		require.Equal(t, "/jobs/"+id.String()+"/status", r.URL.Path)

		var req types.UpdateJobStatusRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "INTERVIEWING", req.Status)

		_ = json.NewEncoder(w).Encode(types.UpdateJobStatusResponse{ID: id, Status: types.JobStatus(req.Status)})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")

	status, err := c.UpdateJobStatus(context.Background(), id, types.StatusInterviewing)
	require.NoError(t, err)
	assert.Equal(t, types.StatusInterviewing, status)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Job not found"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")

	_, err := c.UpdateJobStatus(context.Background(), uuid.New(), types.StatusOffered)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Job not found", apiErr.Message)
}

func TestAPIErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListJobs(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestDeleteJob(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "DELETE", r.Method)
		require.Equal(t, "/jobs/"+id.String(), r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")
	require.NoError(t, c.DeleteJob(context.Background(), id))
}
