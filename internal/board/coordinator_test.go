package board

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobtrack/internal/types"
)

// fakeUpdater records calls and answers with a scripted result.
type fakeUpdater struct {
	mu    sync.Mutex
	calls []types.JobStatus
	fn    func(id uuid.UUID, status types.JobStatus) (types.JobStatus, error)
}

func (f *fakeUpdater) UpdateJobStatus(_ context.Context, id uuid.UUID, status types.JobStatus) (types.JobStatus, error) {
	f.mu.Lock()
	f.calls = append(f.calls, status)
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(id, status)
	}
	return status, nil
}

func (f *fakeUpdater) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestCoordinator(job types.Job, fn func(uuid.UUID, types.JobStatus) (types.JobStatus, error)) (*Coordinator, *Store, *fakeUpdater) {
	store := NewStore()
	store.Upsert(job)
	updater := &fakeUpdater{fn: fn}
	return NewCoordinator(store, updater), store, updater
}

func TestRequestStatusChange_Success(t *testing.T) {
	job := testJob("Initech", types.StatusApplied)
	c, store, updater := newTestCoordinator(job, nil)

	err := c.RequestStatusChange(context.Background(), job.ID, types.StatusInterviewing)
	require.NoError(t, err)

	status, _ := store.Status(job.ID)
	assert.Equal(t, types.StatusInterviewing, status)
	assert.Equal(t, 1, updater.callCount())

	_, pending := c.Pending(job.ID)
	assert.False(t, pending, "pending entry must be gone after reconciliation")
}

func TestRequestStatusChange_FailureRollsBack(t *testing.T) {
	job := testJob("Initech", types.StatusApplied)
	c, store, _ := newTestCoordinator(job, func(uuid.UUID, types.JobStatus) (types.JobStatus, error) {
		return "", errors.New("http 500")
	})

	err := c.RequestStatusChange(context.Background(), job.ID, types.StatusInterviewing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 500")

	status, _ := store.Status(job.ID)
	assert.Equal(t, types.StatusApplied, status, "failed change must snap back to the prior status")

	_, pending := c.Pending(job.ID)
	assert.False(t, pending)
	assert.Equal(t, 0, c.PendingCount())
}

func TestRequestStatusChange_NoOp(t *testing.T) {
	job := testJob("Initech", types.StatusApplied)
	c, store, updater := newTestCoordinator(job, nil)

	err := c.RequestStatusChange(context.Background(), job.ID, types.StatusApplied)
	require.NoError(t, err)

	// Idempotent: no network call, no pending entry, state untouched.
	assert.Equal(t, 0, updater.callCount())
	assert.Equal(t, 0, c.PendingCount())
	status, _ := store.Status(job.ID)
	assert.Equal(t, types.StatusApplied, status)
}

func TestRequestStatusChange_InvalidStatus(t *testing.T) {
	job := testJob("Initech", types.StatusApplied)
	c, store, updater := newTestCoordinator(job, nil)

	err := c.RequestStatusChange(context.Background(), job.ID, types.JobStatus("GHOSTED"))
	require.Error(t, err)

	// Rejected before any state mutation.
	assert.Equal(t, 0, updater.callCount())
	status, _ := store.Status(job.ID)
	assert.Equal(t, types.StatusApplied, status)
}

func TestRequestStatusChange_UnknownID(t *testing.T) {
	job := testJob("Initech", types.StatusApplied)
	c, _, updater := newTestCoordinator(job, nil)

	err := c.RequestStatusChange(context.Background(), uuid.New(), types.StatusOffered)
	require.Error(t, err)
	assert.Equal(t, 0, updater.callCount())
}

func TestRequestStatusChange_OptimisticValueVisibleDuringFlight(t *testing.T) {
	job := testJob("Initech", types.StatusApplied)

	inFlight := make(chan struct{})
	release := make(chan struct{})

	c, store, _ := newTestCoordinator(job, func(_ uuid.UUID, status types.JobStatus) (types.JobStatus, error) {
		close(inFlight)
		<-release
		return status, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- c.RequestStatusChange(context.Background(), job.ID, types.StatusInterviewing)
	}()

	<-inFlight
	// A reader between the optimistic write and reconciliation sees the
	// tentative value, and the pending entry holds the prior one.
	status, _ := store.Status(job.ID)
	assert.Equal(t, types.StatusInterviewing, status)
	prior, pending := c.Pending(job.ID)
	require.True(t, pending)
	assert.Equal(t, types.StatusApplied, prior)

	close(release)
	require.NoError(t, <-done)
}

func TestRequestStatusChange_SerializesPerRecord(t *testing.T) {
	job := testJob("Initech", types.StatusApplied)

	firstInFlight := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once

	c, store, updater := newTestCoordinator(job, func(_ uuid.UUID, status types.JobStatus) (types.JobStatus, error) {
		once.Do(func() {
			close(firstInFlight)
			<-releaseFirst
		})
		if status == types.StatusOffered {
			return "", errors.New("http 500")
		}
		return status, nil
	})

	first := make(chan error, 1)
	go func() {
		first <- c.RequestStatusChange(context.Background(), job.ID, types.StatusInterviewing)
	}()
	<-firstInFlight

	// Second request for the same id queues behind the first.
	second := make(chan error, 1)
	go func() {
		second <- c.RequestStatusChange(context.Background(), job.ID, types.StatusOffered)
	}()

	close(releaseFirst)
	require.NoError(t, <-first)
	require.Error(t, <-second)

	// The failed second request rolls back to the first request's confirmed
	// status, not the original one.
	status, _ := store.Status(job.ID)
	assert.Equal(t, types.StatusInterviewing, status)
	assert.Equal(t, 0, c.PendingCount())
	assert.Equal(t, 2, updater.callCount())
}

func TestScenario_J1(t *testing.T) {
	// record {status: APPLIED} -> INTERVIEWING with success, then the same
	// change with a simulated server error.
	job := testJob("Initech", types.StatusApplied)

	c, store, _ := newTestCoordinator(job, nil)
	require.NoError(t, c.RequestStatusChange(context.Background(), job.ID, types.StatusInterviewing))
	status, _ := store.Status(job.ID)
	assert.Equal(t, types.StatusInterviewing, status)
	assert.Equal(t, 0, c.PendingCount())

	failing, failingStore, _ := newTestCoordinator(testJob("Initech", types.StatusApplied), func(uuid.UUID, types.JobStatus) (types.JobStatus, error) {
		return "", errors.New("http 500")
	})
	target := failingStore.Jobs()[0].ID
	require.Error(t, failing.RequestStatusChange(context.Background(), target, types.StatusInterviewing))
	status, _ = failingStore.Status(target)
	assert.Equal(t, types.StatusApplied, status)
	assert.Equal(t, 0, failing.PendingCount())
}
