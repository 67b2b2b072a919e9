// Package board holds the client-side state for the application board: an
// in-memory job store plus the coordinator that applies optimistic status
// changes and reconciles them against the server.
package board

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/jobtrack/internal/types"
)

// Store is the client state container: the authoritative in-memory list of
// job records, ordered newest first. All mutations originate from one logical
// thread of control; the mutex only protects concurrent readers (board
// rendering) against the coordinator's reconciliation writes.
type Store struct {
	mu    sync.RWMutex
	jobs  []types.Job
	index map[uuid.UUID]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: make(map[uuid.UUID]int)}
}

// Jobs returns a snapshot of all records, newest first. The returned slice is
// a copy and safe to iterate while the store mutates.
func (s *Store) Jobs() []types.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id uuid.UUID) (types.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return types.Job{}, false
	}
	return s.jobs[i], true
}

// Status returns the current status of the record with the given id.
func (s *Store) Status(id uuid.UUID) (types.JobStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return "", false
	}
	return s.jobs[i].Status, true
}

// Upsert replaces the record with job's id in place, or prepends it as the
// newest record when absent.
func (s *Store) Upsert(job types.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[job.ID]; ok {
		s.jobs[i] = job
		return
	}

	s.jobs = append([]types.Job{job}, s.jobs...)
	s.reindex()
}

// Remove deletes the record with the given id. Returns false when absent.
func (s *Store) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}

	s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
	s.reindex()
	return true
}

// SetStatus writes the status of the record with the given id. It is a pure
// in-memory write: it never blocks on I/O and returns false only when the id
// is unknown.
func (s *Store) SetStatus(id uuid.UUID, status types.JobStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.jobs[i].Status = status
	return true
}

// ReplaceAll swaps the full record list, preserving the given order.
func (s *Store) ReplaceAll(jobs []types.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = make([]types.Job, len(jobs))
	copy(s.jobs, jobs)
	s.reindex()
}

// reindex rebuilds the id index. Callers hold the write lock.
func (s *Store) reindex() {
	s.index = make(map[uuid.UUID]int, len(s.jobs))
	for i, j := range s.jobs {
		s.index[j.ID] = i
	}
}
