package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/jobtrack/internal/types"
)

// StatusUpdater issues the server-side status change and returns the
// canonical status from the server's response.
type StatusUpdater interface {
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status types.JobStatus) (types.JobStatus, error)
}

// mutationState tracks an in-flight optimistic mutation through its
// two-phase protocol.
type mutationState int

const (
	mutationPending mutationState = iota + 1
	mutationConfirmed
	mutationReverted
)

// mutation remembers the status a record had immediately before an optimistic
// write, so a failed request can be rolled back. At most one mutation exists
// per record id at a time; the entry lives only until the request's outcome
// is processed.
type mutation struct {
	prior types.JobStatus
	state mutationState
}

// Coordinator orchestrates optimistic status changes: tentative-apply to the
// Store, then confirm-or-revert once the server responds. Mutations are
// serialized per record id, so the remembered prior value is always a
// server-known status, never another request's optimistic value.
type Coordinator struct {
	store   *Store
	updater StatusUpdater

	mu      sync.Mutex
	pending map[uuid.UUID]*mutation
	locks   map[uuid.UUID]*recordLock
}

// recordLock serializes mutations for a single record id. refs counts
// waiters so the entry can be dropped once idle.
type recordLock struct {
	mu   sync.Mutex
	refs int
}

// NewCoordinator creates a coordinator mutating store through updater.
func NewCoordinator(store *Store, updater StatusUpdater) *Coordinator {
	return &Coordinator{
		store:   store,
		updater: updater,
		pending: make(map[uuid.UUID]*mutation),
		locks:   make(map[uuid.UUID]*recordLock),
	}
}

// RequestStatusChange moves the record to newStatus optimistically and issues
// exactly one update request to the server. The optimistic value is visible
// to Store readers for the whole round trip. On success the canonical server
// status is re-asserted; on failure the prior status is restored and the
// error returned. Requesting the status a record already has is an idempotent
// no-op: no network call, no pending entry.
//
// Overlapping calls for the same id queue behind each other; each observes
// the confirmed or reverted result of the previous one.
func (c *Coordinator) RequestStatusChange(ctx context.Context, id uuid.UUID, newStatus types.JobStatus) error {
	if !newStatus.Valid() {
		return fmt.Errorf("invalid status %q", newStatus)
	}

	unlock := c.lockRecord(id)
	defer unlock()

	prior, ok := c.store.Status(id)
	if !ok {
		return fmt.Errorf("unknown job %s", id)
	}
	if prior == newStatus {
		return nil
	}

	c.beginMutation(id, prior)
	c.store.SetStatus(id, newStatus)

	canonical, err := c.updater.UpdateJobStatus(ctx, id, newStatus)
	if err != nil {
		c.revert(id)
		return fmt.Errorf("status change for %s failed: %w", id, err)
	}

	c.confirm(id, canonical)
	return nil
}

// Pending returns the remembered prior status for an in-flight mutation on
// id, if one exists.
func (c *Coordinator) Pending(id uuid.UUID) (types.JobStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.pending[id]
	if !ok || m.state != mutationPending {
		return "", false
	}
	return m.prior, true
}

// PendingCount returns the number of in-flight mutations.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Coordinator) beginMutation(id uuid.UUID, prior types.JobStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[id] = &mutation{prior: prior, state: mutationPending}
}

// confirm completes the mutation: the pending entry is dropped and the
// server's canonical status re-asserted (it should already match the
// optimistic value).
func (c *Coordinator) confirm(id uuid.UUID, canonical types.JobStatus) {
	c.mu.Lock()
	m, ok := c.pending[id]
	if ok {
		m.state = mutationConfirmed
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if canonical.Valid() {
		c.store.SetStatus(id, canonical)
	}
}

// revert rolls the record back to the remembered prior status and drops the
// pending entry.
func (c *Coordinator) revert(id uuid.UUID) {
	c.mu.Lock()
	m, ok := c.pending[id]
	if ok {
		m.state = mutationReverted
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if ok {
		c.store.SetStatus(id, m.prior)
	}
}

// lockRecord acquires the per-id mutation lock, creating it on demand and
// dropping it once no caller holds or awaits it.
func (c *Coordinator) lockRecord(id uuid.UUID) (unlock func()) {
	c.mu.Lock()
	l, ok := c.locks[id]
	if !ok {
		l = &recordLock{}
		c.locks[id] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, id)
		}
		c.mu.Unlock()
	}
}
