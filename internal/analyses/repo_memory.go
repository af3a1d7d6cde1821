package analyses

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores outcomes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu            sync.RWMutex
	nextID        int64
	byApplication map[int64]Outcome
	now           func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byApplication: make(map[int64]Outcome),
		now:           time.Now,
	}
}

// GetByApplicationID returns the outcome for an application.
func (r *MemoryRepo) GetByApplicationID(ctx context.Context, applicationID int64) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	outcome, ok := r.byApplication[applicationID]
	if !ok {
		return Outcome{}, ErrNotFound
	}
	return outcome, nil
}

// Save upserts by application id, keeping the first id and created time.
func (r *MemoryRepo) Save(ctx context.Context, outcome Outcome) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	now := r.now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byApplication[outcome.ApplicationID]; ok {
		existing.Result = outcome.Result
		existing.Summary = outcome.Summary
		existing.Score = outcome.Score
		existing.UpdatedAt = now
		r.byApplication[outcome.ApplicationID] = existing
		return existing, nil
	}
	r.nextID++
	outcome.ID = r.nextID
	outcome.CreatedAt = now
	outcome.UpdatedAt = now
	r.byApplication[outcome.ApplicationID] = outcome
	return outcome, nil
}

// ListByApplicationIDs returns stored outcomes keyed by application id.
func (r *MemoryRepo) ListByApplicationIDs(ctx context.Context, applicationIDs []int64) (map[int64]Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]Outcome, len(applicationIDs))
	for _, id := range applicationIDs {
		if outcome, ok := r.byApplication[id]; ok {
			out[id] = outcome
		}
	}
	return out, nil
}

// HasOutcome reports whether an outcome is stored for the application.
func (r *MemoryRepo) HasOutcome(ctx context.Context, applicationID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byApplication[applicationID]
	return ok, nil
}

// DeleteByApplicationID drops the outcome for an application, if any.
func (r *MemoryRepo) DeleteByApplicationID(ctx context.Context, applicationID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byApplication, applicationID)
	return nil
}

// Len returns the number of stored outcomes.
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byApplication)
}

var _ Repo = (*MemoryRepo)(nil)
