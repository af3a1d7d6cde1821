package applications

import (
	"context"
	"sort"
	"sync"
	"time"
)

// OutcomeStore is the slice of the outcome repo the memory repo needs to
// filter pending applications and to cascade deletes.
type OutcomeStore interface {
	HasOutcome(ctx context.Context, applicationID int64) (bool, error)
	DeleteByApplicationID(ctx context.Context, applicationID int64) error
}

// MemoryRepo stores applications in memory and is safe for concurrent use.
type MemoryRepo struct {
	// Outcomes filters ListWithoutOutcome and receives delete cascades.
	// When nil every application is listed.
	Outcomes OutcomeStore

	mu       sync.RWMutex
	nextID   int64
	postings map[int64]Posting
	resumes  map[int64]Resume
	apps     map[int64]Application
	now      func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		postings: make(map[int64]Posting),
		resumes:  make(map[int64]Resume),
		apps:     make(map[int64]Application),
		now:      time.Now,
	}
}

func (r *MemoryRepo) allocID() int64 {
	r.nextID++
	return r.nextID
}

// AddPosting stores a posting, assigning an id when zero.
func (r *MemoryRepo) AddPosting(p Posting) Posting {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.allocID()
	}
	r.postings[p.ID] = p
	return p
}

// AddResume stores a resume, assigning an id when zero.
func (r *MemoryRepo) AddResume(res Resume) Resume {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.ID == 0 {
		res.ID = r.allocID()
	}
	r.resumes[res.ID] = res
	return res
}

// GetDetail resolves an application with its posting and resume.
func (r *MemoryRepo) GetDetail(ctx context.Context, applicationID int64) (Detail, error) {
	if err := ctx.Err(); err != nil {
		return Detail{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[applicationID]
	if !ok {
		return Detail{}, ErrNotFound
	}
	posting, ok := r.postings[app.PostingID]
	if !ok {
		return Detail{}, ErrNotFound
	}
	resume, ok := r.resumes[app.ResumeID]
	if !ok {
		return Detail{}, ErrNotFound
	}
	return Detail{Application: app, Posting: posting, Resume: resume}, nil
}

// GetPosting returns a posting by id.
func (r *MemoryRepo) GetPosting(ctx context.Context, postingID int64) (Posting, error) {
	if err := ctx.Err(); err != nil {
		return Posting{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.postings[postingID]
	if !ok {
		return Posting{}, ErrNotFound
	}
	return p, nil
}

// GetResume returns a resume by id.
func (r *MemoryRepo) GetResume(ctx context.Context, resumeID int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resumes[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// Create stores a new application and returns it with id and timestamps set.
func (r *MemoryRepo) Create(ctx context.Context, app Application) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.postings[app.PostingID]; !ok {
		return Application{}, ErrNotFound
	}
	if _, ok := r.resumes[app.ResumeID]; !ok {
		return Application{}, ErrNotFound
	}
	app.ID = r.allocID()
	if app.Status == "" {
		app.Status = StatusPending
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = r.now().UTC()
	}
	r.apps[app.ID] = app
	return app, nil
}

// UpdateStatus sets the recruiter decision on an application.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, applicationID int64, status Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[applicationID]
	if !ok {
		return ErrNotFound
	}
	app.Status = status
	r.apps[applicationID] = app
	return nil
}

// Delete removes an application and cascades to its outcome.
func (r *MemoryRepo) Delete(ctx context.Context, applicationID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	_, ok := r.apps[applicationID]
	delete(r.apps, applicationID)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if r.Outcomes != nil {
		return r.Outcomes.DeleteByApplicationID(ctx, applicationID)
	}
	return nil
}

// CountByStatus counts a posting's applications with the given status.
func (r *MemoryRepo) CountByStatus(ctx context.Context, postingID int64, status Status) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, app := range r.apps {
		if app.PostingID == postingID && app.Status == status {
			n++
		}
	}
	return n, nil
}

// SetPostingDone opens or closes a posting.
func (r *MemoryRepo) SetPostingDone(ctx context.Context, postingID int64, done bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.postings[postingID]
	if !ok {
		return ErrNotFound
	}
	p.Done = done
	r.postings[postingID] = p
	return nil
}

// ListByPosting returns a posting's applications, oldest first.
func (r *MemoryRepo) ListByPosting(ctx context.Context, postingID int64) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Application, 0)
	for _, app := range r.apps {
		if app.PostingID == postingID {
			out = append(out, app)
		}
	}
	r.mu.RUnlock()
	sortApplications(out)
	return out, nil
}

// ListWithoutOutcome returns ids of applications without a stored outcome.
func (r *MemoryRepo) ListWithoutOutcome(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	apps := make([]Application, 0, len(r.apps))
	for _, app := range r.apps {
		apps = append(apps, app)
	}
	r.mu.RUnlock()
	sortApplications(apps)

	ids := make([]int64, 0, len(apps))
	for _, app := range apps {
		if r.Outcomes != nil {
			has, err := r.Outcomes.HasOutcome(ctx, app.ID)
			if err != nil {
				return nil, err
			}
			if has {
				continue
			}
		}
		ids = append(ids, app.ID)
	}
	return ids, nil
}

// CloseExpiredPostings marks open postings ending on or before today as done.
func (r *MemoryRepo) CloseExpiredPostings(ctx context.Context, today time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cutoff := dateOnly(today)
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.postings {
		if p.Done || p.EndedAt == nil {
			continue
		}
		if dateOnly(*p.EndedAt).After(cutoff) {
			continue
		}
		p.Done = true
		r.postings[id] = p
		n++
	}
	return n, nil
}

func sortApplications(apps []Application) {
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].CreatedAt.Before(apps[j].CreatedAt)
	})
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ Repo = (*MemoryRepo)(nil)
