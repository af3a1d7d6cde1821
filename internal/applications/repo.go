package applications

import (
	"context"
	"time"
)

// Repo defines persistence operations for applications and the postings
// and resumes they reference.
type Repo interface {
	GetDetail(ctx context.Context, applicationID int64) (Detail, error)
	GetPosting(ctx context.Context, postingID int64) (Posting, error)
	GetResume(ctx context.Context, resumeID int64) (Resume, error)
	Create(ctx context.Context, app Application) (Application, error)
	UpdateStatus(ctx context.Context, applicationID int64, status Status) error
	// Delete removes an application. Its analysis outcome goes with it.
	Delete(ctx context.Context, applicationID int64) error
	CountByStatus(ctx context.Context, postingID int64, status Status) (int, error)
	SetPostingDone(ctx context.Context, postingID int64, done bool) error
	ListByPosting(ctx context.Context, postingID int64) ([]Application, error)
	// ListWithoutOutcome returns ids of applications that have no stored analysis, oldest first.
	ListWithoutOutcome(ctx context.Context) ([]int64, error)
	// CloseExpiredPostings marks open postings whose end date is on or before today as done.
	CloseExpiredPostings(ctx context.Context, today time.Time) (int64, error)
}
