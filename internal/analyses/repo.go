package analyses

import "context"

// Repo defines persistence operations for analysis outcomes.
type Repo interface {
	GetByApplicationID(ctx context.Context, applicationID int64) (Outcome, error)
	// Save inserts or overwrites the outcome for outcome.ApplicationID and
	// returns the stored row.
	Save(ctx context.Context, outcome Outcome) (Outcome, error)
	ListByApplicationIDs(ctx context.Context, applicationIDs []int64) (map[int64]Outcome, error)
}
