package analyses

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// GetByApplicationID returns the outcome for an application.
func (r *PGRepo) GetByApplicationID(ctx context.Context, applicationID int64) (Outcome, error) {
	const query = `
SELECT id, application_id, result, summary, score, created_at, updated_at
FROM analyses
WHERE application_id = $1`

	var o Outcome
	err := r.DB.QueryRowContext(ctx, query, applicationID).Scan(
		&o.ID,
		&o.ApplicationID,
		&o.Result,
		&o.Summary,
		&o.Score,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Outcome{}, ErrNotFound
		}
		return Outcome{}, err
	}
	return o, nil
}

// Save upserts on the application_id unique constraint. Concurrent runs for the
// same application leave a single row holding whichever write landed last.
func (r *PGRepo) Save(ctx context.Context, outcome Outcome) (Outcome, error) {
	const query = `
INSERT INTO analyses (application_id, result, summary, score)
VALUES ($1, $2, $3, $4)
ON CONFLICT (application_id) DO UPDATE
SET result = EXCLUDED.result,
    summary = EXCLUDED.summary,
    score = EXCLUDED.score,
    updated_at = now()
RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(ctx, query,
		outcome.ApplicationID,
		outcome.Result,
		outcome.Summary,
		outcome.Score,
	).Scan(&outcome.ID, &outcome.CreatedAt, &outcome.UpdatedAt)
	if err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// ListByApplicationIDs returns stored outcomes keyed by application id.
func (r *PGRepo) ListByApplicationIDs(ctx context.Context, applicationIDs []int64) (map[int64]Outcome, error) {
	out := make(map[int64]Outcome, len(applicationIDs))
	if len(applicationIDs) == 0 {
		return out, nil
	}

	const query = `
SELECT id, application_id, result, summary, score, created_at, updated_at
FROM analyses
WHERE application_id = ANY($1)`

	rows, err := r.DB.QueryContext(ctx, query, applicationIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.ID, &o.ApplicationID, &o.Result, &o.Summary, &o.Score, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out[o.ApplicationID] = o
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
