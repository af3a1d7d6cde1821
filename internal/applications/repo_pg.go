package applications

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// GetDetail loads an application joined with its posting and resume, plus both skill lists.
func (r *PGRepo) GetDetail(ctx context.Context, applicationID int64) (Detail, error) {
	const query = `
SELECT a.id, a.posting_id, a.resume_id, a.user_id, a.reason, a.status, a.created_at,
       p.title, p.content, p.requirement_personality, p.head_count, p.ended_at, p.is_done,
       r.user_id, r.title, r.content, r.personality
FROM applications a
JOIN postings p ON p.id = a.posting_id
JOIN resumes r ON r.id = a.resume_id
WHERE a.id = $1`

	var d Detail
	var endedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, applicationID).Scan(
		&d.Application.ID,
		&d.Application.PostingID,
		&d.Application.ResumeID,
		&d.Application.UserID,
		&d.Application.Reason,
		&d.Application.Status,
		&d.Application.CreatedAt,
		&d.Posting.Title,
		&d.Posting.Content,
		&d.Posting.RequirementPersonality,
		&d.Posting.HeadCount,
		&endedAt,
		&d.Posting.Done,
		&d.Resume.UserID,
		&d.Resume.Title,
		&d.Resume.Content,
		&d.Resume.Personality,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	d.Posting.ID = d.Application.PostingID
	d.Resume.ID = d.Application.ResumeID
	if endedAt.Valid {
		d.Posting.EndedAt = &endedAt.Time
	}

	if d.Posting.SkillNames, err = r.postingSkills(ctx, d.Posting.ID); err != nil {
		return Detail{}, err
	}
	if d.Resume.SkillNames, err = r.resumeSkills(ctx, d.Resume.ID); err != nil {
		return Detail{}, err
	}
	return d, nil
}

// GetPosting returns a posting with its required skills.
func (r *PGRepo) GetPosting(ctx context.Context, postingID int64) (Posting, error) {
	const query = `
SELECT id, title, content, requirement_personality, head_count, ended_at, is_done
FROM postings
WHERE id = $1`

	var p Posting
	var endedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, postingID).Scan(
		&p.ID, &p.Title, &p.Content, &p.RequirementPersonality, &p.HeadCount, &endedAt, &p.Done,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Posting{}, ErrNotFound
		}
		return Posting{}, err
	}
	if endedAt.Valid {
		p.EndedAt = &endedAt.Time
	}
	if p.SkillNames, err = r.postingSkills(ctx, p.ID); err != nil {
		return Posting{}, err
	}
	return p, nil
}

// GetResume returns a resume with its skills.
func (r *PGRepo) GetResume(ctx context.Context, resumeID int64) (Resume, error) {
	const query = `
SELECT id, user_id, title, content, personality
FROM resumes
WHERE id = $1`

	var res Resume
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&res.ID, &res.UserID, &res.Title, &res.Content, &res.Personality,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if res.SkillNames, err = r.resumeSkills(ctx, res.ID); err != nil {
		return Resume{}, err
	}
	return res, nil
}

// Create inserts an application and returns it with the generated id.
func (r *PGRepo) Create(ctx context.Context, app Application) (Application, error) {
	const query = `
INSERT INTO applications (posting_id, resume_id, user_id, reason, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	if app.Status == "" {
		app.Status = StatusPending
	}
	err := r.DB.QueryRowContext(ctx, query,
		app.PostingID,
		app.ResumeID,
		app.UserID,
		app.Reason,
		app.Status,
	).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		return Application{}, err
	}
	return app, nil
}

// UpdateStatus sets the recruiter decision on an application.
func (r *PGRepo) UpdateStatus(ctx context.Context, applicationID int64, status Status) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE applications SET status = $1 WHERE id = $2`, status, applicationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an application; the analyses FK cascades.
func (r *PGRepo) Delete(ctx context.Context, applicationID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, applicationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus counts a posting's applications with the given status.
func (r *PGRepo) CountByStatus(ctx context.Context, postingID int64, status Status) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE posting_id = $1 AND status = $2`,
		postingID, status,
	).Scan(&n)
	return n, err
}

// SetPostingDone opens or closes a posting.
func (r *PGRepo) SetPostingDone(ctx context.Context, postingID int64, done bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE postings SET is_done = $1 WHERE id = $2`, done, postingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByPosting returns a posting's applications, oldest first.
func (r *PGRepo) ListByPosting(ctx context.Context, postingID int64) ([]Application, error) {
	const query = `
SELECT id, posting_id, resume_id, user_id, reason, status, created_at
FROM applications
WHERE posting_id = $1
ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, postingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.PostingID, &a.ResumeID, &a.UserID, &a.Reason, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListWithoutOutcome returns ids of applications with no analyses row.
func (r *PGRepo) ListWithoutOutcome(ctx context.Context) ([]int64, error) {
	const query = `
SELECT a.id
FROM applications a
LEFT JOIN analyses an ON an.application_id = a.id
WHERE an.id IS NULL
ORDER BY a.created_at ASC, a.id ASC`

	return r.queryIDs(ctx, query)
}

// CloseExpiredPostings marks open postings ending on or before today as done.
func (r *PGRepo) CloseExpiredPostings(ctx context.Context, today time.Time) (int64, error) {
	const query = `
UPDATE postings
SET is_done = TRUE
WHERE is_done = FALSE AND ended_at IS NOT NULL AND ended_at <= $1::date`

	res, err := r.DB.ExecContext(ctx, query, today.Format("2006-01-02"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PGRepo) postingSkills(ctx context.Context, postingID int64) ([]string, error) {
	const query = `
SELECT s.name
FROM posting_skills ps
JOIN skills s ON s.id = ps.skill_id
WHERE ps.posting_id = $1
ORDER BY s.name`

	return r.queryNames(ctx, query, postingID)
}

func (r *PGRepo) resumeSkills(ctx context.Context, resumeID int64) ([]string, error) {
	const query = `
SELECT s.name
FROM resume_skills rs
JOIN skills s ON s.id = rs.skill_id
WHERE rs.resume_id = $1
ORDER BY s.name`

	return r.queryNames(ctx, query, resumeID)
}

func (r *PGRepo) queryNames(ctx context.Context, query string, id int64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *PGRepo) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
