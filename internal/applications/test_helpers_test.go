package applications

import (
	"context"
	"sync"
	"time"

	"recruit-backend/internal/shared/telemetry"
)

type seeded struct {
	repo    *MemoryRepo
	posting Posting
	resume  Resume
}

func seedRepo() seeded {
	repo := NewMemoryRepo()
	ended := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	posting := repo.AddPosting(Posting{
		Title:                  "Go study",
		Content:                "Weekly Go study group",
		RequirementPersonality: "Curious",
		HeadCount:              1,
		EndedAt:                &ended,
		SkillNames:             []string{"Go"},
	})
	resume := repo.AddResume(Resume{
		UserID:      "user-1",
		Title:       "Backend engineer",
		Content:     "I write Go services.",
		Personality: "Calm",
		SkillNames:  []string{"Go", "SQL"},
	})
	return seeded{repo: repo, posting: posting, resume: resume}
}

type recordingAnalyzer struct {
	mu         sync.Mutex
	calls      []int64
	requestIDs []string
	err        error
}

func (a *recordingAnalyzer) Analyze(ctx context.Context, applicationID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, applicationID)
	a.requestIDs = append(a.requestIDs, telemetry.RequestID(ctx))
	return a.err
}

type staticOutcomes map[int64]bool

func (s staticOutcomes) HasOutcome(ctx context.Context, applicationID int64) (bool, error) {
	return s[applicationID], nil
}

func (s staticOutcomes) DeleteByApplicationID(ctx context.Context, applicationID int64) error {
	delete(s, applicationID)
	return nil
}
