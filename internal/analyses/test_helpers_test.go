package analyses

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"recruit-backend/internal/applications"
	"recruit-backend/internal/inference"
)

var testModels = Models{
	EvaluationA: "eval-a",
	EvaluationB: "eval-b",
	Summary:     "summary",
	Synthesis:   "synthesis",
}

type fakeReply struct {
	text  string
	err   error
	delay time.Duration
	panic bool
}

// fakeInference answers per model and records every prompt it receives.
type fakeInference struct {
	mu      sync.Mutex
	replies map[string]fakeReply
	prompts map[string][]string
}

func newFakeInference() *fakeInference {
	return &fakeInference{
		replies: map[string]fakeReply{
			testModels.EvaluationA: {text: "content fit score: 80\nrationale: evaluation A"},
			testModels.EvaluationB: {text: "content fit score: 90\nrationale: evaluation B"},
			testModels.Summary:     {text: "Builds Go services."},
			testModels.Synthesis:   {text: "- recommendation score: 87\n- rationale: strong fit"},
		},
		prompts: make(map[string][]string),
	}
}

func (f *fakeInference) set(model string, reply fakeReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[model] = reply
}

func (f *fakeInference) calls(model string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts[model]...)
}

func (f *fakeInference) Complete(ctx context.Context, model, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts[model] = append(f.prompts[model], prompt)
	reply, ok := f.replies[model]
	f.mu.Unlock()
	if !ok {
		return "", inference.ErrMissingCredential
	}
	if reply.panic {
		panic("fake inference exploded")
	}
	if reply.delay > 0 {
		select {
		case <-time.After(reply.delay):
		case <-ctx.Done():
			return "", &inference.UpstreamError{Model: model, Err: ctx.Err()}
		}
	}
	if reply.err != nil {
		return "", &inference.UpstreamError{Model: model, Err: reply.err}
	}
	return reply.text, nil
}

type fixture struct {
	svc     *Service
	repo    *MemoryRepo
	apps    *applications.MemoryRepo
	llm     *fakeInference
	appID   int64
	posting applications.Posting
}

func newFixture(resumeContent string) fixture {
	apps := applications.NewMemoryRepo()
	posting := apps.AddPosting(applications.Posting{
		Title:                  "Go study",
		Content:                "Weekly Go study group",
		RequirementPersonality: "Curious",
		HeadCount:              2,
		SkillNames:             []string{"Go", "PostgreSQL"},
	})
	resume := apps.AddResume(applications.Resume{
		UserID:      "user-1",
		Content:     resumeContent,
		Personality: "Calm",
		SkillNames:  []string{"Go"},
	})
	app, err := apps.Create(context.Background(), applications.Application{
		PostingID: posting.ID,
		ResumeID:  resume.ID,
		UserID:    "user-1",
		Reason:    "I want to grow",
	})
	if err != nil {
		panic(err)
	}

	repo := NewMemoryRepo()
	llm := newFakeInference()
	return fixture{
		svc: &Service{
			Repo:         repo,
			Applications: apps,
			Inference:    llm,
			Models:       testModels,
		},
		repo:    repo,
		apps:    apps,
		llm:     llm,
		appID:   app.ID,
		posting: posting,
	}
}

// failingRepo fails Save to exercise the internal error path.
type failingRepo struct {
	*MemoryRepo
}

func (failingRepo) Save(ctx context.Context, outcome Outcome) (Outcome, error) {
	return Outcome{}, errors.New("connection reset")
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func applicationsResume(userID string) applications.Resume {
	return applications.Resume{UserID: userID, Content: "another resume"}
}

func applicationsApp(postingID, resumeID int64, userID string) applications.Application {
	return applications.Application{PostingID: postingID, ResumeID: resumeID, UserID: userID}
}
