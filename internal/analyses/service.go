package analyses

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recruit-backend/internal/analyses/prompt"
	"recruit-backend/internal/analyses/score"
	"recruit-backend/internal/applications"
	"recruit-backend/internal/inference"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/telemetry"
)

const (
	stageEvaluationA = "evaluation-a"
	stageEvaluationB = "evaluation-b"
	stageSummary     = "summary"
	stageSynthesis   = "synthesis"
)

// ApplicationReader is the read side of the applications store the pipeline needs.
type ApplicationReader interface {
	GetDetail(ctx context.Context, applicationID int64) (applications.Detail, error)
	GetPosting(ctx context.Context, postingID int64) (applications.Posting, error)
	ListByPosting(ctx context.Context, postingID int64) ([]applications.Application, error)
}

// Models names the model used for each pipeline stage.
type Models struct {
	EvaluationA string
	EvaluationB string
	Summary     string
	Synthesis   string
}

// Service runs the scoring pipeline and serves stored outcomes.
type Service struct {
	Repo         Repo
	Applications ApplicationReader
	Inference    inference.Client
	Models       Models
	Logger       *zap.Logger
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// RunAnalysis scores one application and stores the outcome, replacing any
// previous one. Failed inference calls degrade to placeholder text and do not
// fail the run. It returns ErrNotFound when the application, its posting or
// its resume is missing, and a *RunError for anything else that goes wrong.
func (s *Service) RunAnalysis(ctx context.Context, applicationID int64) (Outcome, error) {
	start := time.Now()
	log := s.logger().With(
		zap.Int64("application_id", applicationID),
		zap.String("request_id", telemetry.RequestID(ctx)),
	)
	metrics.IncAnalysisStarted()
	log.Info("analysis started")

	outcome, err := s.run(ctx, applicationID, log)
	elapsed := time.Since(start)
	metrics.ObserveAnalysisDuration(elapsed)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncAnalysisFailed("not_found")
			log.Warn("analysis target not found", zap.Error(err))
			return Outcome{}, err
		}
		metrics.IncAnalysisFailed("internal")
		log.Error("analysis failed", zap.Error(err), zap.Duration("duration", elapsed))
		return Outcome{}, err
	}
	metrics.IncAnalysisCompleted()
	log.Info("analysis completed",
		zap.Int64("outcome_id", outcome.ID),
		zap.Int("score", outcome.Score),
		zap.Duration("duration", elapsed),
	)
	return outcome, nil
}

// Analyze runs the pipeline and drops the outcome.
func (s *Service) Analyze(ctx context.Context, applicationID int64) error {
	_, err := s.RunAnalysis(ctx, applicationID)
	return err
}

// RunAnalysisAsync starts a run on its own goroutine and returns immediately.
// The run is detached from ctx cancellation but keeps its request id.
func (s *Service) RunAnalysisAsync(ctx context.Context, applicationID int64) {
	go func(ctx context.Context) {
		_, _ = s.RunAnalysis(ctx, applicationID)
	}(context.WithoutCancel(ctx))
}

func (s *Service) run(ctx context.Context, applicationID int64, log *zap.Logger) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = Outcome{}, &RunError{ApplicationID: applicationID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	detail, err := s.Applications.GetDetail(ctx, applicationID)
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			return Outcome{}, fmt.Errorf("application %d: %w", applicationID, ErrNotFound)
		}
		return Outcome{}, &RunError{ApplicationID: applicationID, Err: fmt.Errorf("load application: %w", err)}
	}

	existing, err := s.Repo.GetByApplicationID(ctx, applicationID)
	switch {
	case err == nil:
		log.Info("overwriting previous outcome", zap.Int64("outcome_id", existing.ID))
	case errors.Is(err, ErrNotFound):
		log.Debug("no previous outcome")
	default:
		return Outcome{}, &RunError{ApplicationID: applicationID, Err: fmt.Errorf("load previous outcome: %w", err)}
	}

	rc := requestContext(detail)
	evalA, evalB, summary, err := s.firstStage(ctx, rc)
	if err != nil {
		return Outcome{}, &RunError{ApplicationID: applicationID, Err: err}
	}

	textA := degrade(stageEvaluationA, evalA, log)
	textB := degrade(stageEvaluationB, evalB, log)
	summaryText := degrade(stageSummary, summary, log)

	synthesis := s.call(ctx, s.Models.Synthesis, prompt.Synthesis(textA, textB))
	result := degrade(stageSynthesis, synthesis, log)

	saved, err := s.Repo.Save(ctx, Outcome{
		ApplicationID: applicationID,
		Result:        result,
		Summary:       summaryText,
		Score:         score.Extract(result, log),
	})
	if err != nil {
		return Outcome{}, &RunError{ApplicationID: applicationID, Err: fmt.Errorf("save outcome: %w", err)}
	}
	return saved, nil
}

// firstStage runs both evaluations and the summary concurrently and waits for
// all three. The calls never see each other's results.
func (s *Service) firstStage(ctx context.Context, rc prompt.RequestContext) (evalA, evalB, summary callResult, err error) {
	evaluation := prompt.Evaluation(rc)

	var g errgroup.Group
	g.Go(guard(stageEvaluationA, func() {
		evalA = s.call(ctx, s.Models.EvaluationA, evaluation)
	}))
	g.Go(guard(stageEvaluationB, func() {
		evalB = s.call(ctx, s.Models.EvaluationB, evaluation)
	}))
	g.Go(guard(stageSummary, func() {
		summaryPrompt, ok := prompt.Summary(rc.ResumeContent)
		if !ok {
			summary = callResult{Text: prompt.NoResumeContent}
			return
		}
		summary = s.call(ctx, s.Models.Summary, summaryPrompt)
	}))

	if err := g.Wait(); err != nil {
		return callResult{}, callResult{}, callResult{}, err
	}
	return evalA, evalB, summary, nil
}

func (s *Service) call(ctx context.Context, model, p string) callResult {
	text, err := s.Inference.Complete(ctx, model, p)
	return callResult{Text: text, Err: err}
}

// guard turns a panic in a stage goroutine into an error for the errgroup.
func guard(stage string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", stage, r)
			}
		}()
		fn()
		return nil
	}
}

// degrade returns the call's text, or a placeholder naming the stage and
// cause when the call failed, so the run can continue.
func degrade(stage string, res callResult, log *zap.Logger) string {
	if res.Err == nil {
		return res.Text
	}
	metrics.IncDegradedStage(stage)
	log.Warn("inference call degraded", zap.String("stage", stage), zap.Error(res.Err))
	return fmt.Sprintf("[%s unavailable: %s]", stage, failureCause(res.Err))
}

func failureCause(err error) string {
	var upstream *inference.UpstreamError
	if errors.As(err, &upstream) && upstream.Err != nil {
		return upstream.Err.Error()
	}
	return err.Error()
}

func requestContext(d applications.Detail) prompt.RequestContext {
	return prompt.RequestContext{
		PostingContent:     d.Posting.Content,
		PostingPersonality: d.Posting.RequirementPersonality,
		PostingSkills:      d.Posting.SkillNames,
		ResumeContent:      d.Resume.Content,
		ApplicationReason:  d.Application.Reason,
		ResumePersonality:  d.Resume.Personality,
		ResumeSkills:       d.Resume.SkillNames,
	}
}

// Get returns the stored outcome for an application.
func (s *Service) Get(ctx context.Context, applicationID int64) (Outcome, error) {
	return s.Repo.GetByApplicationID(ctx, applicationID)
}

// Rank lists a posting's applications by score, highest first. Applications
// without an outcome come last, oldest first.
func (s *Service) Rank(ctx context.Context, postingID int64) ([]RankedApplication, error) {
	if _, err := s.Applications.GetPosting(ctx, postingID); err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	apps, err := s.Applications.ListByPosting(ctx, postingID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.ID)
	}
	outcomes, err := s.Repo.ListByApplicationIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedApplication, 0, len(apps))
	for _, app := range apps {
		r := RankedApplication{
			ApplicationID: app.ID,
			ResumeID:      app.ResumeID,
			UserID:        app.UserID,
			Status:        string(app.Status),
			CreatedAt:     app.CreatedAt,
		}
		if o, ok := outcomes[app.ID]; ok {
			v := o.Score
			r.Score = &v
			r.Summary = o.Summary
		}
		ranked = append(ranked, r)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Score, ranked[j].Score
		switch {
		case a != nil && b != nil:
			return *a > *b
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
		}
	})
	return ranked, nil
}
