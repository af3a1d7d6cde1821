package applications

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Analyzer runs the scoring pipeline for one application.
type Analyzer interface {
	Analyze(ctx context.Context, applicationID int64) error
}

// Service coordinates application submission and recruiter decisions.
type Service struct {
	Repo     Repo
	Analyzer Analyzer
	Logger   *zap.Logger
}

// SubmitInput is what an applicant sends when applying.
type SubmitInput struct {
	PostingID int64  `validate:"gt=0"`
	ResumeID  int64  `validate:"gt=0"`
	UserID    string `validate:"required,max=64"`
	Reason    string `validate:"max=2000"`
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Submit stores the application and runs its analysis before returning.
// Analysis failures are logged and never fail the submission; the recovery
// sweep picks those applications up later.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Application, error) {
	if err := validate.Struct(in); err != nil {
		return Application{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	posting, err := s.Repo.GetPosting(ctx, in.PostingID)
	if err != nil {
		return Application{}, err
	}
	if posting.Done {
		return Application{}, ErrPostingClosed
	}
	resume, err := s.Repo.GetResume(ctx, in.ResumeID)
	if err != nil {
		return Application{}, err
	}
	if resume.UserID != in.UserID {
		return Application{}, ErrForbidden
	}

	app, err := s.Repo.Create(ctx, Application{
		PostingID: in.PostingID,
		ResumeID:  in.ResumeID,
		UserID:    in.UserID,
		Reason:    in.Reason,
		Status:    StatusPending,
	})
	if err != nil {
		return Application{}, fmt.Errorf("create application: %w", err)
	}

	log := s.logger().With(zap.Int64("application_id", app.ID))
	if s.Analyzer == nil {
		log.Warn("no analyzer configured; analysis deferred to recovery sweep")
		return app, nil
	}
	log.Info("analysis on submission started")
	if err := s.Analyzer.Analyze(ctx, app.ID); err != nil {
		log.Error("analysis on submission failed", zap.Error(err))
	}
	return app, nil
}

// Withdraw deletes an application on behalf of its applicant. Withdrawing a
// PASS reopens a closed posting that falls below its head count.
func (s *Service) Withdraw(ctx context.Context, applicationID int64, userID string) error {
	if err := validate.Var(userID, "required,max=64"); err != nil {
		return fmt.Errorf("%w: userId %v", ErrInvalidInput, err)
	}
	detail, err := s.Repo.GetDetail(ctx, applicationID)
	if err != nil {
		return err
	}
	if detail.Application.UserID != userID {
		return ErrNotOwner
	}
	if err := s.Repo.Delete(ctx, applicationID); err != nil {
		return err
	}
	s.logger().Info("application withdrawn", zap.Int64("application_id", applicationID))

	posting := detail.Posting
	if detail.Application.Status != StatusPass || !posting.Done {
		return nil
	}
	passed, err := s.Repo.CountByStatus(ctx, posting.ID, StatusPass)
	if err != nil {
		return err
	}
	if passed < posting.HeadCount {
		if err := s.Repo.SetPostingDone(ctx, posting.ID, false); err != nil {
			return fmt.Errorf("update posting state: %w", err)
		}
	}
	return nil
}

// Get returns the resolved application.
func (s *Service) Get(ctx context.Context, applicationID int64) (Detail, error) {
	return s.Repo.GetDetail(ctx, applicationID)
}

// SetSelection records a PASS or FAIL decision. A posting closes once its
// head count is filled and reopens when a PASS is withdrawn below it.
func (s *Service) SetSelection(ctx context.Context, applicationID int64, selected bool) (Application, error) {
	detail, err := s.Repo.GetDetail(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	previous := detail.Application.Status
	next := StatusFail
	if selected {
		next = StatusPass
	}
	if err := s.Repo.UpdateStatus(ctx, applicationID, next); err != nil {
		return Application{}, err
	}
	detail.Application.Status = next

	posting := detail.Posting
	passed, err := s.Repo.CountByStatus(ctx, posting.ID, StatusPass)
	if err != nil {
		return Application{}, err
	}
	switch {
	case previous != StatusPass && selected && !posting.Done && posting.HeadCount > 0 && passed >= posting.HeadCount:
		err = s.Repo.SetPostingDone(ctx, posting.ID, true)
	case previous == StatusPass && !selected && posting.Done && passed < posting.HeadCount:
		err = s.Repo.SetPostingDone(ctx, posting.ID, false)
	}
	if err != nil {
		return Application{}, fmt.Errorf("update posting state: %w", err)
	}
	return detail.Application, nil
}
