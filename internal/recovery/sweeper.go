package recovery

import (
	"context"
	"errors"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"

	"recruit-backend/internal/shared/metrics"
)

const (
	defaultInterval = 30 * time.Minute
	// jitter standard deviation as a fraction of the interval
	jitterDivisor = 10
)

// Lister finds applications that have no stored outcome.
type Lister interface {
	ListWithoutOutcome(ctx context.Context) ([]int64, error)
}

// Runner runs the pipeline for one application.
type Runner interface {
	Analyze(ctx context.Context, applicationID int64) error
}

// PostingCloser marks postings past their end date as done.
type PostingCloser interface {
	CloseExpiredPostings(ctx context.Context, today time.Time) (int64, error)
}

// Report summarises one sweep.
type Report struct {
	Pending        int
	Succeeded      int
	Failed         int
	PostingsClosed int64
}

// Sweeper re-runs analyses that never produced an outcome.
type Sweeper struct {
	Lister   Lister
	Runner   Runner
	Postings PostingCloser
	Logger   *zap.Logger
	Interval time.Duration

	now func() time.Time
}

func (s *Sweeper) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Sweeper) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// SweepOnce runs every pending application one after another. A failed item
// is logged and does not stop the sweep; only a failed listing is returned.
func (s *Sweeper) SweepOnce(ctx context.Context) (Report, error) {
	log := s.logger()
	var report Report

	if s.Postings != nil {
		closed, err := s.Postings.CloseExpiredPostings(ctx, s.clock())
		if err != nil {
			log.Warn("closing expired postings failed", zap.Error(err))
		} else {
			report.PostingsClosed = closed
			if closed > 0 {
				log.Info("closed expired postings", zap.Int64("count", closed))
			}
		}
	}

	ids, err := s.Lister.ListWithoutOutcome(ctx)
	if err != nil {
		return report, err
	}
	report.Pending = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.Runner.Analyze(ctx, id); err != nil {
			report.Failed++
			metrics.IncSweepItem("failed")
			log.Warn("recovery run failed", zap.Int64("application_id", id), zap.Error(err))
			continue
		}
		report.Succeeded++
		metrics.IncSweepItem("succeeded")
	}

	if report.Pending > 0 {
		log.Info("recovery sweep finished",
			zap.Int("pending", report.Pending),
			zap.Int("succeeded", report.Succeeded),
			zap.Int("failed", report.Failed),
		)
	}
	return report, nil
}

// Run sweeps on a jittered ticker until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := jitterbug.New(interval, &jitterbug.Norm{Stdev: interval / jitterDivisor, Mean: 0})
	defer ticker.Stop()

	log := s.logger()
	log.Info("recovery sweeper started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			log.Info("recovery sweeper stopped")
			return nil
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("recovery sweep failed", zap.Error(err))
			}
		}
	}
}
