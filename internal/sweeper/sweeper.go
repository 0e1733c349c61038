// Package sweeper periodically re-queues reports whose analysis never
// completed, typically because the queue was full at submission time or
// the process restarted with jobs in flight.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/disaster-alert-service/internal/analysis"
	"github.com/couchcryptid/disaster-alert-service/internal/domain"
)

// Enqueuer submits report IDs for background analysis.
type Enqueuer interface {
	Enqueue(reportID string) (<-chan analysis.Outcome, error)
}

// Sweeper scans for unanalyzed reports on a cron schedule.
type Sweeper struct {
	reports domain.ReportStore
	queue   Enqueuer
	logger  *slog.Logger
	cron    *cron.Cron
}

// New creates a Sweeper; call Start to begin the schedule.
func New(reports domain.ReportStore, queue Enqueuer, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		reports: reports,
		queue:   queue,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start registers the sweep on the given cron schedule (e.g. "@every 5m")
// and starts the scheduler.
func (s *Sweeper) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() { s.Sweep(ctx) })
	if err != nil {
		return fmt.Errorf("schedule sweep %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Info("sweep job scheduled", "schedule", schedule)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep enqueues every unanalyzed report. It stops early when the queue
// fills up; the remainder waits for the next run.
func (s *Sweeper) Sweep(ctx context.Context) {
	reports, err := s.reports.ListUnanalyzed(ctx)
	if err != nil {
		s.logger.Error("sweep failed to list reports", "error", err)
		return
	}
	if len(reports) == 0 {
		return
	}

	requeued := 0
	for _, report := range reports {
		if _, err := s.queue.Enqueue(report.ID); err != nil {
			if errors.Is(err, analysis.ErrQueueFull) {
				s.logger.Warn("sweep stopped, queue full",
					"requeued", requeued,
					"remaining", len(reports)-requeued,
				)
				return
			}
			s.logger.Error("sweep enqueue failed", "report_id", report.ID, "error", err)
			continue
		}
		requeued++
	}
	s.logger.Info("sweep requeued unanalyzed reports", "count", requeued)
}
