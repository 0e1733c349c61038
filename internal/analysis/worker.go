package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
	"github.com/couchcryptid/disaster-alert-service/internal/observability"
)

// ErrQueueFull is returned by Enqueue when the job buffer is at capacity.
var ErrQueueFull = errors.New("analysis queue is full")

// ErrQueueStopped is delivered to waiters whose jobs were still buffered
// when the queue shut down.
var ErrQueueStopped = errors.New("analysis queue stopped before job ran")

// highSeverityThreshold triggers a warning log for urgent alerts.
const highSeverityThreshold = 80

// Publisher pushes created alerts to an external channel. Publishing is
// best-effort: a failure is logged and counted but never blocks alert
// creation.
type Publisher interface {
	PublishAlert(ctx context.Context, alert domain.Alert) error
}

// Outcome is the terminal state of one background analysis job.
type Outcome struct {
	ReportID string
	Alert    domain.Alert
	Err      error
}

type job struct {
	reportID string
	done     chan Outcome
}

// Queue runs report analyses on a bounded pool of background workers.
// Callers enqueue a report ID and get a completion channel back, so the
// request path returns immediately while persistence bookkeeping stays
// observable.
type Queue struct {
	analyzer  *Analyzer
	reports   domain.ReportStore
	alerts    domain.AlertStore
	publisher Publisher // nil disables publishing
	logger    *slog.Logger
	metrics   *observability.Metrics

	jobs    chan job
	workers int
	started atomic.Bool
	wg      sync.WaitGroup
}

// NewQueue creates a Queue with the given worker count and job buffer size.
func NewQueue(analyzer *Analyzer, reports domain.ReportStore, alerts domain.AlertStore, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, workers, bufferSize int) *Queue {
	return &Queue{
		analyzer:  analyzer,
		reports:   reports,
		alerts:    alerts,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		jobs:      make(chan job, bufferSize),
		workers:   workers,
	}
}

// Start launches the worker pool. Workers drain the queue until ctx is
// cancelled; Wait blocks until they exit.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
	q.metrics.WorkersRunning.Set(float64(q.workers))
	q.started.Store(true)
	q.logger.Info("analysis queue started", "workers", q.workers, "buffer", cap(q.jobs))
}

// Wait blocks until all workers have stopped.
func (q *Queue) Wait() {
	q.wg.Wait()
	q.metrics.WorkersRunning.Set(0)
}

// CheckReadiness returns nil once the worker pool is running.
func (q *Queue) CheckReadiness(_ context.Context) error {
	if !q.started.Load() {
		return errors.New("analysis workers have not started yet")
	}
	return nil
}

// Enqueue submits a report for background analysis. It never blocks: when
// the buffer is full it returns ErrQueueFull and the caller (or the sweep
// job) retries later. The returned channel receives exactly one Outcome.
func (q *Queue) Enqueue(reportID string) (<-chan Outcome, error) {
	j := job{reportID: reportID, done: make(chan Outcome, 1)}
	select {
	case q.jobs <- j:
		q.metrics.QueueDepth.Inc()
		return j.done, nil
	default:
		q.metrics.QueueRejected.Inc()
		return nil, ErrQueueFull
	}
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			q.drain()
			return
		case j := <-q.jobs:
			q.metrics.QueueDepth.Dec()
			outcome := q.process(ctx, j.reportID)
			if outcome.Err != nil {
				q.logger.Error("background analysis failed",
					"report_id", j.reportID,
					"error", outcome.Err,
				)
			}
			j.done <- outcome
		}
	}
}

// drain fails any jobs still buffered at shutdown so their waiters are
// not left blocked on the done channel. Safe to call from every worker:
// each buffered job is received by exactly one of them.
func (q *Queue) drain() {
	for {
		select {
		case j := <-q.jobs:
			q.metrics.QueueDepth.Dec()
			j.done <- Outcome{ReportID: j.reportID, Err: ErrQueueStopped}
		default:
			return
		}
	}
}

// process runs one job end to end: load, analyze, persist, publish.
func (q *Queue) process(ctx context.Context, reportID string) Outcome {
	report, err := q.reports.GetReport(ctx, reportID)
	if err != nil {
		return Outcome{ReportID: reportID, Err: fmt.Errorf("load report: %w", err)}
	}

	result := q.analyzer.Analyze(ctx, domain.AnalysisRequest{
		Text: report.Text,
		Lat:  report.Lat,
		Lon:  report.Lon,
	})

	alert, err := q.alerts.CreateAlert(ctx, domain.Alert{
		ReportID:      report.ID,
		DisasterType:  result.DisasterType,
		SeverityScore: result.SeverityScore,
		Summary:       result.Summary,
		LocationName:  result.LocationName,
		Lat:           report.Lat,
		Lon:           report.Lon,
		Evidence:      result.Evidence,
	})
	if err != nil {
		return Outcome{ReportID: reportID, Err: fmt.Errorf("create alert: %w", err)}
	}
	q.metrics.AlertsCreated.WithLabelValues(string(alert.DisasterType)).Inc()

	// Mark analyzed even when publishing fails below, so the sweep job
	// does not re-run a completed analysis forever.
	if err := q.reports.MarkAnalyzed(ctx, report.ID); err != nil {
		return Outcome{ReportID: reportID, Alert: alert, Err: fmt.Errorf("mark analyzed: %w", err)}
	}

	if alert.SeverityScore > highSeverityThreshold {
		q.logger.Warn("high-severity alert created",
			"alert_id", alert.ID,
			"disaster_type", alert.DisasterType,
			"severity", alert.SeverityScore,
			"location", alert.LocationName,
		)
	} else {
		q.logger.Info("alert created",
			"alert_id", alert.ID,
			"disaster_type", alert.DisasterType,
			"severity", alert.SeverityScore,
		)
	}

	if q.publisher != nil {
		if err := q.publisher.PublishAlert(ctx, alert); err != nil {
			q.logger.Error("alert publish failed", "alert_id", alert.ID, "error", err)
			q.metrics.PublishErrors.Inc()
		} else {
			q.metrics.AlertsPublished.Inc()
		}
	}

	return Outcome{ReportID: reportID, Alert: alert}
}
