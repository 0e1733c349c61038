package sweeper_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/disaster-alert-service/internal/analysis"
	"github.com/couchcryptid/disaster-alert-service/internal/store"
	"github.com/couchcryptid/disaster-alert-service/internal/sweeper"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQueue struct {
	enqueued []string
	failAt   int // 1-based call index that returns ErrQueueFull; 0 disables
	calls    int
}

func (q *recordingQueue) Enqueue(reportID string) (<-chan analysis.Outcome, error) {
	q.calls++
	if q.failAt > 0 && q.calls >= q.failAt {
		return nil, analysis.ErrQueueFull
	}
	q.enqueued = append(q.enqueued, reportID)
	done := make(chan analysis.Outcome, 1)
	return done, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweepRequeuesUnanalyzedReports(t *testing.T) {
	mem := store.NewMemory(clockwork.NewFakeClock())
	ctx := context.Background()

	pending, err := mem.CreateReport(ctx, "pending report", 0, 0, "")
	require.NoError(t, err)
	done, err := mem.CreateReport(ctx, "done report", 0, 0, "")
	require.NoError(t, err)
	require.NoError(t, mem.MarkAnalyzed(ctx, done.ID))

	queue := &recordingQueue{}
	sw := sweeper.New(mem, queue, testLogger())

	sw.Sweep(ctx)

	assert.Equal(t, []string{pending.ID}, queue.enqueued)
}

func TestSweepStopsWhenQueueFull(t *testing.T) {
	mem := store.NewMemory(clockwork.NewFakeClock())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := mem.CreateReport(ctx, "report", 0, 0, "")
		require.NoError(t, err)
	}

	queue := &recordingQueue{failAt: 2}
	sw := sweeper.New(mem, queue, testLogger())

	sw.Sweep(ctx)

	assert.Len(t, queue.enqueued, 1)
	assert.Equal(t, 2, queue.calls, "sweep should stop at the first full-queue error")
}

func TestSweepNoopWhenNothingPending(t *testing.T) {
	mem := store.NewMemory(clockwork.NewFakeClock())
	queue := &recordingQueue{}
	sw := sweeper.New(mem, queue, testLogger())

	sw.Sweep(context.Background())

	assert.Empty(t, queue.enqueued)
	assert.Zero(t, queue.calls)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	mem := store.NewMemory(clockwork.NewFakeClock())
	sw := sweeper.New(mem, &recordingQueue{}, testLogger())

	err := sw.Start(context.Background(), "not-a-schedule")

	assert.Error(t, err)
}
