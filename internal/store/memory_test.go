package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
	"github.com/couchcryptid/disaster-alert-service/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetReport(t *testing.T) {
	clock := clockwork.NewFakeClock()
	mem := store.NewMemory(clock)
	ctx := context.Background()

	created, err := mem.CreateReport(ctx, "flood waters rising", 12.97, 77.59, "mobile_app")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, clock.Now().UTC(), created.CreatedAt)
	assert.False(t, created.Analyzed)

	fetched, err := mem.GetReport(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestGetReportNotFound(t *testing.T) {
	mem := store.NewMemory(clockwork.NewFakeClock())

	_, err := mem.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestListReportsNewestFirst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	mem := store.NewMemory(clock)
	ctx := context.Background()

	first, err := mem.CreateReport(ctx, "first", 0, 0, "")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := mem.CreateReport(ctx, "second", 0, 0, "")
	require.NoError(t, err)

	reports, err := mem.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, first.ID, reports[1].ID)
}

func TestMarkAnalyzedAndListUnanalyzed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	mem := store.NewMemory(clock)
	ctx := context.Background()

	pending, err := mem.CreateReport(ctx, "pending", 0, 0, "")
	require.NoError(t, err)
	clock.Advance(time.Second)
	finished, err := mem.CreateReport(ctx, "finished", 0, 0, "")
	require.NoError(t, err)

	require.NoError(t, mem.MarkAnalyzed(ctx, finished.ID))

	remaining, err := mem.ListUnanalyzed(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, pending.ID, remaining[0].ID)

	assert.ErrorIs(t, mem.MarkAnalyzed(ctx, "missing"), domain.ErrReportNotFound)
}

func TestCreateAndGetAlert(t *testing.T) {
	clock := clockwork.NewFakeClock()
	mem := store.NewMemory(clock)
	ctx := context.Background()

	created, err := mem.CreateAlert(ctx, domain.Alert{
		ReportID:      "r-1",
		DisasterType:  domain.DisasterFlood,
		SeverityScore: 72,
		Summary:       "flooding downtown",
		LocationName:  "Bengaluru, Karnataka, India",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, clock.Now().UTC(), created.CreatedAt)

	fetched, err := mem.GetAlert(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	_, err = mem.GetAlert(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrAlertNotFound)
}

func TestListAlertsFiltering(t *testing.T) {
	clock := clockwork.NewFakeClock()
	mem := store.NewMemory(clock)
	ctx := context.Background()

	seed := []domain.Alert{
		{DisasterType: domain.DisasterFlood, SeverityScore: 80},
		{DisasterType: domain.DisasterFire, SeverityScore: 65},
		{DisasterType: domain.DisasterFlood, SeverityScore: 40},
		{DisasterType: domain.DisasterStorm, SeverityScore: 90},
	}
	for _, a := range seed {
		_, err := mem.CreateAlert(ctx, a)
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	all, err := mem.ListAlerts(ctx, domain.AlertFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	// Newest first.
	assert.Equal(t, domain.DisasterStorm, all[0].DisasterType)

	floods, err := mem.ListAlerts(ctx, domain.AlertFilter{Type: domain.DisasterFlood})
	require.NoError(t, err)
	assert.Len(t, floods, 2)

	severe, err := mem.ListAlerts(ctx, domain.AlertFilter{MinSeverity: 70})
	require.NoError(t, err)
	assert.Len(t, severe, 2)

	limited, err := mem.ListAlerts(ctx, domain.AlertFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, domain.DisasterStorm, limited[0].DisasterType)

	combined, err := mem.ListAlerts(ctx, domain.AlertFilter{Type: domain.DisasterFlood, MinSeverity: 70})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, 80, combined[0].SeverityScore)
}
