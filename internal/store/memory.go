// Package store provides the in-memory persistence collaborator for
// reports and alerts. It satisfies domain.ReportStore and
// domain.AlertStore; a database-backed implementation can replace it
// without touching the pipeline.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Memory is a mutex-guarded in-memory store.
type Memory struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	reports map[string]domain.Report
	alerts  map[string]domain.Alert
}

// NewMemory creates an empty store using the given clock for timestamps.
func NewMemory(clock clockwork.Clock) *Memory {
	return &Memory{
		clock:   clock,
		reports: make(map[string]domain.Report),
		alerts:  make(map[string]domain.Alert),
	}
}

func (m *Memory) CreateReport(_ context.Context, text string, lat, lon float64, source string) (domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := domain.Report{
		ID:        uuid.NewString(),
		Text:      text,
		Lat:       lat,
		Lon:       lon,
		Source:    source,
		CreatedAt: m.clock.Now().UTC(),
	}
	m.reports[report.ID] = report
	return report, nil
}

func (m *Memory) GetReport(_ context.Context, id string) (domain.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report, ok := m.reports[id]
	if !ok {
		return domain.Report{}, domain.ErrReportNotFound
	}
	return report, nil
}

func (m *Memory) ListReports(_ context.Context) ([]domain.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := make([]domain.Report, 0, len(m.reports))
	for _, r := range m.reports {
		reports = append(reports, r)
	}
	sortReportsNewestFirst(reports)
	return reports, nil
}

func (m *Memory) ListUnanalyzed(_ context.Context) ([]domain.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var reports []domain.Report
	for _, r := range m.reports {
		if !r.Analyzed {
			reports = append(reports, r)
		}
	}
	sortReportsNewestFirst(reports)
	return reports, nil
}

func (m *Memory) MarkAnalyzed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	report, ok := m.reports[id]
	if !ok {
		return domain.ErrReportNotFound
	}
	report.Analyzed = true
	m.reports[id] = report
	return nil
}

func (m *Memory) CreateAlert(_ context.Context, alert domain.Alert) (domain.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert.ID = uuid.NewString()
	alert.CreatedAt = m.clock.Now().UTC()
	m.alerts[alert.ID] = alert
	return alert, nil
}

func (m *Memory) GetAlert(_ context.Context, id string) (domain.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alert, ok := m.alerts[id]
	if !ok {
		return domain.Alert{}, domain.ErrAlertNotFound
	}
	return alert, nil
}

func (m *Memory) ListAlerts(_ context.Context, filter domain.AlertFilter) ([]domain.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alerts := make([]domain.Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		if filter.Type != "" && a.DisasterType != filter.Type {
			continue
		}
		if a.SeverityScore < filter.MinSeverity {
			continue
		}
		alerts = append(alerts, a)
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})

	if filter.Limit > 0 && len(alerts) > filter.Limit {
		alerts = alerts[:filter.Limit]
	}
	return alerts, nil
}

func sortReportsNewestFirst(reports []domain.Report) {
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}
