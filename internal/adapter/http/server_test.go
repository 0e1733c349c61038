package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/disaster-alert-service/internal/analysis"
	httpadapter "github.com/couchcryptid/disaster-alert-service/internal/adapter/http"
	"github.com/couchcryptid/disaster-alert-service/internal/domain"
	"github.com/couchcryptid/disaster-alert-service/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockQueue struct {
	readyErr   error
	enqueueErr error
	enqueued   []string
	outcome    analysis.Outcome
}

func (m *mockQueue) Enqueue(reportID string) (<-chan analysis.Outcome, error) {
	if m.enqueueErr != nil {
		return nil, m.enqueueErr
	}
	m.enqueued = append(m.enqueued, reportID)
	done := make(chan analysis.Outcome, 1)
	outcome := m.outcome
	outcome.ReportID = reportID
	done <- outcome
	return done, nil
}

func (m *mockQueue) CheckReadiness(_ context.Context) error { return m.readyErr }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(queue *mockQueue) (*httpadapter.Server, *store.Memory) {
	mem := store.NewMemory(clockwork.NewFakeClock())
	return httpadapter.NewServer(":0", mem, mem, queue, testLogger()), mem
}

func doJSON(t *testing.T, srv *httpadapter.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(&mockQueue{})

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReflectsQueueState(t *testing.T) {
	srv, _ := newTestServer(&mockQueue{})
	rec := doJSON(t, srv, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	srv, _ = newTestServer(&mockQueue{readyErr: errors.New("workers not started")})
	rec = doJSON(t, srv, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateReportReturns202AndEnqueues(t *testing.T) {
	queue := &mockQueue{}
	srv, mem := newTestServer(queue)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/reports", map[string]any{
		"text":   "Flooding on the main road",
		"lat":    12.97,
		"lon":    77.59,
		"source": "mobile_app",
	})

	require.Equal(t, http.StatusAccepted, rec.Code)

	var body struct {
		Report domain.Report `json:"report"`
		Queued bool          `json:"queued"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Queued)
	assert.NotEmpty(t, body.Report.ID)
	assert.Equal(t, []string{body.Report.ID}, queue.enqueued)

	stored, err := mem.GetReport(context.Background(), body.Report.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flooding on the main road", stored.Text)
}

func TestCreateReportValidation(t *testing.T) {
	srv, _ := newTestServer(&mockQueue{})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing text", map[string]any{"lat": 1.0, "lon": 2.0}},
		{"missing coordinates", map[string]any{"text": "help"}},
		{"latitude out of range", map[string]any{"text": "help", "lat": 91.0, "lon": 0.0}},
		{"longitude out of range", map[string]any{"text": "help", "lat": 0.0, "lon": -181.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/v1/reports", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateReportStillStoredWhenQueueFull(t *testing.T) {
	queue := &mockQueue{enqueueErr: analysis.ErrQueueFull}
	srv, mem := newTestServer(queue)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/reports", map[string]any{
		"text": "storm surge warning",
		"lat":  19.08,
		"lon":  72.88,
	})

	require.Equal(t, http.StatusAccepted, rec.Code)

	var body struct {
		Queued bool `json:"queued"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Queued)

	reports, err := mem.ListReports(context.Background())
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestGetReportNotFound(t *testing.T) {
	srv, _ := newTestServer(&mockQueue{})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/reports/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeReportReturnsAlert(t *testing.T) {
	queue := &mockQueue{outcome: analysis.Outcome{Alert: domain.Alert{
		ID:            "alert-1",
		DisasterType:  domain.DisasterFlood,
		SeverityScore: 75,
	}}}
	srv, mem := newTestServer(queue)

	report, err := mem.CreateReport(context.Background(), "river overflowing", 12.97, 77.59, "")
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/reports/"+report.ID+"/analyze", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var alert domain.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alert))
	assert.Equal(t, "alert-1", alert.ID)
	assert.Equal(t, domain.DisasterFlood, alert.DisasterType)
}

func TestAnalyzeReportQueueFullReturns503(t *testing.T) {
	queue := &mockQueue{enqueueErr: analysis.ErrQueueFull}
	srv, mem := newTestServer(queue)

	report, err := mem.CreateReport(context.Background(), "tremors felt", 34.05, -118.24, "")
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/reports/"+report.ID+"/analyze", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListAlertsWithFilters(t *testing.T) {
	srv, mem := newTestServer(&mockQueue{})
	ctx := context.Background()

	for _, a := range []domain.Alert{
		{DisasterType: domain.DisasterFlood, SeverityScore: 85},
		{DisasterType: domain.DisasterFire, SeverityScore: 60},
	} {
		_, err := mem.CreateAlert(ctx, a)
		require.NoError(t, err)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/alerts?type=flood&min_severity=70", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Alerts []domain.Alert `json:"alerts"`
		Count  int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, domain.DisasterFlood, body.Alerts[0].DisasterType)
}

func TestListAlertsRejectsBadFilters(t *testing.T) {
	srv, _ := newTestServer(&mockQueue{})

	for _, path := range []string{
		"/api/v1/alerts?type=volcano",
		"/api/v1/alerts?min_severity=abc",
		"/api/v1/alerts?min_severity=101",
		"/api/v1/alerts?limit=0",
	} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestGetAlertNotFound(t *testing.T) {
	srv, _ := newTestServer(&mockQueue{})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/alerts/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpointServes(t *testing.T) {
	srv, _ := newTestServer(&mockQueue{})

	rec := doJSON(t, srv, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}
