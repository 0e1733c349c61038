package kafka

import (
	"encoding/json"
	"testing"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	alert := domain.Alert{
		ID:            "alert-1",
		ReportID:      "report-1",
		DisasterType:  domain.DisasterEarthquake,
		SeverityScore: 84,
		Summary:       "Severe earthquake near downtown.",
		LocationName:  "Los Angeles, California, United States",
	}

	msg, err := serializeToMessage(alert)
	require.NoError(t, err)

	assert.Equal(t, []byte("alert-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"disaster_type":"earthquake"`)
	assert.Contains(t, string(msg.Value), `"severity_score":84`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "disaster_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("earthquake"), msg.Headers[0].Value)
	assert.Equal(t, "severity", msg.Headers[1].Key)
	assert.Equal(t, []byte("84"), msg.Headers[1].Value)

	var roundtrip domain.Alert
	require.NoError(t, json.Unmarshal(msg.Value, &roundtrip))

	type alertSummary struct {
		ID           string
		ReportID     string
		DisasterType domain.DisasterType
		Severity     int
		Location     string
	}

	expected := alertSummary{ID: alert.ID, ReportID: alert.ReportID, DisasterType: alert.DisasterType, Severity: alert.SeverityScore, Location: alert.LocationName}
	actual := alertSummary{ID: roundtrip.ID, ReportID: roundtrip.ReportID, DisasterType: roundtrip.DisasterType, Severity: roundtrip.SeverityScore, Location: roundtrip.LocationName}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}
