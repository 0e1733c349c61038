package domain

import (
	"context"
	"time"
)

// DisasterType is the closed set of disaster classifications.
type DisasterType string

const (
	DisasterFlood      DisasterType = "flood"
	DisasterEarthquake DisasterType = "earthquake"
	DisasterFire       DisasterType = "fire"
	DisasterStorm      DisasterType = "storm"
	DisasterOther      DisasterType = "other"
)

// DisasterTypes lists every valid classification, in classifier
// candidate-label order.
var DisasterTypes = []DisasterType{
	DisasterFlood,
	DisasterEarthquake,
	DisasterFire,
	DisasterStorm,
	DisasterOther,
}

// Valid reports whether t is one of the enumerated disaster types.
func (t DisasterType) Valid() bool {
	switch t {
	case DisasterFlood, DisasterEarthquake, DisasterFire, DisasterStorm, DisasterOther:
		return true
	}
	return false
}

// Report is a raw disaster report as submitted.
type Report struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Source    string    `json:"source,omitempty"` // submission channel, e.g. "mobile_app"
	Analyzed  bool      `json:"analyzed"`
	CreatedAt time.Time `json:"created_at"`
}

// Alert is the analyzed, user-facing view of a report.
type Alert struct {
	ID            string       `json:"id"`
	ReportID      string       `json:"report_id"`
	DisasterType  DisasterType `json:"disaster_type"`
	SeverityScore int          `json:"severity_score"`
	Summary       string       `json:"summary"`
	LocationName  string       `json:"location_name"`
	Lat           float64      `json:"lat"`
	Lon           float64      `json:"lon"`
	Evidence      Evidence     `json:"evidence"`
	CreatedAt     time.Time    `json:"created_at"`
}

// AlertFilter narrows an alert listing. Zero values mean "no constraint".
type AlertFilter struct {
	Type        DisasterType
	MinSeverity int
	Limit       int
}

// ReportStore persists raw reports.
type ReportStore interface {
	CreateReport(ctx context.Context, text string, lat, lon float64, source string) (Report, error)
	GetReport(ctx context.Context, id string) (Report, error)
	ListReports(ctx context.Context) ([]Report, error)
	ListUnanalyzed(ctx context.Context) ([]Report, error)
	MarkAnalyzed(ctx context.Context, id string) error
}

// AlertStore persists analysis-derived alerts.
type AlertStore interface {
	CreateAlert(ctx context.Context, alert Alert) (Alert, error)
	GetAlert(ctx context.Context, id string) (Alert, error)
	ListAlerts(ctx context.Context, filter AlertFilter) ([]Alert, error)
}
