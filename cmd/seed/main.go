// Command seed submits generated disaster reports to a running service,
// for local development and demos.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"
)

type scenario struct {
	disasterType string
	templates    []string
	areas        []string
	magnitudes   []string
}

var scenarios = []scenario{
	{
		disasterType: "flood",
		templates: []string{
			"Heavy rainfall causing flooding in %s. Water levels rising rapidly.",
			"Flash floods reported in %s. Multiple roads submerged.",
			"River overflowing in %s. Evacuations underway.",
			"Urban flooding in %s. Drainage systems overwhelmed.",
		},
		areas: []string{"downtown", "residential areas", "commercial district", "suburbs"},
	},
	{
		disasterType: "earthquake",
		templates: []string{
			"Earthquake magnitude MAG felt in %s. Buildings shaking.",
			"Seismic activity reported in %s. Aftershocks expected.",
			"Tremor felt across %s. Structural damage reported.",
			"Earthquake alert for %s. Emergency services mobilized.",
		},
		areas:      []string{"downtown", "mountain region", "coastal region", "valley area"},
		magnitudes: []string{"4.5", "5.2", "6.1", "5.8", "4.9"},
	},
	{
		disasterType: "fire",
		templates: []string{
			"Wildfire spreading in %s. Fire department responding.",
			"Forest fire reported in %s. Evacuations ordered.",
			"Industrial fire in %s. Smoke visible for miles.",
			"Residential fire outbreak in %s. Multiple units responding.",
		},
		areas: []string{"forest area", "industrial zone", "residential district", "national park"},
	},
	{
		disasterType: "storm",
		templates: []string{
			"Severe storm hitting %s. High winds and heavy rain.",
			"Cyclone approaching %s. Emergency alerts issued.",
			"Thunderstorm with lightning in %s. Power outages reported.",
			"Hurricane conditions in %s. Coastal areas evacuated.",
		},
		areas: []string{"coastal region", "metropolitan area", "mountain region", "valley area"},
	},
}

type city struct {
	name string
	lat  float64
	lon  float64
}

var cities = []city{
	{"Mumbai, Maharashtra", 19.0760, 72.8777},
	{"Delhi, NCT", 28.6139, 77.2090},
	{"Bengaluru, Karnataka", 12.9716, 77.5946},
	{"Chennai, Tamil Nadu", 13.0827, 80.2707},
	{"Kolkata, West Bengal", 22.5726, 88.3639},
	{"Hyderabad, Telangana", 17.3850, 78.4867},
	{"Pune, Maharashtra", 18.5204, 73.8567},
	{"Ahmedabad, Gujarat", 23.0225, 72.5714},
	{"Jaipur, Rajasthan", 26.9124, 75.7873},
	{"Lucknow, Uttar Pradesh", 26.8467, 80.9462},
}

var sources = []string{"mobile_app", "web_portal", "twitter", "sms", "emergency_services"}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the running service")
	count := flag.Int("count", 20, "number of reports to submit")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	rng := rand.New(rand.NewSource(*seed))
	client := &http.Client{Timeout: 10 * time.Second}

	submitted := 0
	for i := 0; i < *count; i++ {
		if err := submitReport(client, *addr, buildReport(rng)); err != nil {
			logger.Error("failed to submit report", "error", err)
			continue
		}
		submitted++
	}

	logger.Info("seeding complete", "submitted", submitted, "requested", *count)
	if submitted == 0 {
		os.Exit(1)
	}
}

type reportPayload struct {
	Text   string  `json:"text"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Source string  `json:"source"`
}

func buildReport(rng *rand.Rand) reportPayload {
	sc := scenarios[rng.Intn(len(scenarios))]
	loc := cities[rng.Intn(len(cities))]

	text := fmt.Sprintf(sc.templates[rng.Intn(len(sc.templates))], sc.areas[rng.Intn(len(sc.areas))])
	if len(sc.magnitudes) > 0 {
		text = strings.Replace(text, "MAG", sc.magnitudes[rng.Intn(len(sc.magnitudes))], 1)
	}

	// Scatter coordinates around the city center so reports do not stack
	// on one point.
	return reportPayload{
		Text:   text,
		Lat:    loc.lat + (rng.Float64()-0.5)*0.1,
		Lon:    loc.lon + (rng.Float64()-0.5)*0.1,
		Source: sources[rng.Intn(len(sources))],
	}
}

func submitReport(client *http.Client, addr string, payload reportPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	resp, err := client.Post(addr+"/api/v1/reports", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
