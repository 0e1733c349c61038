// Package nominatim implements domain.GeoResolver against the OpenStreetMap
// Nominatim reverse-geocoding API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim's usage policy requires an identifying User-Agent.
const userAgent = "disaster-alert-service/1.0"

// Client implements domain.GeoResolver using Nominatim.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Nominatim reverse-geocoding client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// ReverseGeocode converts coordinates to a human-readable place name.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeoResult, error) {
	params := url.Values{
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format":         {"json"},
		"addressdetails": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return domain.GeoResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeoResult{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeoResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var nomResp response
	if err := json.NewDecoder(resp.Body).Decode(&nomResp); err != nil {
		return domain.GeoResult{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.GeoResult{
		LocationName: buildLocationName(nomResp.Address),
		Address:      nomResp.Address,
		Source:       domain.SourceLive,
	}, nil
}

// buildLocationName concatenates the first present of city/town/village,
// then state, then country, joined by ", ". With no usable components it
// returns the UnknownLocation sentinel.
func buildLocationName(address map[string]string) string {
	var parts []string

	for _, key := range []string{"city", "town", "village"} {
		if v := address[key]; v != "" {
			parts = append(parts, v)
			break
		}
	}
	if v := address["state"]; v != "" {
		parts = append(parts, v)
	}
	if v := address["country"]; v != "" {
		parts = append(parts, v)
	}

	if len(parts) == 0 {
		return domain.UnknownLocation
	}
	return strings.Join(parts, ", ")
}

// Nominatim API response subset.

type response struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}
