// Package openweather implements domain.WeatherLookup against the
// OpenWeatherMap current-weather API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client implements domain.WeatherLookup using OpenWeatherMap.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// CurrentWeather fetches current conditions for the given coordinates in
// metric units.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (domain.WeatherResult, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherResult{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherResult{}, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	var owResp response
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return domain.WeatherResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(owResp.Weather) == 0 {
		return domain.WeatherResult{}, fmt.Errorf("openweather response missing conditions")
	}

	return domain.WeatherResult{
		TemperatureC: owResp.Main.Temp,
		Conditions:   owResp.Weather[0].Description,
		HumidityPct:  owResp.Main.Humidity,
		WindSpeed:    owResp.Wind.Speed,
		Source:       domain.SourceLive,
	}, nil
}

// OpenWeatherMap API response subset.

type response struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}
