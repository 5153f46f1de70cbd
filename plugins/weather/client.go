// Package weather looks up current conditions from Open-Meteo.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/va6996/deskagent/log"
	"github.com/va6996/deskagent/orm"
	"github.com/va6996/deskagent/plugins"
	"gorm.io/gorm"
)

const (
	DefaultBaseURL          = "https://api.open-meteo.com/v1"
	DefaultGeocodingBaseURL = "https://geocoding-api.open-meteo.com/v1"

	cacheNamespace = "open-meteo"
)

// ErrLocationNotFound is returned when geocoding yields no result.
var ErrLocationNotFound = errors.New("location not found")

// Client handles Open-Meteo API requests
type Client struct {
	BaseURL          string
	GeocodingBaseURL string
	HTTPClient       *http.Client

	// Geocoder resolves place names. Defaults to the client itself.
	Geocoder plugins.Geocoder

	// DB caches raw responses for CacheTTL when set.
	DB       *gorm.DB
	CacheTTL time.Duration
}

// NewClient creates a new Open-Meteo client
func NewClient(baseURL, geocodingBaseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if geocodingBaseURL == "" {
		geocodingBaseURL = DefaultGeocodingBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		BaseURL:          strings.TrimRight(baseURL, "/"),
		GeocodingBaseURL: strings.TrimRight(geocodingBaseURL, "/"),
		HTTPClient:       &http.Client{Timeout: timeout},
		CacheTTL:         10 * time.Minute,
	}
	c.Geocoder = c
	return c
}

var _ plugins.Geocoder = (*Client)(nil)

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Timezone  string  `json:"timezone"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
	} `json:"results"`
}

// Geocode resolves a place name with the Open-Meteo geocoding API.
func (c *Client) Geocode(ctx context.Context, query string) (*plugins.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("location is required")
	}

	params := url.Values{}
	params.Set("name", query)
	params.Set("count", "1")
	params.Set("language", "en")
	params.Set("format", "json")

	var resp geocodingResponse
	if err := c.getJSON(ctx, c.GeocodingBaseURL+"/search", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w", query, err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, query)
	}

	r := resp.Results[0]
	name := r.Name
	if r.Admin1 != "" && r.Admin1 != r.Name {
		name += ", " + r.Admin1
	}
	if r.Country != "" {
		name += ", " + r.Country
	}
	return &plugins.Place{
		Name:      name,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		TimeZone:  r.Timezone,
		Country:   r.Country,
	}, nil
}

// Conditions is the current weather at a point.
type Conditions struct {
	Time                string  `json:"time"`
	TimeZone            string  `json:"timezone"`
	TemperatureC        float64 `json:"temperature_c"`
	ApparentTempC       float64 `json:"apparent_temperature_c"`
	RelativeHumidityPct float64 `json:"relative_humidity_pct"`
	PrecipitationMM     float64 `json:"precipitation_mm"`
	WindSpeedKmh        float64 `json:"wind_speed_kmh"`
	WindDirectionDeg    float64 `json:"wind_direction_deg"`
	WeatherCode         int     `json:"weather_code"`
	Description         string  `json:"description"`
	IsDay               bool    `json:"is_day"`
}

type forecastResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Time                string  `json:"time"`
		Temperature         float64 `json:"temperature_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		Precipitation       float64 `json:"precipitation"`
		WindSpeed           float64 `json:"wind_speed_10m"`
		WindDirection       float64 `json:"wind_direction_10m"`
		WeatherCode         int     `json:"weather_code"`
		IsDay               int     `json:"is_day"`
	} `json:"current"`
}

// Current returns current conditions for the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lng float64) (*Conditions, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("coordinates out of range: %f,%f", lat, lng)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(lng, 'f', 4, 64))
	params.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation,weather_code,wind_speed_10m,wind_direction_10m,is_day")
	params.Set("timezone", "auto")

	var resp forecastResponse
	if err := c.getJSON(ctx, c.BaseURL+"/forecast", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to get forecast: %w", err)
	}

	cur := resp.Current
	return &Conditions{
		Time:                cur.Time,
		TimeZone:            resp.Timezone,
		TemperatureC:        cur.Temperature,
		ApparentTempC:       cur.ApparentTemperature,
		RelativeHumidityPct: cur.RelativeHumidity,
		PrecipitationMM:     cur.Precipitation,
		WindSpeedKmh:        cur.WindSpeed,
		WindDirectionDeg:    cur.WindDirection,
		WeatherCode:         cur.WeatherCode,
		Description:         DescribeCode(cur.WeatherCode),
		IsDay:               cur.IsDay == 1,
	}, nil
}

// getJSON fetches endpoint?params and decodes the body into out, going
// through the response cache when one is configured.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	fullURL := endpoint + "?" + params.Encode()

	if c.DB != nil {
		entry, err := orm.GetCacheEntry(c.DB, cacheNamespace, fullURL)
		if err == nil {
			log.Debugf(ctx, "Open-Meteo cache hit: %s", fullURL)
			return json.Unmarshal(entry.Value, out)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf(ctx, "Open-Meteo cache read failed: %v", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if c.DB != nil && c.CacheTTL > 0 {
		if err := orm.SetCacheEntry(c.DB, cacheNamespace, fullURL, body, c.CacheTTL); err != nil {
			log.Warnf(ctx, "Open-Meteo cache write failed: %v", err)
		}
		if n, err := orm.CleanupCache(c.DB); err != nil {
			log.Warnf(ctx, "Open-Meteo cache cleanup failed: %v", err)
		} else if n > 0 {
			log.Debugf(ctx, "Removed %d expired cache entries", n)
		}
	}
	return nil
}
