package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/deskagent/orm"
	"github.com/va6996/deskagent/tools"
)

const forecastBody = `{
  "latitude": 48.86, "longitude": 2.35, "timezone": "Europe/Paris",
  "current": {
    "time": "2025-11-18T16:30", "temperature_2m": 9.4, "apparent_temperature": 7.1,
    "relative_humidity_2m": 81, "precipitation": 0.2, "wind_speed_10m": 14.8,
    "wind_direction_10m": 230, "weather_code": 61, "is_day": 1
  }
}`

const geocodeBody = `{"results":[{"name":"Paris","latitude":48.85341,"longitude":2.3488,"timezone":"Europe/Paris","country":"France","admin1":"Île-de-France"}]}`

type fakeServer struct {
	*httptest.Server
	forecastHits int32
}

func newFakeServer(t *testing.T) *fakeServer {
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/forecast":
			atomic.AddInt32(&fs.forecastHits, 1)
			assert.Equal(t, "auto", r.URL.Query().Get("timezone"))
			fmt.Fprint(w, forecastBody)
		case "/v1/search":
			if r.URL.Query().Get("name") == "Paris" {
				fmt.Fprint(w, geocodeBody)
				return
			}
			fmt.Fprint(w, `{}`)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "", 0)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, DefaultGeocodingBaseURL, c.GeocodingBaseURL)
	assert.NotNil(t, c.HTTPClient)
	assert.Same(t, c, c.Geocoder)
}

func TestClient_Geocode(t *testing.T) {
	fs := newFakeServer(t)
	c := NewClient(fs.URL+"/v1", fs.URL+"/v1", time.Second)

	place, err := c.Geocode(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris, Île-de-France, France", place.Name)
	assert.Equal(t, "Europe/Paris", place.TimeZone)
	assert.InDelta(t, 48.85341, place.Latitude, 1e-9)

	_, err = c.Geocode(context.Background(), "Atlantis")
	assert.True(t, errors.Is(err, ErrLocationNotFound))

	_, err = c.Geocode(context.Background(), "  ")
	assert.Error(t, err)
}

func TestClient_Current(t *testing.T) {
	fs := newFakeServer(t)
	c := NewClient(fs.URL+"/v1", fs.URL+"/v1", time.Second)

	cond, err := c.Current(context.Background(), 48.86, 2.35)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", cond.TimeZone)
	assert.InDelta(t, 9.4, cond.TemperatureC, 1e-9)
	assert.Equal(t, 61, cond.WeatherCode)
	assert.Equal(t, "Slight rain", cond.Description)
	assert.True(t, cond.IsDay)

	_, err = c.Current(context.Background(), 91, 0)
	assert.Error(t, err)
}

func TestClient_HTTPError(t *testing.T) {
	fs := newFakeServer(t)
	c := NewClient(fs.URL+"/broken", fs.URL+"/broken", time.Second)

	_, err := c.Current(context.Background(), 1, 1)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "status 500"))
}

func TestClient_ContextCancellation(t *testing.T) {
	fs := newFakeServer(t)
	c := NewClient(fs.URL+"/v1", fs.URL+"/v1", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Current(ctx, 1, 1)
	assert.Error(t, err)
}

func TestClient_Cache(t *testing.T) {
	fs := newFakeServer(t)
	c := NewClient(fs.URL+"/v1", fs.URL+"/v1", time.Second)

	db, err := orm.Open("sqlite", "file:weather_cache?mode=memory&cache=shared")
	require.NoError(t, err)
	c.DB = db
	c.CacheTTL = time.Minute

	for i := 0; i < 3; i++ {
		cond, err := c.Current(context.Background(), 48.86, 2.35)
		require.NoError(t, err)
		assert.Equal(t, "Slight rain", cond.Description)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&fs.forecastHits))
}

func TestClient_CacheWriteRemovesExpired(t *testing.T) {
	fs := newFakeServer(t)
	c := NewClient(fs.URL+"/v1", fs.URL+"/v1", time.Second)

	db, err := orm.Open("sqlite", "file:weather_cache_expired?mode=memory&cache=shared")
	require.NoError(t, err)
	c.DB = db
	c.CacheTTL = time.Minute

	require.NoError(t, orm.SetCacheEntry(db, cacheNamespace, "stale", []byte(`{}`), -time.Minute))

	_, err = c.Current(context.Background(), 48.86, 2.35)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&orm.ResponseCache{}).Where("cache_key = ?", cacheNamespace+":stale").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&orm.ResponseCache{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCurrentWeather(t *testing.T) {
	fs := newFakeServer(t)
	c := NewClient(fs.URL+"/v1", fs.URL+"/v1", time.Second)
	lat, lng := 48.86, 2.35

	tests := []struct {
		name      string
		input     *CurrentInput
		location  string
		expectErr bool
	}{
		{name: "by location", input: &CurrentInput{Location: "Paris"}, location: "Paris, Île-de-France, France"},
		{name: "by coordinates", input: &CurrentInput{Latitude: &lat, Longitude: &lng}},
		{name: "unknown location", input: &CurrentInput{Location: "Atlantis"}, expectErr: true},
		{name: "empty input", input: &CurrentInput{}, expectErr: true},
		{name: "only latitude", input: &CurrentInput{Latitude: &lat}, expectErr: true},
		{name: "nil input", input: nil, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.CurrentWeather(context.Background(), tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.location, out.Location)
			require.NotNil(t, out.Current)
			assert.Equal(t, 61, out.Current.WeatherCode)
		})
	}
}

func TestRegisterTools(t *testing.T) {
	fs := newFakeServer(t)
	c := NewClient(fs.URL+"/v1", fs.URL+"/v1", time.Second)

	gk := genkit.Init(context.Background())
	registry := tools.NewRegistry()
	c.RegisterTools(gk, registry)
	assert.Equal(t, []string{"weather_current"}, registry.Names())

	res, err := registry.ExecuteTool(context.Background(), "weather_current", map[string]interface{}{"location": "Paris"})
	require.NoError(t, err)
	out, ok := res.(*CurrentOutput)
	require.True(t, ok)
	assert.Equal(t, "Europe/Paris", out.Current.TimeZone)
}

func TestDescribeCode(t *testing.T) {
	assert.Equal(t, "Clear sky", DescribeCode(0))
	assert.Equal(t, "Thunderstorm with heavy hail", DescribeCode(99))
	assert.Equal(t, "Unknown", DescribeCode(42))
}
