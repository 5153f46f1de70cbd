package googlemaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("address") == "nowhere" {
			w.Write([]byte(`{"results":[],"status":"ZERO_RESULTS"}`))
			return
		}
		w.Write([]byte(`{
			"results": [{
				"formatted_address": "Berlin, Germany",
				"address_components": [{"long_name": "Germany", "short_name": "DE", "types": ["country", "political"]}],
				"geometry": {"location": {"lat": 52.52, "lng": 13.405}}
			}],
			"status": "OK"
		}`))
	})
	mux.HandleFunc("/maps/api/timezone/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"dstOffset":0,"rawOffset":3600,"status":"OK","timeZoneId":"Europe/Berlin","timeZoneName":"Central European Standard Time"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("test-key")
	require.NoError(t, err)
	assert.Equal(t, "test-key", client.APIKey)
	assert.NotNil(t, client.MapsClient)

	_, err = NewClient("")
	assert.Error(t, err)
}

func TestClient_Geocode(t *testing.T) {
	srv := newTestServer(t)
	client, err := NewClient("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	place, err := client.Geocode(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Berlin, Germany", place.Name)
	assert.Equal(t, "DE", place.Country)
	assert.InDelta(t, 52.52, place.Latitude, 1e-9)
	assert.InDelta(t, 13.405, place.Longitude, 1e-9)
	assert.Empty(t, place.TimeZone)

	_, err = client.Geocode(context.Background(), "nowhere")
	assert.Error(t, err)
}

func TestClient_TimeZone(t *testing.T) {
	srv := newTestServer(t)
	client, err := NewClient("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	tz, err := client.TimeZone(context.Background(), 52.52, 13.405, time.Date(2025, 11, 18, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", tz)
}

func TestClient_Uninitialized(t *testing.T) {
	client := &Client{}
	_, err := client.Geocode(context.Background(), "Berlin")
	assert.ErrorContains(t, err, "not initialized")
	_, err = client.TimeZone(context.Background(), 0, 0, time.Now())
	assert.ErrorContains(t, err, "not initialized")
}
