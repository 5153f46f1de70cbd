package plugins

import (
	"context"
	"time"
)

// Place is a geocoded location.
type Place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// TimeZone is an IANA zone name when the geocoder knows it.
	TimeZone string `json:"timezone,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Geocoder resolves free-text place names.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Place, error)
}

// TimeZoneResolver maps coordinates to an IANA zone name.
type TimeZoneResolver interface {
	TimeZone(ctx context.Context, lat, lng float64, at time.Time) (string, error)
}
