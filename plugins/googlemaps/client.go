package googlemaps

import (
	"context"
	"fmt"
	"time"

	"github.com/va6996/deskagent/plugins"
	"googlemaps.github.io/maps"
)

// Client handles Google Maps geocoding and time zone requests
type Client struct {
	APIKey     string
	MapsClient *maps.Client
}

var (
	_ plugins.Geocoder         = (*Client)(nil)
	_ plugins.TimeZoneResolver = (*Client)(nil)
)

// NewClient creates a new Google Maps API client. Extra options (such as
// maps.WithBaseURL) are passed through to the SDK.
func NewClient(apiKey string, opts ...maps.ClientOption) (*Client, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	return &Client{
		APIKey:     apiKey,
		MapsClient: c,
	}, nil
}

// Geocode returns the best match for a free-text address.
func (c *Client) Geocode(ctx context.Context, query string) (*plugins.Place, error) {
	if c.MapsClient == nil {
		return nil, fmt.Errorf("maps client not initialized")
	}

	results, err := c.MapsClient.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no geocoding results for %q", query)
	}

	best := results[0]
	place := &plugins.Place{
		Name:      best.FormattedAddress,
		Latitude:  best.Geometry.Location.Lat,
		Longitude: best.Geometry.Location.Lng,
	}
	for _, comp := range best.AddressComponents {
		for _, typ := range comp.Types {
			if typ == "country" {
				place.Country = comp.ShortName
			}
		}
	}
	return place, nil
}

// TimeZone looks up the IANA zone in effect at the coordinates at time at.
func (c *Client) TimeZone(ctx context.Context, lat, lng float64, at time.Time) (string, error) {
	if c.MapsClient == nil {
		return "", fmt.Errorf("maps client not initialized")
	}

	res, err := c.MapsClient.Timezone(ctx, &maps.TimezoneRequest{
		Location:  &maps.LatLng{Lat: lat, Lng: lng},
		Timestamp: at,
	})
	if err != nil {
		return "", fmt.Errorf("time zone request failed: %w", err)
	}
	return res.TimeZoneID, nil
}
