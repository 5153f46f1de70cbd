package weather

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/deskagent/log"
	"github.com/va6996/deskagent/tools"
)

type CurrentInput struct {
	Location  string   `json:"location,omitempty" description:"Place name, e.g. 'Paris' or 'Austin, Texas'"`
	Latitude  *float64 `json:"latitude,omitempty" description:"Latitude in decimal degrees, used with longitude instead of location"`
	Longitude *float64 `json:"longitude,omitempty" description:"Longitude in decimal degrees"`
}

type CurrentOutput struct {
	Location  string      `json:"location,omitempty"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Current   *Conditions `json:"current"`
}

// CurrentWeather resolves the input to coordinates and fetches conditions.
func (c *Client) CurrentWeather(ctx context.Context, input *CurrentInput) (*CurrentOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("input is required")
	}

	out := &CurrentOutput{}
	switch {
	case input.Latitude != nil && input.Longitude != nil:
		out.Latitude, out.Longitude = *input.Latitude, *input.Longitude
		out.Location = strings.TrimSpace(input.Location)
	case strings.TrimSpace(input.Location) != "":
		place, err := c.Geocoder.Geocode(ctx, input.Location)
		if err != nil {
			log.Errorf(ctx, "CurrentWeather geocoding failed: %v", err)
			return nil, err
		}
		out.Location, out.Latitude, out.Longitude = place.Name, place.Latitude, place.Longitude
	default:
		return nil, fmt.Errorf("either location or latitude and longitude are required")
	}

	log.Debugf(ctx, "Fetching weather for %s (%f,%f)", out.Location, out.Latitude, out.Longitude)
	cond, err := c.Current(ctx, out.Latitude, out.Longitude)
	if err != nil {
		log.Errorf(ctx, "CurrentWeather failed: %v", err)
		return nil, err
	}
	out.Current = cond
	return out, nil
}

// RegisterTools registers weather_current.
func (c *Client) RegisterTools(gk *genkit.Genkit, registry *tools.Registry) {
	tools.Define(gk, registry,
		"weather_current",
		"Returns current weather conditions (temperature, humidity, wind, precipitation, description). Arguments: location (string) or latitude and longitude (numbers).",
		c.CurrentWeather,
	)
}
