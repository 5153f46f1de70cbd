// Package clock answers "what time is it there" questions and evaluates date
// expressions for the agent.
package clock

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/va6996/deskagent/log"
	"github.com/va6996/deskagent/plugins"
)

// Client resolves local times. Geocoder and Zones are optional; without them
// only explicit IANA zone names are accepted.
type Client struct {
	Now      func() time.Time
	Geocoder plugins.Geocoder
	Zones    plugins.TimeZoneResolver
}

func NewClient(geocoder plugins.Geocoder, zones plugins.TimeZoneResolver) *Client {
	return &Client{
		Now:      time.Now,
		Geocoder: geocoder,
		Zones:    zones,
	}
}

type LocalTimeInput struct {
	TimeZone string `json:"timezone,omitempty" description:"IANA time zone, e.g. 'America/New_York'. Takes precedence over location."`
	Location string `json:"location,omitempty" description:"Place name, e.g. 'Tokyo' or 'Berlin, Germany'"`
}

type LocalTimeOutput struct {
	Location  string `json:"location,omitempty"`
	TimeZone  string `json:"timezone"`
	DateTime  string `json:"datetime"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Weekday   string `json:"weekday"`
	UTCOffset string `json:"utc_offset"`
}

// LocalTime reports the current time in the requested zone or place. With no
// input it reports UTC.
func (c *Client) LocalTime(ctx context.Context, input *LocalTimeInput) (*LocalTimeOutput, error) {
	if input == nil {
		input = &LocalTimeInput{}
	}
	now := c.Now()

	zoneName := strings.TrimSpace(input.TimeZone)
	placeName := ""
	if zoneName == "" && strings.TrimSpace(input.Location) != "" {
		place, zone, err := c.resolvePlace(ctx, input.Location, now)
		if err != nil {
			log.Errorf(ctx, "LocalTime failed to resolve %q: %v", input.Location, err)
			return nil, err
		}
		placeName, zoneName = place, zone
	}
	if zoneName == "" {
		zoneName = "UTC"
	}

	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", zoneName, err)
	}

	local := now.In(loc)
	return &LocalTimeOutput{
		Location:  placeName,
		TimeZone:  loc.String(),
		DateTime:  local.Format(time.RFC3339),
		Date:      local.Format("2006-01-02"),
		Time:      local.Format("15:04:05"),
		Weekday:   local.Weekday().String(),
		UTCOffset: local.Format("-07:00"),
	}, nil
}

func (c *Client) resolvePlace(ctx context.Context, query string, at time.Time) (string, string, error) {
	if c.Geocoder == nil {
		return "", "", fmt.Errorf("location lookup is not configured; pass an IANA timezone instead")
	}
	place, err := c.Geocoder.Geocode(ctx, query)
	if err != nil {
		return "", "", err
	}
	if place.TimeZone != "" {
		return place.Name, place.TimeZone, nil
	}
	if c.Zones == nil {
		return "", "", fmt.Errorf("no time zone known for %q", place.Name)
	}
	zone, err := c.Zones.TimeZone(ctx, place.Latitude, place.Longitude, at)
	if err != nil {
		return "", "", err
	}
	return place.Name, zone, nil
}

type ExpressionInput struct {
	Expression string `json:"expression" description:"JavaScript expression to calculate a date. Variable 'now' is available as current timestamp in milliseconds."`
}

type ExpressionOutput struct {
	DateTime string `json:"datetime"`
	Date     string `json:"date"`
	Weekday  string `json:"weekday"`
}

// Evaluate runs a date expression against the client's clock.
func (c *Client) Evaluate(ctx context.Context, input *ExpressionInput) (*ExpressionOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("input is required")
	}
	log.Debugf(ctx, "Evaluating date expression: %s", input.Expression)

	t, err := EvaluateExpression(input.Expression, c.Now())
	if err != nil {
		log.Errorf(ctx, "Date expression failed: %v", err)
		return nil, err
	}
	t = t.UTC()
	return &ExpressionOutput{
		DateTime: t.Format(time.RFC3339),
		Date:     t.Format("2006-01-02"),
		Weekday:  t.Weekday().String(),
	}, nil
}
