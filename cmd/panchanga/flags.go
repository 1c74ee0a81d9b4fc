package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrissnell/panchanga/internal/app"
	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/panchanga"
)

// placeFlags selects an observer location, either by configured name or
// by coordinates.
type placeFlags struct {
	name string
	lat  float64
	lon  float64
	alt  float64
	tz   string
}

func addPlaceFlags(cmd *cobra.Command, p *placeFlags) {
	f := cmd.Flags()
	f.StringVarP(&p.name, "location", "l", "", "named location from the config")
	f.Float64Var(&p.lat, "lat", 0, "latitude in degrees, north positive")
	f.Float64Var(&p.lon, "lon", 0, "longitude in degrees, east positive")
	f.Float64Var(&p.alt, "alt", 0, "altitude in metres")
	f.StringVar(&p.tz, "tz", "", "IANA time zone, e.g. Asia/Kolkata")
}

// resolve returns the chosen location. Without flags the first configured
// location is used.
func (p *placeFlags) resolve(cmd *cobra.Command, a *app.App) (panchanga.Location, error) {
	if p.name != "" {
		return a.Location(p.name)
	}

	f := cmd.Flags()
	if f.Changed("lat") || f.Changed("lon") || p.tz != "" {
		if !f.Changed("lat") || !f.Changed("lon") || p.tz == "" {
			return panchanga.Location{}, fmt.Errorf("--lat, --lon and --tz must be given together")
		}
		loc := panchanga.Location{
			Name:      fmt.Sprintf("%.4f,%.4f", p.lat, p.lon),
			Latitude:  p.lat,
			Longitude: p.lon,
			Altitude:  p.alt,
			TimeZone:  p.tz,
		}
		return loc, loc.Validate()
	}

	if locs := a.Config().Locations; len(locs) > 0 {
		return a.Location(locs[0].Name)
	}
	return panchanga.Location{}, fmt.Errorf("no location: pass --location or --lat, --lon and --tz")
}

// parseDate reads a civil date in zone. Empty means today.
func parseDate(s string, zone *time.Location) (time.Time, error) {
	if s == "" || s == "today" {
		now := time.Now().In(zone)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, zone), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

// parseInstant reads an RFC 3339 timestamp, or a local "YYYY-MM-DD HH:MM"
// or date in zone. Empty means now.
func parseInstant(s string, zone *time.Location) (time.Time, error) {
	if s == "" || s == "now" {
		return time.Now().In(zone), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, zone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid instant %q (want RFC 3339 or YYYY-MM-DD HH:MM)", s)
}

func parseBodies(names []string) ([]ephemeris.Body, error) {
	var bodies []ephemeris.Body
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			b, err := ephemeris.ParseBody(part)
			if err != nil {
				return nil, err
			}
			bodies = append(bodies, b)
		}
	}
	return bodies, nil
}
