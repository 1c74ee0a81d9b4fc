package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/panchanga/pkg/panchanga"
	"github.com/chrissnell/panchanga/pkg/solar"
	"github.com/chrissnell/panchanga/pkg/yoga"
)

// maxRangeDays bounds a Month query.
const maxRangeDays = 366

// DayReport is the panchanga of one civil day with the yogas in force.
type DayReport struct {
	Date      string              `json:"date" yaml:"date" msgpack:"date"`
	Snapshot  *panchanga.Snapshot `json:"panchanga" yaml:"panchanga" msgpack:"panchanga"`
	Yogas     []yoga.Match        `json:"yogas" yaml:"yogas" msgpack:"yogas"`
	Sunrise   string              `json:"sunrise,omitempty" yaml:"sunrise,omitempty" msgpack:"sunrise,omitempty"`
	Sunset    string              `json:"sunset,omitempty" yaml:"sunset,omitempty" msgpack:"sunset,omitempty"`
	PolarNote string              `json:"polar_note,omitempty" yaml:"polar_note,omitempty" msgpack:"polar_note,omitempty"`
}

// Day computes the snapshot for req and detects yogas on its civil date.
func (a *App) Day(req panchanga.Request) (*DayReport, error) {
	s, err := a.calculator.Snapshot(req)
	if err != nil {
		return nil, err
	}

	day, err := yoga.DayFromSnapshot(s)
	if err != nil {
		return nil, err
	}

	r := &DayReport{
		Date:     day.Date.Format(time.DateOnly),
		Snapshot: s,
		Yogas:    a.engine.Detect(day),
	}

	zone, _ := req.Location.Zone()
	sunrise, sunset, err := solar.SunEvents(req.Date, solar.Observer{
		Latitude:  req.Location.Latitude,
		Longitude: req.Location.Longitude,
		Altitude:  req.Location.Altitude,
		TimeZone:  zone,
	})
	if err != nil {
		r.PolarNote = err.Error()
	} else {
		r.Sunrise = solar.FormatSunTime(sunrise, zone)
		r.Sunset = solar.FormatSunTime(sunset, zone)
	}
	return r, nil
}

// Month computes a DayReport for every civil date from first through last
// inclusive, in the location's time zone. Days are computed concurrently,
// bounded by the configured concurrency, and returned in date order.
func (a *App) Month(ctx context.Context, first, last time.Time, loc panchanga.Location, ref solar.ReferenceKind) ([]DayReport, error) {
	zone, err := loc.Zone()
	if err != nil {
		return nil, err
	}

	start := solar.LocalMidnight(first, zone)
	end := solar.LocalMidnight(last, zone)
	if end.Before(start) {
		return nil, &panchanga.InputError{Field: "range", Value: last.Format(time.DateOnly), Reason: "ends before it starts"}
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
		if len(dates) > maxRangeDays {
			return nil, &panchanga.InputError{Field: "range", Value: len(dates), Reason: fmt.Sprintf("spans more than %d days", maxRangeDays)}
		}
	}

	reports := make([]DayReport, len(dates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.config.Engine.Concurrency))
	for i, d := range dates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := a.Day(panchanga.Request{Date: d, Location: loc, Reference: ref})
			if err != nil {
				return fmt.Errorf("%s: %w", d.Format(time.DateOnly), err)
			}
			reports[i] = *r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Debugw("computed range", "location", loc.Name, "from", start.Format(time.DateOnly), "days", len(reports))
	return reports, nil
}
