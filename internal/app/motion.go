package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/panchanga/pkg/chesta"
	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/navatara"
	"github.com/chrissnell/panchanga/pkg/panchanga"
)

// ChestaReport is the motion state of several bodies at one instant.
type ChestaReport struct {
	At      time.Time      `json:"at" yaml:"at" msgpack:"at"`
	States  []chesta.State `json:"states" yaml:"states" msgpack:"states"`
	Summary chesta.Summary `json:"summary" yaml:"summary" msgpack:"summary"`
}

// Chesta classifies each body's motion at instant at. No bodies means all
// of them.
func (a *App) Chesta(at time.Time, bodies ...ephemeris.Body) (*ChestaReport, error) {
	bodies, err := checkBodies(bodies)
	if err != nil {
		return nil, err
	}

	states := make([]chesta.State, 0, len(bodies))
	for _, b := range bodies {
		s, err := a.sample(at, b)
		if err != nil {
			return nil, err
		}
		st, err := a.classifier.Classify(b, s.Velocity)
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}

	return &ChestaReport{At: at, States: states, Summary: chesta.Summarize(states)}, nil
}

// SeriesReport is one body's daily motion states over a range.
type SeriesReport struct {
	Body        ephemeris.Body      `json:"body" yaml:"body" msgpack:"body"`
	States      []chesta.DailyState `json:"states" yaml:"states" msgpack:"states"`
	Transitions []chesta.Transition `json:"transitions" yaml:"transitions" msgpack:"transitions"`
	Stations    []chesta.Station    `json:"stations" yaml:"stations" msgpack:"stations"`
}

// ChestaSeries samples each body once a day for days days from start and
// reports its states, the days the state changed and the exact stations
// within the sampled span. Bodies are processed concurrently; the result
// keeps the order of bodies.
func (a *App) ChestaSeries(ctx context.Context, start time.Time, days int, bodies ...ephemeris.Body) ([]SeriesReport, error) {
	if days < 1 || days > maxRangeDays {
		return nil, &panchanga.InputError{Field: "days", Value: days, Reason: fmt.Sprintf("must be in [1, %d]", maxRangeDays)}
	}
	bodies, err := checkBodies(bodies)
	if err != nil {
		return nil, err
	}

	last := start.Add(time.Duration(days-1) * 24 * time.Hour)
	reports := make([]SeriesReport, len(bodies))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.config.Engine.Concurrency))
	for i, b := range bodies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			obs, err := chesta.Sample(a.oracle, b, start, 24*time.Hour, days)
			if err != nil {
				return err
			}
			states, err := a.classifier.ClassifySeries(b, obs)
			if err != nil {
				return err
			}
			stations, err := chesta.Stations(a.oracle, b, start, last)
			if err != nil {
				return err
			}
			reports[i] = SeriesReport{
				Body:        b,
				States:      states,
				Transitions: chesta.Transitions(states),
				Stations:    stations,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// NavataraReport is a navatara chakra counted from a body's nakshatra or
// the lagna's.
type NavataraReport struct {
	At        time.Time        `json:"at" yaml:"at" msgpack:"at"`
	From      string           `json:"from" yaml:"from" msgpack:"from"`
	Location  string           `json:"location,omitempty" yaml:"location,omitempty" msgpack:"location,omitempty"`
	Longitude float64          `json:"longitude" yaml:"longitude" msgpack:"longitude"`
	Scheme    int              `json:"scheme" yaml:"scheme" msgpack:"scheme"`
	Start     navatara.Entry   `json:"start" yaml:"start" msgpack:"start"`
	Mapping   []navatara.Entry `json:"mapping" yaml:"mapping" msgpack:"mapping"`
}

// Navatara builds the chakra starting at the nakshatra occupied at instant
// at by from, which is a body name or navatara.Lagna. The location is only
// used for the lagna. A zero scheme uses the configured one.
func (a *App) Navatara(at time.Time, from string, loc panchanga.Location, scheme int) (*NavataraReport, *navatara.Cycle, error) {
	if scheme == 0 {
		scheme = a.calculator.Scheme()
	}

	r := &NavataraReport{At: at, Scheme: scheme}
	if strings.EqualFold(strings.TrimSpace(from), navatara.Lagna) {
		if err := loc.Validate(); err != nil {
			return nil, nil, err
		}
		if loc.Latitude <= -90 || loc.Latitude >= 90 {
			return nil, nil, &panchanga.InputError{Field: "latitude", Value: loc.Latitude, Reason: "no lagna at the poles"}
		}
		lon, err := ephemeris.Ascendant(at, loc.Latitude, loc.Longitude, a.ayanamsa)
		if err != nil {
			return nil, nil, &panchanga.OracleError{Body: navatara.Lagna, At: at, Err: err}
		}
		r.From, r.Location, r.Longitude = navatara.Lagna, loc.Name, lon
	} else {
		body, err := ephemeris.ParseBody(from)
		if err != nil {
			return nil, nil, &panchanga.InputError{Field: "from", Value: from, Reason: "unknown body"}
		}
		s, err := a.sample(at, body)
		if err != nil {
			return nil, nil, err
		}
		r.From, r.Longitude = string(body), s.Longitude
	}

	start, err := navatara.StartFromLongitude(r.Longitude, scheme)
	if err != nil {
		return nil, nil, err
	}
	cycle, err := navatara.NewCycle(start, scheme)
	if err != nil {
		return nil, nil, err
	}
	r.Start, _ = cycle.Classify(start)
	r.Mapping = cycle.Mapping()

	return r, cycle, nil
}

func (a *App) sample(at time.Time, body ephemeris.Body) (ephemeris.Sample, error) {
	s, err := a.oracle.Sample(at, body)
	if err != nil {
		return ephemeris.Sample{}, &panchanga.OracleError{Body: body, At: at, Err: err}
	}
	return s, nil
}

// checkBodies rejects unknown bodies before any sampling. An empty list
// means every body.
func checkBodies(bodies []ephemeris.Body) ([]ephemeris.Body, error) {
	if len(bodies) == 0 {
		return ephemeris.Bodies, nil
	}
	for _, b := range bodies {
		if !b.Valid() {
			return nil, &panchanga.InputError{Field: "bodies", Value: b, Reason: "unknown body"}
		}
	}
	return bodies, nil
}
