package chesta

import (
	"fmt"
	"time"

	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/panchanga"
)

// StationKind is the direction a body turns to at a station.
type StationKind string

const (
	StationRetrograde StationKind = "retrograde" // direct to retrograde
	StationDirect     StationKind = "direct"     // retrograde to direct
)

// Station is an instant at which a body's longitude velocity changes sign.
type Station struct {
	Body ephemeris.Body `json:"body" yaml:"body" msgpack:"body"`
	At   time.Time      `json:"at" yaml:"at" msgpack:"at"`
	Kind StationKind    `json:"kind" yaml:"kind" msgpack:"kind"`
}

// StationSearch controls how stations are located. The range is scanned at
// Step and every sign change is bisected down to Tolerance.
type StationSearch struct {
	Step          time.Duration
	Tolerance     time.Duration
	MaxIterations int // cap on oracle samples per search
}

// DefaultStationSearch scans daily and refines to the minute. A daily step
// cannot skip a retrograde period of any planet.
func DefaultStationSearch() StationSearch {
	return StationSearch{
		Step:          24 * time.Hour,
		Tolerance:     time.Minute,
		MaxIterations: 8000,
	}
}

// Stations finds the stations of body between from and to with the default
// search.
func Stations(oracle ephemeris.Oracle, body ephemeris.Body, from, to time.Time) ([]Station, error) {
	return DefaultStationSearch().Find(oracle, body, from, to)
}

// Find returns the stations of body in [from, to] in chronological order.
// A velocity of exactly zero counts as direct, as in Classify.
func (s StationSearch) Find(oracle ephemeris.Oracle, body ephemeris.Body, from, to time.Time) ([]Station, error) {
	if s.Step <= 0 || s.Tolerance <= 0 || s.MaxIterations <= 0 {
		return nil, fmt.Errorf("invalid station search %+v", s)
	}
	if !body.Valid() {
		return nil, &panchanga.InputError{Field: "body", Value: body, Reason: "unknown body"}
	}
	if to.Before(from) {
		return nil, &panchanga.InputError{Field: "range", Value: to.Format(time.RFC3339), Reason: "ends before it starts"}
	}
	if steps := int(to.Sub(from)/s.Step) + 1; steps > s.MaxIterations {
		return nil, &panchanga.InputError{Field: "range", Value: to.Sub(from).String(),
			Reason: fmt.Sprintf("needs %d samples, more than %d", steps, s.MaxIterations)}
	}

	budget := s.MaxIterations
	retrograde := func(at time.Time) (bool, error) {
		if budget <= 0 {
			return false, fmt.Errorf("station search for %s exceeded %d samples", body, s.MaxIterations)
		}
		budget--
		smp, err := sampleAt(oracle, body, at)
		if err != nil {
			return false, err
		}
		return smp.Velocity < 0, nil
	}

	var stations []Station

	prevAt := from
	prev, err := retrograde(prevAt)
	if err != nil {
		return nil, err
	}
	for prevAt.Before(to) {
		at := prevAt.Add(s.Step)
		if at.After(to) {
			at = to
		}
		cur, err := retrograde(at)
		if err != nil {
			return nil, err
		}
		if cur != prev {
			lo, hi := prevAt, at
			for hi.Sub(lo) > s.Tolerance {
				mid := lo.Add(hi.Sub(lo) / 2)
				r, err := retrograde(mid)
				if err != nil {
					return nil, err
				}
				if r == prev {
					lo = mid
				} else {
					hi = mid
				}
			}
			kind := StationRetrograde
			if prev {
				kind = StationDirect
			}
			stations = append(stations, Station{
				Body: body,
				At:   lo.Add(hi.Sub(lo) / 2).Truncate(time.Second),
				Kind: kind,
			})
		}
		prevAt, prev = at, cur
	}
	return stations, nil
}
