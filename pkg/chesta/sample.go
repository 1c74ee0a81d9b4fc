package chesta

import (
	"fmt"
	"time"

	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/panchanga"
)

// Sample reads count observations of body from oracle, step apart,
// starting at start.
func Sample(oracle ephemeris.Oracle, body ephemeris.Body, start time.Time, step time.Duration, count int) ([]Observation, error) {
	if count < 1 {
		return nil, &panchanga.InputError{Field: "count", Value: count, Reason: "must be positive"}
	}
	if step <= 0 {
		return nil, fmt.Errorf("sample step must be positive, got %v", step)
	}
	if !body.Valid() {
		return nil, &panchanga.InputError{Field: "body", Value: body, Reason: "unknown body"}
	}

	obs := make([]Observation, 0, count)
	for i := 0; i < count; i++ {
		at := start.Add(time.Duration(i) * step)
		s, err := sampleAt(oracle, body, at)
		if err != nil {
			return nil, err
		}
		obs = append(obs, Observation{At: at, Velocity: s.Velocity})
	}
	return obs, nil
}

func sampleAt(oracle ephemeris.Oracle, body ephemeris.Body, at time.Time) (ephemeris.Sample, error) {
	s, err := oracle.Sample(at, body)
	if err != nil {
		return ephemeris.Sample{}, &panchanga.OracleError{Body: body, At: at, Err: err}
	}
	return s, nil
}
