// Package chesta classifies planetary motion into the traditional motion
// states (avasthas) used for chesta bala, from a body's daily velocity
// relative to its mean daily motion.
package chesta

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/panchanga"
)

// Name is a motion state.
type Name string

const (
	Vakra     Name = "vakra"     // retrograde
	Anuvakra  Name = "anuvakra"  // slow, just after retrograde
	Vikala    Name = "vikala"    // near stationary
	Kutilaka  Name = "kutilaka"  // reversing direction
	Mandatara Name = "mandatara" // very slow
	Manda     Name = "manda"     // slow
	Sama      Name = "sama"      // mean speed
	Chara     Name = "chara"     // fast
	Atichara  Name = "atichara"  // very fast
)

// strength is the chesta bala of each state in sixtieths (shashtiamsha).
var strength = map[Name]float64{
	Vakra:     60,
	Anuvakra:  30,
	Vikala:    15,
	Kutilaka:  15,
	Mandatara: 7.5,
	Manda:     15,
	Sama:      30,
	Chara:     30,
	Atichara:  45,
}

// StrengthOf returns the chesta bala of a state in sixtieths, or 0 for an
// unknown state.
func StrengthOf(n Name) float64 {
	return strength[n]
}

// DefaultBaselines are mean daily motions in degrees per day.
var DefaultBaselines = map[ephemeris.Body]float64{
	ephemeris.Sun:     1.0,
	ephemeris.Moon:    13.2,
	ephemeris.Mercury: 1.4,
	ephemeris.Venus:   1.2,
	ephemeris.Mars:    0.5,
	ephemeris.Jupiter: 0.08,
	ephemeris.Saturn:  0.03,
	ephemeris.Rahu:    0.05,
	ephemeris.Ketu:    0.05,
}

// Ratio thresholds, checked in order. A ratio at or below Sama is mean
// motion.
const (
	vikalaBelow    = 0.03
	mandataraBelow = 0.1
	mandaBelow     = 0.6
	samaUpTo       = 1.4
	charaBelow     = 2.0
)

// anuvakraLookback is how many preceding samples may show retrograde
// motion for a slow direct sample to count as anuvakra.
const anuvakraLookback = 3

// State is the motion state of one body.
type State struct {
	Body       ephemeris.Body `json:"body" yaml:"body" msgpack:"body"`
	Name       Name           `json:"state" yaml:"state" msgpack:"state"`
	Strength   float64        `json:"strength" yaml:"strength" msgpack:"strength"`
	Velocity   float64        `json:"velocity" yaml:"velocity" msgpack:"velocity"`
	Ratio      float64        `json:"ratio" yaml:"ratio" msgpack:"ratio"`
	Retrograde bool           `json:"retrograde" yaml:"retrograde" msgpack:"retrograde"`
}

// Classifier maps velocities to states.
type Classifier struct {
	baselines map[ephemeris.Body]float64
}

// NewClassifier creates a Classifier. Entries in baselines override
// DefaultBaselines.
func NewClassifier(baselines map[ephemeris.Body]float64) (*Classifier, error) {
	b := make(map[ephemeris.Body]float64, len(DefaultBaselines))
	for k, v := range DefaultBaselines {
		b[k] = v
	}
	for k, v := range baselines {
		if !k.Valid() {
			return nil, &panchanga.InputError{Field: "baseline", Value: k, Reason: "unknown body"}
		}
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &panchanga.InputError{Field: "baseline", Value: v, Reason: fmt.Sprintf("mean motion of %s must be positive", k)}
		}
		b[k] = v
	}
	return &Classifier{baselines: b}, nil
}

// Baseline returns the mean daily motion used for body.
func (c *Classifier) Baseline(body ephemeris.Body) (float64, bool) {
	v, ok := c.baselines[body]
	return v, ok
}

// Classify returns the state for a single velocity sample in degrees per
// day. Kutilaka and anuvakra depend on neighbouring samples and are only
// produced by ClassifySeries. A velocity of exactly zero counts as direct.
func (c *Classifier) Classify(body ephemeris.Body, velocity float64) (State, error) {
	baseline, ok := c.baselines[body]
	if !ok {
		return State{}, &panchanga.InputError{Field: "body", Value: body, Reason: "unknown body"}
	}
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		return State{}, &panchanga.InputError{Field: "velocity", Value: velocity, Reason: "must be finite"}
	}

	s := State{
		Body:       body,
		Velocity:   velocity,
		Ratio:      math.Abs(velocity) / baseline,
		Retrograde: velocity < 0,
	}

	switch {
	case s.Retrograde:
		s.Name = Vakra
	case s.Ratio < vikalaBelow:
		s.Name = Vikala
	case s.Ratio < mandataraBelow:
		s.Name = Mandatara
	case s.Ratio < mandaBelow:
		s.Name = Manda
	case s.Ratio <= samaUpTo:
		s.Name = Sama
	case s.Ratio < charaBelow:
		s.Name = Chara
	default:
		s.Name = Atichara
	}
	s.Strength = StrengthOf(s.Name)
	return s, nil
}

// Observation is one velocity sample of a body.
type Observation struct {
	At       time.Time `json:"at" yaml:"at" msgpack:"at"`
	Velocity float64   `json:"velocity" yaml:"velocity" msgpack:"velocity"`
}

// DailyState is a State at a point in a series.
type DailyState struct {
	At    time.Time `json:"at" yaml:"at" msgpack:"at"`
	State `yaml:",inline" msgpack:",inline"`
}

// ClassifySeries classifies observations of one body in chronological
// order. A sample whose direction differs from the previous sample's is
// kutilaka; a slow direct sample shortly after retrograde motion is
// anuvakra.
func (c *Classifier) ClassifySeries(body ephemeris.Body, obs []Observation) ([]DailyState, error) {
	sorted := append([]Observation(nil), obs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	out := make([]DailyState, 0, len(sorted))
	for i, o := range sorted {
		s, err := c.Classify(body, o.Velocity)
		if err != nil {
			return nil, err
		}

		switch {
		case i > 0 && (sorted[i-1].Velocity < 0) != s.Retrograde:
			s.Name = Kutilaka
		case !s.Retrograde && s.Ratio < mandaBelow && retrogradeWithin(sorted, i, anuvakraLookback):
			s.Name = Anuvakra
		}
		s.Strength = StrengthOf(s.Name)

		out = append(out, DailyState{At: o.At, State: s})
	}
	return out, nil
}

func retrogradeWithin(obs []Observation, i, lookback int) bool {
	for j := i - 1; j >= 0 && j >= i-lookback; j-- {
		if obs[j].Velocity < 0 {
			return true
		}
	}
	return false
}

// Transition marks a change of state between consecutive samples.
type Transition struct {
	Body ephemeris.Body `json:"body" yaml:"body" msgpack:"body"`
	At   time.Time      `json:"at" yaml:"at" msgpack:"at"`
	Date string         `json:"date" yaml:"date" msgpack:"date"`
	From Name           `json:"from" yaml:"from" msgpack:"from"`
	To   Name           `json:"to" yaml:"to" msgpack:"to"`
}

// Transitions returns the samples whose state differs from the previous
// sample's. Input is sorted chronologically first; the slice passed in is
// not modified.
func Transitions(states []DailyState) []Transition {
	sorted := append([]DailyState(nil), states...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	var out []Transition
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Name == cur.Name {
			continue
		}
		out = append(out, Transition{
			Body: cur.Body,
			At:   cur.At,
			Date: cur.At.Format(time.DateOnly),
			From: prev.Name,
			To:   cur.Name,
		})
	}
	return out
}
