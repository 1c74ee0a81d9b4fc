package chesta

import (
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/panchanga/pkg/ephemeris"
)

// Level grades a chesta bala value.
type Level string

const (
	Excellent Level = "excellent"
	Good      Level = "good"
	Average   Level = "average"
	Weak      Level = "weak"
)

// LevelOf grades a value in sixtieths.
func LevelOf(strength float64) Level {
	switch {
	case strength >= 45:
		return Excellent
	case strength >= 30:
		return Good
	case strength >= 15:
		return Average
	default:
		return Weak
	}
}

// Summary aggregates the states of several bodies at one instant.
type Summary struct {
	Average    float64                   `json:"average" yaml:"average" msgpack:"average"`
	Level      Level                     `json:"level" yaml:"level" msgpack:"level"`
	Strong     []ephemeris.Body          `json:"strong" yaml:"strong" msgpack:"strong"`
	Weak       []ephemeris.Body          `json:"weak" yaml:"weak" msgpack:"weak"`
	Retrograde []ephemeris.Body          `json:"retrograde" yaml:"retrograde" msgpack:"retrograde"`
	ByState    map[Name][]ephemeris.Body `json:"by_state" yaml:"by_state" msgpack:"by_state"`
}

// Summarize computes the mean strength and groups bodies as strong (30 or
// more), weak (15 or less), retrograde and by state. Bodies keep their
// input order.
func Summarize(states []State) Summary {
	s := Summary{ByState: make(map[Name][]ephemeris.Body)}
	if len(states) == 0 {
		s.Level = LevelOf(0)
		return s
	}

	values := make([]float64, len(states))
	for i, st := range states {
		values[i] = st.Strength
		switch {
		case st.Strength >= 30:
			s.Strong = append(s.Strong, st.Body)
		case st.Strength <= 15:
			s.Weak = append(s.Weak, st.Body)
		}
		if st.Retrograde {
			s.Retrograde = append(s.Retrograde, st.Body)
		}
		s.ByState[st.Name] = append(s.ByState[st.Name], st.Body)
	}

	s.Average = stat.Mean(values, nil)
	s.Level = LevelOf(s.Average)
	return s
}
