// Package ephemeris supplies sidereal longitudes and daily motion of the
// grahas. The derivation engine treats it as an external oracle: it never
// applies its own ayanamsa and never computes positions itself.
//
// Two oracles are provided. MeeusOracle uses the Meeus algorithms for the
// Sun, Moon and lunar node, and low-precision Keplerian elements for the
// planets. LowPrecisionOracle uses truncated series for the luminaries only
// and is intended for quick estimates.
package ephemeris

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Body identifies a graha.
type Body string

const (
	Sun     Body = "Sun"
	Moon    Body = "Moon"
	Mercury Body = "Mercury"
	Venus   Body = "Venus"
	Mars    Body = "Mars"
	Jupiter Body = "Jupiter"
	Saturn  Body = "Saturn"
	Rahu    Body = "Rahu"
	Ketu    Body = "Ketu"
)

// Bodies lists every supported body in traditional order.
var Bodies = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}

// ParseBody resolves a body name case-insensitively.
func ParseBody(name string) (Body, error) {
	for _, b := range Bodies {
		if strings.EqualFold(string(b), strings.TrimSpace(name)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedBody, name)
}

// Valid reports whether b is a known body.
func (b Body) Valid() bool {
	for _, known := range Bodies {
		if b == known {
			return true
		}
	}
	return false
}

var (
	// ErrUnsupportedBody is returned for a body the oracle cannot compute.
	ErrUnsupportedBody = errors.New("unsupported body")
	// ErrOutOfRange is returned for an instant outside the oracle's validity.
	ErrOutOfRange = errors.New("instant outside ephemeris range")
)

// Sample is the position of one body at one instant.
type Sample struct {
	Body       Body      `json:"body" yaml:"body" msgpack:"body"`
	At         time.Time `json:"at" yaml:"at" msgpack:"at"`
	Longitude  float64   `json:"longitude" yaml:"longitude" msgpack:"longitude"` // sidereal, degrees [0,360)
	Velocity   float64   `json:"velocity" yaml:"velocity" msgpack:"velocity"`    // degrees per day, negative when retrograde
	Retrograde bool      `json:"retrograde" yaml:"retrograde" msgpack:"retrograde"`
}

// Oracle returns sidereal samples. Implementations must be safe for
// concurrent use.
type Oracle interface {
	Sample(t time.Time, body Body) (Sample, error)
}

// Span is an inclusive validity range.
type Span struct {
	From time.Time
	To   time.Time
}

func (s Span) contains(t time.Time) bool {
	return !t.Before(s.From) && !t.After(s.To)
}

func checkRange(body Body, t time.Time, span Span) error {
	if !span.contains(t) {
		return fmt.Errorf("%w: %s at %s (supported %s to %s)", ErrOutOfRange, body,
			t.UTC().Format(time.RFC3339), span.From.Format("2006-01-02"), span.To.Format("2006-01-02"))
	}
	return nil
}
