package ephemeris

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/chrissnell/panchanga/pkg/angle"
)

// The Meeus series for the Sun, Moon and node hold to well under an arcminute
// over this span; the ayanamsa model is the tighter limit.
var luminaryRange = Span{
	From: time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC),
	To:   time.Date(3000, 12, 31, 23, 59, 59, 0, time.UTC),
}

// MeeusOracle computes sidereal samples with the algorithms from Jean Meeus,
// "Astronomical Algorithms".
type MeeusOracle struct {
	ayanamsa Ayanamsa
	step     float64 // finite-difference step in days
}

// NewMeeusOracle returns an oracle applying the given ayanamsa.
func NewMeeusOracle(a Ayanamsa) (*MeeusOracle, error) {
	if _, ok := ayanamsaJ2000[a]; !ok {
		return nil, fmt.Errorf("unknown ayanamsa %q", a)
	}
	return &MeeusOracle{ayanamsa: a, step: 1.0 / 24}, nil
}

// Ayanamsa returns the sidereal mode in use.
func (o *MeeusOracle) Ayanamsa() Ayanamsa {
	return o.ayanamsa
}

// Sample returns the sidereal longitude and daily motion of body at t.
func (o *MeeusOracle) Sample(t time.Time, body Body) (Sample, error) {
	if !body.Valid() {
		return Sample{}, fmt.Errorf("%w: %q", ErrUnsupportedBody, body)
	}

	span := luminaryRange
	if isPlanet(body) {
		span = planetRange
	}
	if err := checkRange(body, t, span); err != nil {
		return Sample{}, err
	}

	lon := func(jd float64) (float64, error) {
		return o.sidereal(body, jd), nil
	}

	jd := julian.TimeToJD(t.UTC())
	l := o.sidereal(body, jd)
	v, err := dailyMotion(lon, jd, o.step)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		Body:       body,
		At:         t,
		Longitude:  l,
		Velocity:   v,
		Retrograde: v < 0,
	}, nil
}

func (o *MeeusOracle) sidereal(body Body, jd float64) float64 {
	return angle.Wrap360(tropicalLongitude(body, jd) - o.ayanamsa.Degrees(jd))
}

// tropicalLongitude returns the apparent geocentric longitude referred to the
// equinox of date. Dynamical time is taken equal to universal time; the
// difference moves the Moon by well under a pada boundary's tolerance.
func tropicalLongitude(body Body, jd float64) float64 {
	switch body {
	case Sun:
		return solar.ApparentLongitude(base.J2000Century(jd)).Deg()
	case Moon:
		λ, _, _ := moonposition.Position(jd)
		Δψ, _ := nutation.Nutation(jd)
		return angle.Wrap360(λ.Deg() + Δψ.Deg())
	case Rahu:
		return angle.Wrap360(moonposition.Node(jd).Deg())
	case Ketu:
		return angle.Wrap360(moonposition.Node(jd).Deg() + 180)
	default:
		return planetLongitude(body, jd)
	}
}
