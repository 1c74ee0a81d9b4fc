package panchanga

import (
	"time"

	"github.com/chrissnell/panchanga/pkg/angle"
	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/solar"
)

// linearOracle moves every body at a constant rate from its longitude at
// origin.
type linearOracle struct {
	origin time.Time
	lon    map[ephemeris.Body]float64
	rate   map[ephemeris.Body]float64 // degrees per day
	err    error
}

func newLinearOracle(origin time.Time, sun, moon float64) *linearOracle {
	return &linearOracle{
		origin: origin,
		lon:    map[ephemeris.Body]float64{ephemeris.Sun: sun, ephemeris.Moon: moon, ephemeris.Mars: 10},
		rate:   map[ephemeris.Body]float64{ephemeris.Sun: 1, ephemeris.Moon: 13, ephemeris.Mars: -0.2},
	}
}

func (o *linearOracle) Sample(t time.Time, body ephemeris.Body) (ephemeris.Sample, error) {
	if o.err != nil {
		return ephemeris.Sample{}, o.err
	}
	lon0, ok := o.lon[body]
	if !ok {
		return ephemeris.Sample{}, ephemeris.ErrUnsupportedBody
	}
	days := t.Sub(o.origin).Hours() / 24
	v := o.rate[body]
	return ephemeris.Sample{
		Body:       body,
		At:         t,
		Longitude:  angle.Wrap360(lon0 + v*days),
		Velocity:   v,
		Retrograde: v < 0,
	}, nil
}

// fixedResolver returns a fixed instant or error for every date.
type fixedResolver struct {
	at  time.Time
	err error
}

func (r fixedResolver) Reference(time.Time, Location, solar.ReferenceKind) (time.Time, error) {
	return r.at, r.err
}
