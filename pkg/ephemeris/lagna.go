package ephemeris

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"

	"github.com/chrissnell/panchanga/pkg/angle"
)

// Ascendant returns the sidereal longitude of the lagna, the ecliptic degree
// rising on the eastern horizon, at t for an observer at latitude lat and
// east longitude lon in degrees.
func Ascendant(t time.Time, lat, lon float64, a Ayanamsa) (float64, error) {
	if _, ok := ayanamsaJ2000[a]; !ok {
		return 0, fmt.Errorf("unknown ayanamsa %q", a)
	}
	if math.IsNaN(lat) || lat <= -90 || lat >= 90 {
		return 0, fmt.Errorf("ascendant undefined at latitude %v", lat)
	}
	if err := checkRange("Lagna", t, luminaryRange); err != nil {
		return 0, err
	}

	jd := julian.TimeToJD(t.UTC())
	ramc := sidereal.Apparent(jd).Angle() + unit.AngleFromDeg(lon)

	_, Δε := nutation.Nutation(jd)
	ε := coord.NewObliquity(nutation.MeanObliquity(jd) + Δε)

	return angle.Wrap360(ascendant(ramc, unit.AngleFromDeg(lat), ε) - a.Degrees(jd)), nil
}

// ascendant returns the tropical ascendant in degrees for the right
// ascension of the meridian ramc.
func ascendant(ramc, lat unit.Angle, ε *coord.Obliquity) float64 {
	s, c := ramc.Sincos()
	λ := math.Atan2(c, -(s*ε.C + lat.Tan()*ε.S))
	return angle.Wrap360(unit.Angle(λ).Deg())
}
