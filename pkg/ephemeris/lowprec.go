package ephemeris

import (
	"fmt"
	"math"
	"time"

	"github.com/chrissnell/panchanga/pkg/angle"
)

// LowPrecisionOracle evaluates truncated series for the Sun, Moon and mean
// node. The Moon is typically within a few arcminutes of the full Meeus
// theory, which is enough to place nakshatra and tithi but not to time their
// boundaries to the minute.
type LowPrecisionOracle struct {
	ayanamsa Ayanamsa
}

// NewLowPrecisionOracle returns a series-based oracle for the luminaries.
func NewLowPrecisionOracle(a Ayanamsa) (*LowPrecisionOracle, error) {
	if _, ok := ayanamsaJ2000[a]; !ok {
		return nil, fmt.Errorf("unknown ayanamsa %q", a)
	}
	return &LowPrecisionOracle{ayanamsa: a}, nil
}

// Sample returns the sidereal longitude and daily motion of body at t.
func (o *LowPrecisionOracle) Sample(t time.Time, body Body) (Sample, error) {
	var series func(T float64) float64
	switch body {
	case Sun:
		series = sunEclipticLongitude
	case Moon:
		series = moonEclipticLongitude
	case Rahu:
		series = meanNode
	case Ketu:
		series = func(T float64) float64 { return angle.Wrap360(meanNode(T) + 180) }
	default:
		return Sample{}, fmt.Errorf("%w: %q (low precision oracle covers Sun, Moon, Rahu, Ketu)", ErrUnsupportedBody, body)
	}
	if err := checkRange(body, t, luminaryRange); err != nil {
		return Sample{}, err
	}

	lon := func(jd float64) (float64, error) {
		return angle.Wrap360(series(julianCenturies(jd)) - o.ayanamsa.Degrees(jd)), nil
	}

	jd := jdFromTime(t)
	l, _ := lon(jd)
	v, err := dailyMotion(lon, jd, 0.5)
	if err != nil {
		return Sample{}, err
	}

	return Sample{Body: body, At: t, Longitude: l, Velocity: v, Retrograde: v < 0}, nil
}

// jdFromTime converts a UTC time to Julian Day
func jdFromTime(t time.Time) float64 {
	return 2440587.5 + float64(t.Unix())/86400.0 + float64(t.Nanosecond())/86400e9
}

// julianCenturies returns Julian centuries since J2000.0
func julianCenturies(jd float64) float64 {
	return (jd - 2451545.0) / 36525.0
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// sunEclipticLongitude computes the Sun's ecliptic longitude in degrees
func sunEclipticLongitude(T float64) float64 {
	// Mean longitude
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T

	// Mean anomaly
	M := 357.52911 + 35999.05029*T - 0.0001537*T*T
	Mrad := degToRad(angle.Wrap360(M))

	// Equation of center
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mrad) +
		(0.019993-0.000101*T)*math.Sin(2*Mrad) +
		0.000289*math.Sin(3*Mrad)

	// Aberration and nutation, Meeus eq. 25.8
	omega := degToRad(125.04 - 1934.136*T)
	return angle.Wrap360(L0 + C - 0.00569 - 0.00478*math.Sin(omega))
}

// moonEclipticLongitude computes the Moon's ecliptic longitude in degrees
func moonEclipticLongitude(T float64) float64 {
	L := 218.3164477 +
		481267.88123421*T -
		0.0015786*T*T +
		T*T*T/538841 -
		T*T*T*T/65194000

	// Mean elongation
	D := 297.8501921 +
		445267.1114034*T -
		0.0018819*T*T +
		T*T*T/545868 -
		T*T*T*T/113065000

	// Sun mean anomaly
	M := 357.5291092 +
		35999.0502909*T -
		0.0001536*T*T +
		T*T*T/24490000

	// Moon mean anomaly
	Mp := 134.9633964 +
		477198.8675055*T +
		0.0087414*T*T +
		T*T*T/69699 -
		T*T*T*T/14712000

	// Argument of latitude
	F := 93.2720950 +
		483202.0175233*T -
		0.0036539*T*T -
		T*T*T/3526000 +
		T*T*T*T/863310000

	Drad := degToRad(angle.Wrap360(D))
	Mrad := degToRad(angle.Wrap360(M))
	Mprad := degToRad(angle.Wrap360(Mp))
	Frad := degToRad(angle.Wrap360(F))

	// Largest terms of Meeus table 47.A
	return angle.Wrap360(L +
		6.288774*math.Sin(Mprad) +
		1.274027*math.Sin(2*Drad-Mprad) +
		0.658314*math.Sin(2*Drad) +
		0.213618*math.Sin(2*Mprad) -
		0.185116*math.Sin(Mrad) -
		0.114332*math.Sin(2*Frad) +
		0.058793*math.Sin(2*Drad-2*Mprad) +
		0.057066*math.Sin(2*Drad-Mrad-Mprad) +
		0.053322*math.Sin(2*Drad+Mprad) +
		0.045758*math.Sin(2*Drad-Mrad) -
		0.040923*math.Sin(Mrad-Mprad) -
		0.034720*math.Sin(Drad) -
		0.030383*math.Sin(Mrad+Mprad))
}

// meanNode is the longitude of the Moon's mean ascending node, Meeus eq. 47.7
func meanNode(T float64) float64 {
	return angle.Wrap360(125.0445479 -
		1934.1362891*T +
		0.0020754*T*T +
		T*T*T/467441 -
		T*T*T*T/60616000)
}
