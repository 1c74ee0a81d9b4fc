package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/unit"

	"github.com/chrissnell/panchanga/pkg/angle"
)

// orbit holds mean Keplerian elements and their rates per Julian century,
// referred to the mean ecliptic and equinox of J2000 (Standish, "Keplerian
// Elements for Approximate Positions of the Major Planets", table 1).
type orbit struct {
	a, aDot       float64 // semi-major axis, AU
	e, eDot       float64 // eccentricity
	i, iDot       float64 // inclination, degrees
	l, lDot       float64 // mean longitude, degrees
	peri, periDot float64 // longitude of perihelion, degrees
	node, nodeDot float64 // longitude of ascending node, degrees
}

var orbits = map[Body]orbit{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Mars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
}

// Earth-Moon barycentre
var earth = orbit{1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
	100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0}

// The element set is fitted to 1800-2050.
var planetRange = Span{
	From: time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC),
	To:   time.Date(2050, 12, 31, 23, 59, 59, 0, time.UTC),
}

// heliocentric returns J2000 ecliptic rectangular coordinates in AU.
func (o orbit) heliocentric(T float64) (x, y, z float64) {
	a := o.a + o.aDot*T
	e := o.e + o.eDot*T
	i := unit.AngleFromDeg(o.i + o.iDot*T).Rad()
	L := o.l + o.lDot*T
	peri := o.peri + o.periDot*T
	node := o.node + o.nodeDot*T

	M := unit.AngleFromDeg(angle.Wrap360(L - peri))
	E := kepler.Kepler3(e, M).Rad()

	// Position in the orbital plane, x towards perihelion
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	w := unit.AngleFromDeg(peri - node).Rad()
	n := unit.AngleFromDeg(node).Rad()

	cw, sw := math.Cos(w), math.Sin(w)
	cn, sn := math.Cos(n), math.Sin(n)
	ci, si := math.Cos(i), math.Sin(i)

	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// planetLongitude returns the geocentric tropical longitude of a planet,
// referred to the equinox of date.
func planetLongitude(body Body, jd float64) float64 {
	T := (jd - 2451545.0) / 36525.0

	px, py, _ := orbits[body].heliocentric(T)
	ex, ey, _ := earth.heliocentric(T)

	lon := unit.Angle(math.Atan2(py-ey, px-ex)).Deg()

	// Precess from the J2000 equinox to the equinox of date
	precession := (5029.0966*T + 1.11113*T*T) / 3600.0
	return angle.Wrap360(lon + precession)
}

func isPlanet(body Body) bool {
	_, ok := orbits[body]
	return ok
}
