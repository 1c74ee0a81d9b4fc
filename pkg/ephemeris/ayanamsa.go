package ephemeris

import (
	"fmt"
	"strings"
)

// Ayanamsa selects the sidereal correction subtracted from tropical
// longitudes.
type Ayanamsa string

const (
	Lahiri       Ayanamsa = "lahiri"
	Raman        Ayanamsa = "raman"
	Krishnamurti Ayanamsa = "krishnamurti"
	FaganBradley Ayanamsa = "fagan_bradley"
)

// Values at J2000.0 in degrees
var ayanamsaJ2000 = map[Ayanamsa]float64{
	Lahiri:       23.857092,
	Raman:        22.410791,
	Krishnamurti: 23.760240,
	FaganBradley: 24.740300,
}

// ParseAyanamsa resolves an ayanamsa name.
func ParseAyanamsa(name string) (Ayanamsa, error) {
	a := Ayanamsa(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := ayanamsaJ2000[a]; !ok {
		return "", fmt.Errorf("unknown ayanamsa %q", name)
	}
	return a, nil
}

// Degrees returns the ayanamsa at Julian ephemeris day jde: the J2000 value
// advanced by general precession in longitude (IAU 1976).
func (a Ayanamsa) Degrees(jde float64) float64 {
	T := (jde - 2451545.0) / 36525.0
	precession := (5029.0966*T + 1.11113*T*T - 0.000006*T*T*T) / 3600.0
	return ayanamsaJ2000[a] + precession
}
