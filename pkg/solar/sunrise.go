// Package solar resolves the civil reference instants of a day (sunrise,
// sunset, local noon, local midnight) for an observer.
package solar

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// ReferenceKind selects which instant of a civil day a panchanga is cast for.
type ReferenceKind string

const (
	Sunrise  ReferenceKind = "sunrise"
	Sunset   ReferenceKind = "sunset"
	Noon     ReferenceKind = "noon"
	Midnight ReferenceKind = "midnight"
)

// ParseReference resolves a reference kind name.
func ParseReference(name string) (ReferenceKind, error) {
	switch k := ReferenceKind(strings.ToLower(strings.TrimSpace(name))); k {
	case Sunrise, Sunset, Noon, Midnight:
		return k, nil
	}
	return "", fmt.Errorf("unknown reference %q (want sunrise, sunset, noon or midnight)", name)
}

var (
	// ErrPolarDay means the Sun does not set on the requested date.
	ErrPolarDay = errors.New("sun does not set on this date")
	// ErrPolarNight means the Sun does not rise on the requested date.
	ErrPolarNight = errors.New("sun does not rise on this date")
)

// Observer is a point on the Earth. Longitude is east positive, altitude in
// metres above sea level.
type Observer struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
	TimeZone  *time.Location
}

func (o Observer) zone() *time.Location {
	if o.TimeZone == nil {
		return time.UTC
	}
	return o.TimeZone
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// sunGeometry returns the Sun's apparent declination in degrees and the
// equation of time in minutes at Julian day jd.
func sunGeometry(jd float64) (declination, eqTimeMin float64) {
	T := (jd - 2451545.0) / 36525.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	Ω := 125.04 - 1934.136*T
	λ := L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(Ω))
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	eps := eps0 + 0.00256*math.Cos(degToRad(Ω))
	δ := math.Asin(math.Sin(degToRad(eps)) * math.Sin(degToRad(λ)))

	y := math.Tan(degToRad(eps)/2) * math.Tan(degToRad(eps)/2)
	eqTimeMin = radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	return radToDeg(δ), eqTimeMin
}

// horizonAltitude is the geometric altitude of the Sun's centre at apparent
// sunrise: refraction plus semi-diameter, lowered by the dip of the horizon
// seen from altitude metres.
func horizonAltitude(altitude float64) float64 {
	h0 := -0.833
	if altitude > 0 {
		h0 -= 2.076 * math.Sqrt(altitude) / 60
	}
	return h0
}

// solarNoonNear returns the instant of local apparent noon closest to t.
func solarNoonNear(t time.Time, longitude float64) time.Time {
	_, eqTime := sunGeometry(julian.TimeToJD(t))
	u := t.UTC()
	minutesOfDay := float64(u.Hour()*60+u.Minute()) + float64(u.Second())/60
	target := 720 - 4*longitude - eqTime

	delta := math.Mod(target-minutesOfDay, 1440)
	if delta > 720 {
		delta -= 1440
	} else if delta <= -720 {
		delta += 1440
	}
	return t.Add(time.Duration(delta * float64(time.Minute)))
}

// hourAngle returns the half-day arc in degrees for the Sun at t.
func hourAngle(t time.Time, obs Observer) (float64, error) {
	decl, _ := sunGeometry(julian.TimeToJD(t))
	lat := degToRad(obs.Latitude)
	d := degToRad(decl)

	cosH := (math.Sin(degToRad(horizonAltitude(obs.Altitude))) - math.Sin(lat)*math.Sin(d)) /
		(math.Cos(lat) * math.Cos(d))

	if cosH < -1.0 {
		return 0, ErrPolarDay
	}
	if cosH > 1.0 {
		return 0, ErrPolarNight
	}
	return radToDeg(math.Acos(cosH)), nil
}

// SunEvents returns sunrise and sunset for the civil date of date in the
// observer's time zone. Polar day and polar night are reported as
// ErrPolarDay and ErrPolarNight.
func SunEvents(date time.Time, obs Observer) (sunrise, sunset time.Time, err error) {
	noon := solarNoonNear(LocalNoon(date, obs.zone()), obs.Longitude)

	sunrise, err = refine(noon, obs, -1)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	sunset, err = refine(noon, obs, 1)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return sunrise, sunset, nil
}

// refine iterates the hour angle at the event itself, since the declination
// and equation of time drift over half a day.
func refine(noon time.Time, obs Observer, sign float64) (time.Time, error) {
	event := noon
	for i := 0; i < 3; i++ {
		H, err := hourAngle(event, obs)
		if err != nil {
			return time.Time{}, err
		}
		localNoon := solarNoonNear(event, obs.Longitude)
		event = localNoon.Add(time.Duration(sign * H * 4 * float64(time.Minute)))
	}
	return event.Truncate(time.Second), nil
}

// LocalMidnight returns 00:00 of date's civil day in loc.
func LocalMidnight(date time.Time, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// LocalNoon returns 12:00 of date's civil day in loc.
func LocalNoon(date time.Time, loc *time.Location) time.Time {
	return LocalMidnight(date, loc).Add(12 * time.Hour)
}

// Reference returns the requested reference instant for the civil date.
func Reference(date time.Time, obs Observer, kind ReferenceKind) (time.Time, error) {
	switch kind {
	case Midnight:
		return LocalMidnight(date, obs.zone()), nil
	case Noon:
		return LocalNoon(date, obs.zone()), nil
	case Sunrise, Sunset:
		rise, set, err := SunEvents(date, obs)
		if err != nil {
			return time.Time{}, err
		}
		if kind == Sunrise {
			return rise, nil
		}
		return set, nil
	}
	return time.Time{}, fmt.Errorf("unknown reference %q", kind)
}

// FormatSunTime formats an instant as a wall-clock time in loc. The zero
// time formats as an empty string.
func FormatSunTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("3:04 PM")
}
