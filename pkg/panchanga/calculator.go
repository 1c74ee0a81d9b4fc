// Package panchanga derives the five elements of the lunisolar calendar
// (tithi, vara, nakshatra, yoga, karana) from the sidereal longitudes of
// the Sun and Moon, together with the window in which each element is in
// force and the share of that window still to run.
package panchanga

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/panchanga/pkg/angle"
	"github.com/chrissnell/panchanga/pkg/boundary"
	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/solar"
)

// Resolver turns a civil date and place into the instant a snapshot is
// cast for.
type Resolver interface {
	Reference(date time.Time, loc Location, kind solar.ReferenceKind) (time.Time, error)
}

// SolarResolver resolves reference instants with pkg/solar.
type SolarResolver struct{}

// Reference implements Resolver.
func (SolarResolver) Reference(date time.Time, loc Location, kind solar.ReferenceKind) (time.Time, error) {
	zone, err := loc.Zone()
	if err != nil {
		return time.Time{}, err
	}
	obs := solar.Observer{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Altitude:  loc.Altitude,
		TimeZone:  zone,
	}
	return solar.Reference(date, obs, kind)
}

// Options configures a Calculator.
type Options struct {
	// Scheme is the nakshatra count, 27 or 28. Zero means 27.
	Scheme int
	// Reference is used when a Request does not name one. Empty means sunrise.
	Reference solar.ReferenceKind
	// Resolver defaults to SolarResolver.
	Resolver Resolver
	Logger   *zap.SugaredLogger
}

// Calculator computes snapshots. It is safe for concurrent use as long as
// its oracle is.
type Calculator struct {
	oracle    ephemeris.Oracle
	locator   *boundary.Locator
	resolver  Resolver
	scheme    int
	reference solar.ReferenceKind
	logger    *zap.SugaredLogger
}

// NewCalculator creates a Calculator. A nil locator uses
// boundary.DefaultSettings.
func NewCalculator(oracle ephemeris.Oracle, locator *boundary.Locator, opts Options) (*Calculator, error) {
	if oracle == nil {
		return nil, errors.New("panchanga: nil oracle")
	}

	c := &Calculator{
		oracle:    oracle,
		locator:   locator,
		resolver:  opts.Resolver,
		scheme:    opts.Scheme,
		reference: opts.Reference,
		logger:    opts.Logger,
	}
	if c.logger == nil {
		c.logger = zap.NewNop().Sugar()
	}
	if c.scheme == 0 {
		c.scheme = 27
	}
	if c.scheme != 27 && c.scheme != 28 {
		return nil, &InputError{Field: "scheme", Value: c.scheme, Reason: "must be 27 or 28"}
	}
	if c.reference == "" {
		c.reference = solar.Sunrise
	}
	if _, err := solar.ParseReference(string(c.reference)); err != nil {
		return nil, &InputError{Field: "reference", Value: c.reference, Reason: err.Error()}
	}
	if c.resolver == nil {
		c.resolver = SolarResolver{}
	}
	if c.locator == nil {
		l, err := boundary.NewLocator(boundary.DefaultSettings(), c.logger)
		if err != nil {
			return nil, err
		}
		c.locator = l
	}
	return c, nil
}

// Scheme returns the nakshatra scheme size.
func (c *Calculator) Scheme() int {
	return c.scheme
}

// Snapshot computes the panchanga for the request's civil date, cast at the
// requested reference instant. When the Sun does not rise or set at the
// location on that date, 06:00 (sunrise) or 18:00 (sunset) local time is
// used instead and ReferenceFallback is set.
func (c *Calculator) Snapshot(req Request) (*Snapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	zone, err := req.Location.Zone()
	if err != nil {
		return nil, err
	}

	kind := req.Reference
	if kind == "" {
		kind = c.reference
	}

	fallback := false
	at, err := c.resolver.Reference(req.Date, req.Location, kind)
	switch {
	case errors.Is(err, solar.ErrPolarDay), errors.Is(err, solar.ErrPolarNight):
		hour := 6
		if kind == solar.Sunset {
			hour = 18
		}
		at = solar.LocalMidnight(req.Date, zone).Add(time.Duration(hour) * time.Hour)
		fallback = true
		c.logger.Warnw("reference instant undefined, using civil clock time",
			"location", req.Location.Name,
			"date", req.Date.In(zone).Format(time.DateOnly),
			"reference", kind,
			"reason", err,
			"fallback", at)
	case err != nil:
		return nil, fmt.Errorf("resolving %s: %w", kind, err)
	}

	s, err := c.compute(at, req.Location, zone, req.Bodies)
	if err != nil {
		return nil, err
	}
	s.Reference = kind
	s.ReferenceFallback = fallback
	return s, nil
}

// At computes the panchanga at an arbitrary instant.
func (c *Calculator) At(instant time.Time, loc Location, bodies ...ephemeris.Body) (*Snapshot, error) {
	if instant.IsZero() {
		return nil, &InputError{Field: "date", Value: instant, Reason: "is required"}
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	for _, b := range bodies {
		if !b.Valid() {
			return nil, &InputError{Field: "bodies", Value: b, Reason: "unknown body"}
		}
	}
	zone, err := loc.Zone()
	if err != nil {
		return nil, err
	}
	return c.compute(instant, loc, zone, bodies)
}

func (c *Calculator) compute(at time.Time, loc Location, zone *time.Location, bodies []ephemeris.Body) (*Snapshot, error) {
	sun, moon, err := c.luminaries(at)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{At: at.In(zone), Location: loc}

	tithi, err := c.tithi(sun.Longitude, moon.Longitude, at)
	if err != nil {
		return nil, err
	}
	s.Tithi = tithi

	nak, err := c.nakshatra(moon.Longitude, at)
	if err != nil {
		return nil, err
	}
	s.Nakshatra = nak

	yoga := c.measure(KindYoga)
	yogaIdx, _ := yoga.position(sun.Longitude, moon.Longitude)
	s.Yoga, err = c.element(yoga, yogaIdx, yogaNames[yogaIdx], at)
	if err != nil {
		return nil, err
	}

	karana, err := c.karana(sun.Longitude, moon.Longitude, at)
	if err != nil {
		return nil, err
	}
	s.Karana = karana

	s.Vara = vara(at, zone)

	s.Positions, err = c.positions(at, sun, moon, bodies)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Calculator) tithi(sun, moon float64, at time.Time) (Tithi, error) {
	m := c.measure(KindTithi)
	idx, _ := m.position(sun, moon)
	e, err := c.element(m, idx, tithiNames[idx], at)
	if err != nil {
		return Tithi{}, err
	}

	t := Tithi{Element: e, Paksha: Shukla, Day: e.Index, Group: GroupOf(e.Index)}
	if e.Index > 15 {
		t.Paksha = Krishna
		t.Day = e.Index - 15
	}
	return t, nil
}

func (c *Calculator) nakshatra(moon float64, at time.Time) (Nakshatra, error) {
	m := c.measure(KindNakshatra)
	idx, rem := m.position(0, moon)
	e, err := c.element(m, idx, NakshatraName(idx+1, c.scheme), at)
	if err != nil {
		return Nakshatra{}, err
	}
	pada, _ := angle.Segment(rem, m.span/4, 4)
	return Nakshatra{Element: e, Pada: pada + 1, Scheme: c.scheme}, nil
}

func (c *Calculator) karana(sun, moon float64, at time.Time) (Karana, error) {
	m := c.measure(KindKarana)
	idx, _ := m.position(sun, moon)
	name, fixed, err := KaranaName(idx + 1)
	if err != nil {
		return Karana{}, fmt.Errorf("karana %d: %w", idx+1, err)
	}
	e, err := c.element(m, idx, name, at)
	if err != nil {
		return Karana{}, err
	}
	return Karana{Element: e, Fixed: fixed}, nil
}

// vara is the weekday of the local civil date; its window is that civil day.
func vara(at time.Time, zone *time.Location) Vara {
	local := at.In(zone)
	start := solar.LocalMidnight(local, zone)
	end := start.AddDate(0, 0, 1)
	d := local.Weekday()
	w := boundary.Window{Start: start, End: end}
	return Vara{
		Element:  newElement(KindVara, int(d)+1, d.String(), w, at),
		Weekday:  d,
		Sanskrit: VaraSanskrit(d),
	}
}

func (c *Calculator) positions(at time.Time, sun, moon ephemeris.Sample, bodies []ephemeris.Body) ([]Position, error) {
	out := []Position{c.position(sun), c.position(moon)}
	seen := map[ephemeris.Body]bool{ephemeris.Sun: true, ephemeris.Moon: true}
	for _, b := range bodies {
		if seen[b] {
			continue
		}
		seen[b] = true
		smp, err := c.sample(at, b)
		if err != nil {
			return nil, err
		}
		out = append(out, c.position(smp))
	}
	return out, nil
}

func (c *Calculator) position(s ephemeris.Sample) Position {
	span := angle.NakshatraSpan(c.scheme)
	rashi, deg := angle.Segment(s.Longitude, angle.RashiSpan, 12)
	nak, rem := angle.Segment(s.Longitude, span, c.scheme)
	pada, _ := angle.Segment(rem, span/4, 4)
	return Position{
		Body:          s.Body,
		Longitude:     s.Longitude,
		Velocity:      s.Velocity,
		Retrograde:    s.Retrograde,
		Rashi:         rashi + 1,
		RashiName:     RashiName(rashi + 1),
		RashiDegree:   deg,
		Nakshatra:     nak + 1,
		NakshatraName: NakshatraName(nak+1, c.scheme),
		Pada:          pada + 1,
	}
}

func (c *Calculator) sample(t time.Time, body ephemeris.Body) (ephemeris.Sample, error) {
	s, err := c.oracle.Sample(t, body)
	if err != nil {
		return ephemeris.Sample{}, &OracleError{Body: body, At: t, Err: err}
	}
	return s, nil
}

func (c *Calculator) luminaries(t time.Time) (sun, moon ephemeris.Sample, err error) {
	if sun, err = c.sample(t, ephemeris.Sun); err != nil {
		return
	}
	moon, err = c.sample(t, ephemeris.Moon)
	return
}
