package app

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/panchanga/pkg/angle"
	"github.com/chrissnell/panchanga/pkg/chesta"
	"github.com/chrissnell/panchanga/pkg/config"
	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/navatara"
	"github.com/chrissnell/panchanga/pkg/panchanga"
	"github.com/chrissnell/panchanga/pkg/solar"
)

var delhi = panchanga.Location{
	Name:      "New Delhi",
	Latitude:  28.6139,
	Longitude: 77.2090,
	Altitude:  216,
	TimeZone:  "Asia/Kolkata",
}

func newApp(t *testing.T, mutate func(*config.ConfigData), opts ...Option) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Locations = []config.LocationData{{
		Name: delhi.Name, Latitude: delhi.Latitude, Longitude: delhi.Longitude,
		Altitude: delhi.Altitude, TimeZone: delhi.TimeZone,
	}}
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, config.Finalize(cfg))
	a, err := New(cfg, nil, opts...)
	require.NoError(t, err)
	return a
}

func date(y int, m time.Month, d int) time.Time {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func TestNewFromConfig(t *testing.T) {
	a := newApp(t, nil)
	assert.Equal(t, 27, a.Calculator().Scheme())
	assert.Equal(t, 17, a.Engine().Catalogue().Len())

	l, err := a.Location("new delhi")
	require.NoError(t, err)
	assert.Equal(t, delhi, l)
	_, err = a.Location("Lhasa")
	assert.Error(t, err)

	a = newApp(t, func(c *config.ConfigData) {
		c.Engine.Ephemeris = "lowprec"
		c.Engine.NakshatraScheme = 28
	})
	assert.Equal(t, 28, a.Calculator().Scheme())
}

func TestNewErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Ayanamsa = "galactic"
	_, err := New(cfg, nil)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Rules = config.RulesData{Source: "yaml", Path: "/nonexistent/yogas.yaml"}
	_, err = New(cfg, nil)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Engine.Boundary.StepMinutes = 0
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func TestDay(t *testing.T) {
	a := newApp(t, nil)

	r, err := a.Day(panchanga.Request{Date: date(2024, 1, 1), Location: delhi})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", r.Date)
	assert.Equal(t, time.Monday, r.Snapshot.Vara.Weekday)
	assert.Equal(t, solar.Sunrise, r.Snapshot.Reference)
	assert.NotEmpty(t, r.Sunrise)
	assert.NotEmpty(t, r.Sunset)
	assert.Empty(t, r.PolarNote)
	for _, m := range r.Yogas {
		assert.Equal(t, "2024-01-01", m.Day)
	}
}

func TestMonth(t *testing.T) {
	a := newApp(t, nil)

	days, err := a.Month(context.Background(), date(2024, 2, 1), date(2024, 2, 29), delhi, solar.Sunrise)
	require.NoError(t, err)
	require.Len(t, days, 29)

	for i, d := range days {
		want := date(2024, 2, 1).AddDate(0, 0, i)
		assert.Equal(t, want.Format(time.DateOnly), d.Date)
		assert.Equal(t, want.Weekday(), d.Snapshot.Vara.Weekday)
	}

	// Every tithi appears at most twice and no more than one is skipped
	// between consecutive sunrises.
	for i := 1; i < len(days); i++ {
		prev, cur := days[i-1].Snapshot.Tithi.Index, days[i].Snapshot.Tithi.Index
		step := (cur - prev + 30) % 30
		assert.LessOrEqual(t, step, 2, "day %d", i)
	}
}

func TestMonthDeterministicAcrossConcurrency(t *testing.T) {
	serial := newApp(t, func(c *config.ConfigData) { c.Engine.Concurrency = 1 })
	wide := newApp(t, func(c *config.ConfigData) { c.Engine.Concurrency = 16 })

	from, to := date(2024, 3, 1), date(2024, 3, 10)
	a, err := serial.Month(context.Background(), from, to, delhi, solar.Sunrise)
	require.NoError(t, err)
	b, err := wide.Month(context.Background(), from, to, delhi, solar.Sunrise)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMonthErrors(t *testing.T) {
	a := newApp(t, nil)
	ctx := context.Background()

	_, err := a.Month(ctx, date(2024, 3, 10), date(2024, 3, 1), delhi, solar.Sunrise)
	var in *panchanga.InputError
	require.True(t, errors.As(err, &in))

	_, err = a.Month(ctx, date(2024, 1, 1), date(2025, 6, 1), delhi, solar.Sunrise)
	require.True(t, errors.As(err, &in))

	failing := newApp(t, nil, WithOracle(brokenOracle{}))
	_, err = failing.Month(ctx, date(2024, 3, 1), date(2024, 3, 3), delhi, solar.Sunrise)
	assert.ErrorIs(t, err, ephemeris.ErrOutOfRange)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = a.Month(cancelled, date(2024, 3, 1), date(2024, 3, 3), delhi, solar.Sunrise)
	assert.ErrorIs(t, err, context.Canceled)
}

type brokenOracle struct{}

func (brokenOracle) Sample(time.Time, ephemeris.Body) (ephemeris.Sample, error) {
	return ephemeris.Sample{}, ephemeris.ErrOutOfRange
}

func TestChesta(t *testing.T) {
	a := newApp(t, nil)

	r, err := a.Chesta(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, r.States, len(ephemeris.Bodies))

	byBody := make(map[ephemeris.Body]chesta.State)
	for _, s := range r.States {
		byBody[s.Body] = s
	}
	assert.False(t, byBody[ephemeris.Sun].Retrograde)
	assert.Equal(t, chesta.Sama, byBody[ephemeris.Sun].Name)
	assert.Equal(t, chesta.Vakra, byBody[ephemeris.Rahu].Name)
	assert.Contains(t, r.Summary.Retrograde, ephemeris.Rahu)
	assert.NotContains(t, r.Summary.Retrograde, ephemeris.Moon)

	r, err = a.Chesta(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ephemeris.Moon)
	require.NoError(t, err)
	assert.Len(t, r.States, 1)
}

func TestChestaSeries(t *testing.T) {
	a := newApp(t, nil)

	reports, err := a.ChestaSeries(context.Background(), time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 60,
		ephemeris.Sun, ephemeris.Mercury)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	sun, mercury := reports[0], reports[1]
	assert.Equal(t, ephemeris.Sun, sun.Body)
	assert.Len(t, sun.States, 60)
	assert.Empty(t, sun.Transitions)

	var retro int
	for _, s := range mercury.States {
		if s.Retrograde {
			retro++
		}
	}
	assert.Greater(t, retro, 10, "Mercury retrogrades in April 2024")
	assert.NotEmpty(t, mercury.Transitions)
	assert.Empty(t, sun.Stations)
	require.Len(t, mercury.Stations, 2)
	assert.Equal(t, chesta.StationRetrograde, mercury.Stations[0].Kind)
	assert.WithinDuration(t, time.Date(2024, 4, 1, 22, 14, 0, 0, time.UTC), mercury.Stations[0].At, time.Hour)
	assert.Equal(t, chesta.StationDirect, mercury.Stations[1].Kind)
	assert.WithinDuration(t, time.Date(2024, 4, 25, 12, 54, 0, 0, time.UTC), mercury.Stations[1].At, time.Hour)
	for i := 1; i < len(mercury.Transitions); i++ {
		assert.True(t, mercury.Transitions[i-1].At.Before(mercury.Transitions[i].At))
	}

	_, err = a.ChestaSeries(context.Background(), time.Now(), 0)
	assert.Error(t, err)
}

func TestNavatara(t *testing.T) {
	a := newApp(t, nil)

	r, cycle, err := a.Navatara(time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC), "Moon", panchanga.Location{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Moon", r.From)
	assert.Equal(t, 27, r.Scheme)
	assert.Equal(t, 1, r.Start.Position)
	assert.Equal(t, "Janma", r.Start.Tara.Name)
	require.Len(t, r.Mapping, 27)
	assert.Equal(t, r.Start, r.Mapping[0])
	assert.Equal(t, cycle.Start(), r.Start.Nakshatra)

	r, _, err = a.Navatara(time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC), "sun", panchanga.Location{}, 28)
	require.NoError(t, err)
	assert.Len(t, r.Mapping, 28)

	_, _, err = a.Navatara(time.Now(), "Moon", panchanga.Location{}, 12)
	assert.Error(t, err)
}

func TestNavataraFromLagna(t *testing.T) {
	a := newApp(t, nil)

	zone, err := time.LoadLocation(delhi.TimeZone)
	require.NoError(t, err)
	sunrise, _, err := solar.SunEvents(time.Date(2024, 4, 17, 0, 0, 0, 0, zone), solar.Observer{
		Latitude: delhi.Latitude, Longitude: delhi.Longitude, Altitude: delhi.Altitude, TimeZone: zone,
	})
	require.NoError(t, err)

	r, cycle, err := a.Navatara(sunrise, "lagna", delhi, 0)
	require.NoError(t, err)
	assert.Equal(t, navatara.Lagna, r.From)
	assert.Equal(t, delhi.Name, r.Location)
	assert.Equal(t, cycle.Start(), r.Start.Nakshatra)

	// At sunrise the Sun sits on the eastern horizon, so the lagna is close
	// to the Sun's longitude.
	sun, err := a.oracle.Sample(sunrise, ephemeris.Sun)
	require.NoError(t, err)
	assert.InDelta(t, 0, angle.SignedDiff(r.Longitude, sun.Longitude), 3)

	// Six hours later a quarter of the zodiac has risen.
	later, _, err := a.Navatara(sunrise.Add(6*time.Hour), "Lagna", delhi, 0)
	require.NoError(t, err)
	assert.Greater(t, angle.Diff(later.Longitude, r.Longitude), 60.0)

	var inputErr *panchanga.InputError
	_, _, err = a.Navatara(sunrise, "lagna", panchanga.Location{}, 0)
	require.ErrorAs(t, err, &inputErr)

	pole := delhi
	pole.Latitude = 90
	_, _, err = a.Navatara(sunrise, "lagna", pole, 0)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "latitude", inputErr.Field)

	var oracleErr *panchanga.OracleError
	_, _, err = a.Navatara(time.Date(5000, 1, 1, 0, 0, 0, 0, time.UTC), "lagna", delhi, 0)
	require.ErrorAs(t, err, &oracleErr)
	assert.ErrorIs(t, err, ephemeris.ErrOutOfRange)
}

func TestMotionErrorsAreTyped(t *testing.T) {
	a := newApp(t, nil)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	far := time.Date(5000, 1, 1, 0, 0, 0, 0, time.UTC)

	var inputErr *panchanga.InputError
	_, err := a.Chesta(at, ephemeris.Mars, ephemeris.Body("Pluto"))
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "bodies", inputErr.Field)
	assert.Equal(t, ephemeris.Body("Pluto"), inputErr.Value)

	_, err = a.ChestaSeries(context.Background(), at, 10, ephemeris.Body("Pluto"))
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "bodies", inputErr.Field)

	_, err = a.ChestaSeries(context.Background(), at, 0)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "days", inputErr.Field)

	_, _, err = a.Navatara(at, "Pluto", panchanga.Location{}, 0)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "from", inputErr.Field)

	var oracleErr *panchanga.OracleError
	_, err = a.Chesta(far, ephemeris.Mars)
	require.ErrorAs(t, err, &oracleErr)
	assert.Equal(t, ephemeris.Mars, oracleErr.Body)
	assert.ErrorIs(t, err, ephemeris.ErrOutOfRange)

	_, _, err = a.Navatara(far, "Moon", panchanga.Location{}, 0)
	require.ErrorAs(t, err, &oracleErr)
	assert.Equal(t, ephemeris.Moon, oracleErr.Body)

	_, err = a.Calculator().At(far, delhi)
	require.ErrorAs(t, err, &oracleErr)

	broken := newApp(t, nil, WithOracle(brokenOracle{}))
	_, err = broken.ChestaSeries(context.Background(), at, 5, ephemeris.Saturn)
	require.ErrorAs(t, err, &oracleErr)
	assert.Equal(t, ephemeris.Saturn, oracleErr.Body)
}
