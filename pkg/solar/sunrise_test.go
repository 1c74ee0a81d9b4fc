package solar

import (
	"errors"
	"math"
	"testing"
	"time"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("time zone %s unavailable: %v", name, err)
	}
	return loc
}

func TestSunEvents(t *testing.T) {
	tests := []struct {
		name        string
		zone        string
		date        time.Time
		latitude    float64
		longitude   float64
		wantSunrise string // local wall clock, HH:MM
		wantSunset  string
	}{
		{
			name:        "London summer solstice",
			zone:        "Europe/London",
			date:        time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
			latitude:    51.5074,
			longitude:   -0.1278,
			wantSunrise: "04:43",
			wantSunset:  "21:21",
		},
		{
			name:        "Equator at equinox",
			zone:        "UTC",
			date:        time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			latitude:    0,
			longitude:   0,
			wantSunrise: "06:04",
			wantSunset:  "18:11",
		},
		{
			name:        "New Delhi new year",
			zone:        "Asia/Kolkata",
			date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			latitude:    28.6139,
			longitude:   77.2090,
			wantSunrise: "07:14",
			wantSunset:  "17:36",
		},
		{
			name:        "Seattle winter solstice",
			zone:        "America/Los_Angeles",
			date:        time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC),
			latitude:    47.6062,
			longitude:   -122.3321,
			wantSunrise: "07:55",
			wantSunset:  "16:20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := mustZone(t, tt.zone)
			obs := Observer{Latitude: tt.latitude, Longitude: tt.longitude, TimeZone: loc}

			sunrise, sunset, err := SunEvents(tt.date, obs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			checkClock(t, "sunrise", sunrise.In(loc), tt.wantSunrise)
			checkClock(t, "sunset", sunset.In(loc), tt.wantSunset)

			if !sunrise.Before(sunset) {
				t.Errorf("sunrise %v not before sunset %v", sunrise, sunset)
			}
		})
	}
}

func checkClock(t *testing.T, label string, got time.Time, want string) {
	t.Helper()
	w, err := time.Parse("15:04", want)
	if err != nil {
		t.Fatalf("bad expectation %q", want)
	}
	gotMin := got.Hour()*60 + got.Minute()
	wantMin := w.Hour()*60 + w.Minute()
	if math.Abs(float64(gotMin-wantMin)) > 4 {
		t.Errorf("%s = %s, want %s (±4 min)", label, got.Format("15:04"), want)
	}
}

func TestSunEventsPolar(t *testing.T) {
	obs := Observer{Latitude: 69.65, Longitude: 18.96, TimeZone: time.UTC}

	_, _, err := SunEvents(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), obs)
	if !errors.Is(err, ErrPolarDay) {
		t.Errorf("summer: got %v, want ErrPolarDay", err)
	}

	_, _, err = SunEvents(time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), obs)
	if !errors.Is(err, ErrPolarNight) {
		t.Errorf("winter: got %v, want ErrPolarNight", err)
	}
}

func TestAltitudeAdvancesSunrise(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ground := Observer{Latitude: 27.99, Longitude: 86.93, TimeZone: time.UTC}
	summit := ground
	summit.Altitude = 8848

	riseGround, setGround, err := SunEvents(date, ground)
	if err != nil {
		t.Fatal(err)
	}
	riseSummit, setSummit, err := SunEvents(date, summit)
	if err != nil {
		t.Fatal(err)
	}

	if !riseSummit.Before(riseGround) {
		t.Errorf("summit sunrise %v should precede ground sunrise %v", riseSummit, riseGround)
	}
	if !setSummit.After(setGround) {
		t.Errorf("summit sunset %v should follow ground sunset %v", setSummit, setGround)
	}
}

func TestSunEventsStayOnCivilDate(t *testing.T) {
	tests := []struct {
		zone      string
		longitude float64
	}{
		{"Pacific/Auckland", 174.76},
		{"Pacific/Pago_Pago", -170.70},
		{"Asia/Kolkata", 77.21},
		{"America/Denver", -104.99},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			loc := mustZone(t, tt.zone)
			date := time.Date(2024, 9, 10, 0, 0, 0, 0, loc)
			obs := Observer{Latitude: -10, Longitude: tt.longitude, TimeZone: loc}

			sunrise, sunset, err := SunEvents(date, obs)
			if err != nil {
				t.Fatal(err)
			}
			if d := sunrise.In(loc).Day(); d != 10 {
				t.Errorf("sunrise lands on day %d", d)
			}
			if d := sunset.In(loc).Day(); d != 10 {
				t.Errorf("sunset lands on day %d", d)
			}
		})
	}
}

func TestReference(t *testing.T) {
	loc := mustZone(t, "Asia/Kolkata")
	obs := Observer{Latitude: 28.6139, Longitude: 77.2090, TimeZone: loc}
	date := time.Date(2024, 1, 1, 15, 30, 0, 0, loc)

	midnight, err := Reference(date, obs, Midnight)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, loc); !midnight.Equal(want) {
		t.Errorf("midnight = %v, want %v", midnight, want)
	}

	noon, err := Reference(date, obs, Noon)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 1, 1, 12, 0, 0, 0, loc); !noon.Equal(want) {
		t.Errorf("noon = %v, want %v", noon, want)
	}

	rise, err := Reference(date, obs, Sunrise)
	if err != nil {
		t.Fatal(err)
	}
	set, err := Reference(date, obs, Sunset)
	if err != nil {
		t.Fatal(err)
	}
	if !rise.Before(noon) || !set.After(noon) {
		t.Errorf("expected sunrise %v < noon < sunset %v", rise, set)
	}

	if _, err := Reference(date, obs, ReferenceKind("dusk")); err == nil {
		t.Error("expected error for unknown reference")
	}
}

func TestParseReference(t *testing.T) {
	for _, name := range []string{"sunrise", "Sunset", " NOON ", "midnight"} {
		if _, err := ParseReference(name); err != nil {
			t.Errorf("ParseReference(%q): %v", name, err)
		}
	}
	if _, err := ParseReference("twilight"); err == nil {
		t.Error("expected error for twilight")
	}
}

func TestFormatSunTime(t *testing.T) {
	if got := FormatSunTime(time.Time{}, time.UTC); got != "" {
		t.Errorf("zero time formatted as %q", got)
	}
	ts := time.Date(2024, 1, 1, 13, 5, 0, 0, time.UTC)
	if got := FormatSunTime(ts, time.UTC); got != "1:05 PM" {
		t.Errorf("got %q", got)
	}
}
