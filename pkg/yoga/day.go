package yoga

import (
	"fmt"
	"time"

	"github.com/chrissnell/panchanga/pkg/angle"
	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/panchanga"
)

// Day is the data a rule is tested against. Nakshatra numbers are 1-based
// in the classic 27 scheme regardless of the scheme used for display.
type Day struct {
	Date          time.Time // local civil midnight
	Weekday       time.Weekday
	Tithi         int
	MoonNakshatra int
	SunNakshatra  int
}

// NewDay builds a Day from sidereal Sun and Moon longitudes.
func NewDay(date time.Time, sun, moon float64) Day {
	tithi, _ := angle.Segment(angle.Diff(moon, sun), angle.TithiSpan, 30)
	d := date.In(date.Location())
	return Day{
		Date:          time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()),
		Weekday:       d.Weekday(),
		Tithi:         tithi + 1,
		MoonNakshatra: classicNakshatra(moon),
		SunNakshatra:  classicNakshatra(sun),
	}
}

// DayFromSnapshot extracts the Day of a panchanga snapshot.
func DayFromSnapshot(s *panchanga.Snapshot) (Day, error) {
	sun, ok := s.Position(ephemeris.Sun)
	if !ok {
		return Day{}, fmt.Errorf("snapshot has no Sun position")
	}
	moon, ok := s.Position(ephemeris.Moon)
	if !ok {
		return Day{}, fmt.Errorf("snapshot has no Moon position")
	}
	return Day{
		Date:          s.Date(),
		Weekday:       s.Vara.Weekday,
		Tithi:         s.Tithi.Index,
		MoonNakshatra: classicNakshatra(moon.Longitude),
		SunNakshatra:  classicNakshatra(sun.Longitude),
	}, nil
}

func classicNakshatra(lon float64) int {
	i, _ := angle.Segment(lon, angle.NakshatraSpan(27), 27)
	return i + 1
}
