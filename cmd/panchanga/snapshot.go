package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrissnell/panchanga/internal/app"
	"github.com/chrissnell/panchanga/pkg/panchanga"
	"github.com/chrissnell/panchanga/pkg/solar"
)

var snapshotOpts struct {
	place     placeFlags
	date      string
	at        string
	reference string
	bodies    []string
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show the panchanga for a date and place",
	Long: `Computes tithi, vara, nakshatra, yoga and karana for a civil date, cast at
sunrise by default, together with the yogas in force that day.

With --at the panchanga is computed at that exact instant instead.`,
	Example: `  panchanga snapshot --location Ujjain --date 2024-04-17
  panchanga snapshot --lat 28.61 --lon 77.21 --tz Asia/Kolkata --reference sunset
  panchanga snapshot -l Ujjain --at "2024-04-17 14:30" --bodies mars,saturn -o json`,
	RunE: runSnapshot,
}

func init() {
	f := snapshotCmd.Flags()
	addPlaceFlags(snapshotCmd, &snapshotOpts.place)
	f.StringVarP(&snapshotOpts.date, "date", "d", "", "civil date YYYY-MM-DD (default today)")
	f.StringVar(&snapshotOpts.at, "at", "", "compute at this instant instead of a reference time")
	f.StringVarP(&snapshotOpts.reference, "reference", "r", "", "sunrise, sunset, noon or midnight (default from config)")
	f.StringSliceVarP(&snapshotOpts.bodies, "bodies", "b", nil, "extra bodies to place, e.g. mars,jupiter")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	loc, err := snapshotOpts.place.resolve(cmd, a)
	if err != nil {
		return err
	}
	bodies, err := parseBodies(snapshotOpts.bodies)
	if err != nil {
		return err
	}
	zone := zoneOf(loc)

	if snapshotOpts.at != "" {
		instant, err := parseInstant(snapshotOpts.at, zone)
		if err != nil {
			return err
		}
		s, err := a.Calculator().At(instant, loc, bodies...)
		if err != nil {
			return err
		}
		return output(cmd, s, func(w io.Writer) error {
			writeSnapshot(w, s)
			return nil
		})
	}

	date, err := parseDate(snapshotOpts.date, zone)
	if err != nil {
		return err
	}
	req := panchanga.Request{Date: date, Location: loc, Bodies: bodies}
	if snapshotOpts.reference != "" {
		if req.Reference, err = solar.ParseReference(snapshotOpts.reference); err != nil {
			return err
		}
	}

	r, err := a.Day(req)
	if err != nil {
		return err
	}
	return output(cmd, r, func(w io.Writer) error {
		writeDay(w, r)
		return nil
	})
}

func writeDay(w io.Writer, r *app.DayReport) {
	writeSnapshot(w, r.Snapshot)
	if r.Sunrise != "" {
		line(w, "Sun", fmt.Sprintf("rises %s, sets %s", r.Sunrise, r.Sunset))
	} else if r.PolarNote != "" {
		line(w, "Sun", noteStyle.Render(r.PolarNote))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Yogas"))
	writeMatches(w, r.Yogas)
}

func writeSnapshot(w io.Writer, s *panchanga.Snapshot) {
	zone := zoneOf(s.Location)

	title := fmt.Sprintf("%s  %s", s.Location.Name, s.At.In(zone).Format("Mon 2 Jan 2006 15:04 MST"))
	if s.Reference != "" {
		title += fmt.Sprintf("  (%s)", s.Reference)
	}
	fmt.Fprintln(w, headingStyle.Render(title))
	if s.ReferenceFallback {
		fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf("the sun does not %s here on this date; civil clock time used", strings.TrimPrefix(string(s.Reference), "sun"))))
	}

	line(w, "Vara", fmt.Sprintf("%s (%s)", s.Vara.Name, s.Vara.Sanskrit))
	line(w, "Tithi", fmt.Sprintf("%s %s, %s paksha  %s", s.Tithi.Display(), s.Tithi.Name, s.Tithi.Paksha, window(s.Tithi.Element, zone)))
	line(w, "Nakshatra", fmt.Sprintf("%s pada %d  %s", s.Nakshatra.Name, s.Nakshatra.Pada, window(s.Nakshatra.Element, zone)))
	line(w, "Yoga", fmt.Sprintf("%s  %s", s.Yoga.Name, window(s.Yoga, zone)))
	line(w, "Karana", fmt.Sprintf("%s  %s", s.Karana.Name, window(s.Karana.Element, zone)))

	fmt.Fprintln(w)
	for _, p := range s.Positions {
		retro := ""
		if p.Retrograde {
			retro = " R"
		}
		line(w, string(p.Body), fmt.Sprintf("%7.3f°  %s %5.2f°  %s %d%s",
			p.Longitude, p.RashiName, p.RashiDegree, p.NakshatraName, p.Pada, retro))
	}
}

// civil returns a date string in the snapshot's zone.
func civil(t time.Time, zone *time.Location) string {
	return t.In(zone).Format(time.DateOnly)
}
