package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/chrissnell/panchanga/internal/app"
	"github.com/chrissnell/panchanga/pkg/navatara"
	"github.com/chrissnell/panchanga/pkg/panchanga"
)

var navataraOpts struct {
	at        string
	place     placeFlags
	body      string
	start     string
	scheme    int
	nakshatra string
}

var navataraCmd = &cobra.Command{
	Use:   "navatara",
	Short: "Build a navatara chakra",
	Long: `Counts the nakshatras in groups of nine from a start nakshatra, by default the
one the Moon occupies at --at (a birth time), and labels each with its tara.

--body lagna counts from the ascendant at the chosen location instead; --at is
then read in the location's time zone. --start names the start nakshatra directly. --nakshatra reports a single
nakshatra's tara instead of the whole chakra.`,
	Example: `  panchanga navatara --at "1990-05-14 06:30" --tz Asia/Kolkata
  panchanga navatara --start Rohini --nakshatra Hasta
  panchanga navatara --body sun --scheme 28
  panchanga navatara --body lagna --at "1990-05-14 06:30" --location "New Delhi"`,
	RunE: runNavatara,
}

func init() {
	f := navataraCmd.Flags()
	f.StringVar(&navataraOpts.at, "at", "", "instant the start body is sampled at (default now)")
	addPlaceFlags(navataraCmd, &navataraOpts.place)
	f.StringVar(&navataraOpts.body, "body", "Moon", "body whose nakshatra starts the count, or lagna")
	f.StringVar(&navataraOpts.start, "start", "", "start nakshatra by name, instead of sampling a body")
	f.IntVar(&navataraOpts.scheme, "scheme", 0, "27 or 28 (default from config)")
	f.StringVar(&navataraOpts.nakshatra, "nakshatra", "", "report only this nakshatra")
	rootCmd.AddCommand(navataraCmd)
}

func runNavatara(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	scheme := navataraOpts.scheme
	if scheme == 0 {
		scheme = a.Calculator().Scheme()
	}

	var cycle *navatara.Cycle
	var data any
	if navataraOpts.start != "" {
		idx := panchanga.NakshatraIndex(navataraOpts.start, scheme) - 1
		if idx < 0 {
			return fmt.Errorf("unknown nakshatra %q for scheme %d", navataraOpts.start, scheme)
		}
		if cycle, err = navatara.NewCycle(idx, scheme); err != nil {
			return err
		}
		data = cycle.Mapping()
	} else {
		var loc panchanga.Location
		zone := time.UTC
		if strings.EqualFold(navataraOpts.body, navatara.Lagna) {
			if loc, err = navataraOpts.place.resolve(cmd, a); err != nil {
				return err
			}
			if zone, err = loc.Zone(); err != nil {
				return err
			}
		} else if navataraOpts.place.tz != "" {
			if zone, err = time.LoadLocation(navataraOpts.place.tz); err != nil {
				return fmt.Errorf("invalid time zone: %w", err)
			}
		}
		at, err := parseInstant(navataraOpts.at, zone)
		if err != nil {
			return err
		}
		var r *app.NavataraReport
		r, cycle, err = a.Navatara(at, navataraOpts.body, loc, scheme)
		if err != nil {
			return err
		}
		data = r
	}

	if navataraOpts.nakshatra != "" {
		e, err := cycle.ClassifyName(navataraOpts.nakshatra)
		if err != nil {
			return err
		}
		return output(cmd, e, func(w io.Writer) error {
			writeEntry(w, e)
			return nil
		})
	}

	return output(cmd, data, func(w io.Writer) error {
		start, _ := cycle.Classify(cycle.Start())
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Navatara from %s (%d nakshatras)", start.Name, cycle.Scheme())))
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "Nakshatra", "Tara", "Meaning", "Round", "Loka", "Deity")
		for _, e := range cycle.Mapping() {
			tara := e.Tara.Name
			switch e.Tara.Quality {
			case navatara.Favorable:
				tara = positiveStyle.Render(tara)
			case navatara.Unfavorable:
				tara = negativeStyle.Render(tara)
			}
			t.Row(fmt.Sprint(e.Position), e.Name, tara, e.Tara.Meaning, fmt.Sprint(e.Round), e.Loka, e.GroupDeity)
		}
		fmt.Fprintln(w, t.Render())
		return nil
	})
}

func writeEntry(w io.Writer, e navatara.Entry) {
	fmt.Fprintln(w, headingStyle.Render(e.Name))
	line(w, "tara", fmt.Sprintf("%s (%s, %s)", e.Tara.Name, e.Tara.Meaning, e.Tara.Quality))
	line(w, "position", fmt.Sprintf("%d, round %d", e.Position, e.Round))
	if e.Loka != "" {
		line(w, "loka", e.Loka)
		line(w, "deity", e.GroupDeity)
		line(w, "special", e.SpecialTara)
	}
}
