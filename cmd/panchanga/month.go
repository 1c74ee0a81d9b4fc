package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/chrissnell/panchanga/pkg/solar"
	"github.com/chrissnell/panchanga/pkg/yoga"
)

var monthOpts struct {
	place     placeFlags
	from      string
	to        string
	reference string
}

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Tabulate the panchanga for a range of days",
	Long: `Computes the panchanga and yogas for every civil day in a range, by default
the current month. Days are computed concurrently up to engine.concurrency.`,
	Example: `  panchanga month -l Ujjain --from 2024-04-01 --to 2024-04-30
  panchanga month -l Ujjain -o yaml > april.yaml`,
	RunE: runMonth,
}

func init() {
	f := monthCmd.Flags()
	addPlaceFlags(monthCmd, &monthOpts.place)
	f.StringVar(&monthOpts.from, "from", "", "first date YYYY-MM-DD (default first of this month)")
	f.StringVar(&monthOpts.to, "to", "", "last date YYYY-MM-DD (default end of the --from month)")
	f.StringVarP(&monthOpts.reference, "reference", "r", "", "sunrise, sunset, noon or midnight (default from config)")
	rootCmd.AddCommand(monthCmd)
}

func runMonth(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	loc, err := monthOpts.place.resolve(cmd, a)
	if err != nil {
		return err
	}
	zone := zoneOf(loc)

	from, err := parseDate(monthOpts.from, zone)
	if err != nil {
		return err
	}
	if monthOpts.from == "" {
		from = from.AddDate(0, 0, 1-from.Day())
	}
	to := from.AddDate(0, 1, -1)
	if monthOpts.to != "" {
		if to, err = parseDate(monthOpts.to, zone); err != nil {
			return err
		}
	}

	ref := solar.ReferenceKind(a.Config().Engine.Reference)
	if monthOpts.reference != "" {
		if ref, err = solar.ParseReference(monthOpts.reference); err != nil {
			return err
		}
	}

	days, err := a.Month(cmd.Context(), from, to, loc, ref)
	if err != nil {
		return err
	}

	return output(cmd, days, func(w io.Writer) error {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Date", "Vara", "Tithi", "Nakshatra", "Yoga", "Karana", "Yogas")
		for _, d := range days {
			s := d.Snapshot
			t.Row(
				d.Date,
				s.Vara.Name[:3],
				s.Tithi.Display()+" "+s.Tithi.Name,
				s.Nakshatra.Name,
				s.Yoga.Name,
				s.Karana.Name,
				yogaNames(d.Yogas),
			)
		}
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s  %s to %s  (%s)", loc.Name, civil(from, zone), civil(to, zone), ref)))
		fmt.Fprintln(w, t.Render())
		return nil
	})
}

func yogaNames(matches []yoga.Match) string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, matchStyle(m).Render(m.Name))
	}
	return strings.Join(names, ", ")
}
