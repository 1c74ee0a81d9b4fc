package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chrissnell/panchanga/pkg/panchanga"
	"github.com/chrissnell/panchanga/pkg/yoga"
)

var yogasOpts struct {
	place    placeFlags
	date     string
	polarity string
}

var yogasCmd = &cobra.Command{
	Use:   "yogas",
	Short: "List the yogas in force on a date",
	RunE:  runYogas,
}

func init() {
	addPlaceFlags(yogasCmd, &yogasOpts.place)
	yogasCmd.Flags().StringVarP(&yogasOpts.date, "date", "d", "", "civil date YYYY-MM-DD (default today)")
	yogasCmd.Flags().StringVar(&yogasOpts.polarity, "polarity", "", "only 'positive' or 'negative' yogas")
	rootCmd.AddCommand(yogasCmd)
}

func runYogas(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	loc, err := yogasOpts.place.resolve(cmd, a)
	if err != nil {
		return err
	}
	date, err := parseDate(yogasOpts.date, zoneOf(loc))
	if err != nil {
		return err
	}

	r, err := a.Day(panchanga.Request{Date: date, Location: loc})
	if err != nil {
		return err
	}

	matches := r.Yogas
	positive, negative := yoga.Split(matches)
	switch yoga.Polarity(yogasOpts.polarity) {
	case "":
	case yoga.Positive:
		matches = positive
	case yoga.Negative:
		matches = negative
	default:
		return fmt.Errorf("unknown polarity %q (want positive or negative)", yogasOpts.polarity)
	}
	if matches == nil {
		matches = []yoga.Match{}
	}

	return output(cmd, matches, func(w io.Writer) error {
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s  %s  %s, %s %s, %s",
			loc.Name, r.Date, r.Snapshot.Vara.Name, r.Snapshot.Tithi.Display(), r.Snapshot.Tithi.Name, r.Snapshot.Nakshatra.Name)))
		writeMatches(w, matches)
		return nil
	})
}
