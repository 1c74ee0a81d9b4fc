package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/chrissnell/panchanga/pkg/chesta"
)

var chestaOpts struct {
	at     string
	tz     string
	bodies []string
	days   int
}

var chestaCmd = &cobra.Command{
	Use:   "chesta",
	Short: "Classify planetary motion states",
	Long: `Classifies each body's daily motion against its mean motion into a chesta
state (vakra, anuvakra, vikala, kutilaka, mandatara, manda, sama, chara,
atichara) with its strength in sixtieths.

With --days N each body is sampled once a day for N days from --at. The days
on which its state changed are listed with the exact times it stationed
retrograde or direct.`,
	Example: `  panchanga chesta --bodies mars,mercury,saturn
  panchanga chesta --at 2024-03-15 --days 60 --bodies mercury`,
	RunE: runChesta,
}

func init() {
	f := chestaCmd.Flags()
	f.StringVar(&chestaOpts.at, "at", "", "instant (default now)")
	f.StringVar(&chestaOpts.tz, "tz", "UTC", "time zone for --at and output")
	f.StringSliceVarP(&chestaOpts.bodies, "bodies", "b", nil, "bodies to classify (default all)")
	f.IntVar(&chestaOpts.days, "days", 1, "number of daily samples")
	rootCmd.AddCommand(chestaCmd)
}

func runChesta(cmd *cobra.Command, _ []string) error {
	zone, err := time.LoadLocation(chestaOpts.tz)
	if err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}
	at, err := parseInstant(chestaOpts.at, zone)
	if err != nil {
		return err
	}
	bodies, err := parseBodies(chestaOpts.bodies)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if chestaOpts.days > 1 {
		series, err := a.ChestaSeries(cmd.Context(), at, chestaOpts.days, bodies...)
		if err != nil {
			return err
		}
		return output(cmd, series, func(w io.Writer) error {
			for _, s := range series {
				fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s  %d days from %s", s.Body, len(s.States), at.In(zone).Format(time.DateOnly))))
				if len(s.States) > 0 {
					line(w, "initially", string(s.States[0].Name))
				}
				if len(s.Transitions) == 0 {
					fmt.Fprintln(w, noteStyle.Render("  no change of state"))
				}
				for _, t := range s.Transitions {
					line(w, t.At.In(zone).Format(time.DateOnly), fmt.Sprintf("%s → %s", t.From, t.To))
				}
				for _, st := range s.Stations {
					line(w, "station", fmt.Sprintf("%s turns %s", st.At.In(zone).Format("2006-01-02 15:04 MST"), st.Kind))
				}
				fmt.Fprintln(w)
			}
			return nil
		})
	}

	r, err := a.Chesta(at, bodies...)
	if err != nil {
		return err
	}
	return output(cmd, r, func(w io.Writer) error {
		fmt.Fprintln(w, headingStyle.Render("Chesta at "+at.In(zone).Format("2006-01-02 15:04 MST")))
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Body", "State", "Strength", "Velocity °/day", "Ratio")
		for _, s := range r.States {
			name := string(s.Name)
			if s.Retrograde {
				name = negativeStyle.Render(name)
			}
			t.Row(string(s.Body), name, fmt.Sprintf("%.1f", s.Strength),
				fmt.Sprintf("%+.4f", s.Velocity), fmt.Sprintf("%.2f", s.Ratio))
		}
		fmt.Fprintln(w, t.Render())
		writeSummary(w, r.Summary)
		return nil
	})
}

func writeSummary(w io.Writer, s chesta.Summary) {
	line(w, "average", fmt.Sprintf("%.2f (%s)", s.Average, s.Level))
	if len(s.Strong) > 0 {
		line(w, "strong", joinBodies(s.Strong))
	}
	if len(s.Weak) > 0 {
		line(w, "weak", joinBodies(s.Weak))
	}
	if len(s.Retrograde) > 0 {
		line(w, "retrograde", joinBodies(s.Retrograde))
	}
}

func joinBodies[T ~string](bodies []T) string {
	parts := make([]string, len(bodies))
	for i, b := range bodies {
		parts[i] = string(b)
	}
	return strings.Join(parts, ", ")
}
