package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/chrissnell/panchanga/pkg/panchanga"
	"github.com/chrissnell/panchanga/pkg/responseformat"
	"github.com/chrissnell/panchanga/pkg/yoga"
)

var (
	headingStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Faint(true).Width(12)
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noteStyle     = lipgloss.NewStyle().Italic(true).Faint(true)
)

// output writes data in the selected format. Text output is produced by
// text; every other format is encoded from data.
func output(cmd *cobra.Command, data any, text func(io.Writer) error) error {
	format, err := responseformat.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if format == responseformat.Text {
		return text(cmd.OutOrStdout())
	}
	return responseformat.NewFormatter().Write(cmd.OutOrStdout(), format, data)
}

func line(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label)+value)
}

// window describes when an element ends and how much of it is left.
func window(e panchanga.Element, zone *time.Location) string {
	var s string
	switch {
	case e.End != nil:
		s = "until " + e.End.In(zone).Format("Jan 2 15:04")
	case e.Start != nil:
		s = "since " + e.Start.In(zone).Format("Jan 2 15:04")
	default:
		s = "window unknown"
	}
	if e.Remaining != nil {
		s += fmt.Sprintf(" (%.1f%% left)", *e.Remaining)
	}
	return noteStyle.Render(s)
}

func matchStyle(m yoga.Match) lipgloss.Style {
	if m.Color != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.Color))
	}
	if m.Polarity == yoga.Negative {
		return negativeStyle
	}
	return positiveStyle
}

func writeMatches(w io.Writer, matches []yoga.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, noteStyle.Render("  no yogas"))
		return
	}
	for _, m := range matches {
		mark := "+"
		if m.Polarity == yoga.Negative {
			mark = "-"
		}
		name := m.Name
		if m.Classification != "" {
			name += " (" + m.Classification + ")"
		}
		fmt.Fprintf(w, "  %s %s", matchStyle(m).Render(mark+" "+name), m.Description)
		fmt.Fprintln(w)
	}
}

func zoneOf(loc panchanga.Location) *time.Location {
	z, err := loc.Zone()
	if err != nil {
		return time.UTC
	}
	return z
}
