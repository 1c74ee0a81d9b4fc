package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/chrissnell/panchanga/pkg/yoga"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the yoga rule catalogue",
	Long: `Lists the yoga rules loaded from the configured source (builtin, a YAML
file or the yoga_rules table of a SQLite database) and any rules that were
skipped because they could not be compiled.`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

type ruleView struct {
	Name        string            `json:"name" yaml:"name" msgpack:"name"`
	Sanskrit    string            `json:"sanskrit,omitempty" yaml:"sanskrit,omitempty" msgpack:"sanskrit,omitempty"`
	Polarity    yoga.Polarity     `json:"polarity" yaml:"polarity" msgpack:"polarity"`
	Type        yoga.CriteriaType `json:"type" yaml:"type" msgpack:"type"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" msgpack:"description,omitempty"`
	Flags       []string          `json:"flags,omitempty" yaml:"flags,omitempty" msgpack:"flags,omitempty"`
}

type rulesView struct {
	Source  string             `json:"source" yaml:"source" msgpack:"source"`
	Rules   []ruleView         `json:"rules" yaml:"rules" msgpack:"rules"`
	Skipped []yoga.SkippedRule `json:"skipped,omitempty" yaml:"skipped,omitempty" msgpack:"skipped,omitempty"`
}

func runRules(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	cat := a.Engine().Catalogue()
	view := rulesView{Source: a.Config().Rules.Source, Skipped: cat.Skipped()}
	for _, r := range cat.Rules() {
		view.Rules = append(view.Rules, ruleView{
			Name:        r.Name,
			Sanskrit:    r.Sanskrit,
			Polarity:    r.Polarity,
			Type:        r.Criteria.Type(),
			Description: r.Description,
			Flags:       r.Flags,
		})
	}

	return output(cmd, view, func(w io.Writer) error {
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%d yoga rules from %s", len(view.Rules), view.Source)))
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Name", "Polarity", "Type", "Description")
		for _, r := range view.Rules {
			style := positiveStyle
			if r.Polarity == yoga.Negative {
				style = negativeStyle
			}
			t.Row(r.Name, style.Render(string(r.Polarity)), string(r.Type), r.Description)
		}
		fmt.Fprintln(w, t.Render())

		for _, s := range view.Skipped {
			fmt.Fprintln(w, negativeStyle.Render(fmt.Sprintf("skipped %s (%s): %s", s.Name, s.Type, s.Reason)))
		}
		return nil
	})
}
