package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/webbridge/internal/application/usecase"
	"github.com/bnema/webbridge/internal/cli"
	"github.com/bnema/webbridge/internal/cli/model"
	"github.com/bnema/webbridge/internal/cli/styles"
)

var (
	journalLimit       int
	journalInteractive bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show journaled host round trips",
	Long: `List the newest host round trips recorded in the outcome journal, with how
each one ended: handled, default, error, expired or orphaned.

The journal is written when journal.enabled is true.`,
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", usecase.DefaultOutcomeLimit, "number of outcomes to show")
	journalCmd.Flags().BoolVarP(&journalInteractive, "interactive", "i", false, "browse in a table")
}

func runJournal(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	uc, err := app.ListOutcomes()
	if errors.Is(err, cli.ErrJournalDisabled) {
		return fmt.Errorf("%w: set journal.enabled = true in %s", err, configHint(app))
	}
	if err != nil {
		return err
	}

	if journalInteractive {
		m := model.NewJournalModel(app.Ctx(), app.Theme, uc, journalLimit)
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}

	out, err := uc.Execute(app.Ctx(), usecase.ListOutcomesInput{Limit: journalLimit})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	t := app.Theme
	if len(out.Outcomes) == 0 {
		fmt.Fprintln(w, t.Subtle.Render("No outcomes journaled yet"))
		return nil
	}
	for _, o := range out.Outcomes {
		fmt.Fprintf(w, "%s %-40s %s %s\n",
			t.ResultBadge(o.Result),
			o.Method,
			t.Subtle.Render(styles.FormatLatency(o.Latency)),
			t.Subtle.Render(styles.RelativeTime(o.At)))
	}
	fmt.Fprintln(w)
	for _, c := range out.Counts {
		fmt.Fprintf(w, "%s %d\n", t.ResultBadge(c.Result), c.Count)
	}
	fmt.Fprintf(w, "%s %d\n", t.Subtitle.Render("total"), out.Total)
	return nil
}

func configHint(app *cli.App) string {
	if f := app.Manager.ConfigFile(); f != "" {
		return f
	}
	return "the config file"
}
