package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cgdin/painel/internal/cli"
	"github.com/cgdin/painel/internal/dashboard"
	"github.com/cgdin/painel/internal/report"
)

var flagSummaryStatuses []string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print KPIs and the project table in the terminal",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringArrayVarP(&flagSummaryStatuses, "status", "s", nil, "status to include (repeatable; default all)")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := cliSetup()
	if err != nil {
		return err
	}

	data, closeSource, err := openSource(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	snap, err := data.Snapshot(cmd.Context())
	if err != nil {
		msg := dashboard.MapError(err, data.Candidates())
		fmt.Fprintf(cmd.ErrOrStderr(), "\n  %s\n  %s\n", msg.Message, msg.Action)
		for _, d := range msg.Details {
			fmt.Fprintf(cmd.ErrOrStderr(), "    - %s\n", d)
		}
		return err
	}

	palette := dashboard.DefaultPalette().Merge(cfg.Dashboard.StatusColors).Resolve(report.Statuses(snap.Table))
	filtered := selection(cmd, flagSummaryStatuses).Apply(snap.Table)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle(cfg.Dashboard.Title))
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderSummary(report.Summarize(filtered)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderProjects(filtered, palette))
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderCaption(cfg.Dashboard.Caption, snap))
	return nil
}
