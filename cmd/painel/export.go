package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cgdin/painel/internal/config"
	"github.com/cgdin/painel/internal/logging"
	"github.com/cgdin/painel/internal/report"
)

var (
	flagStatuses []string
	flagOut      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the (filtered) project table as CSV",
	Example: `  painel export
  painel export --status "Em andamento" --status Impedimento --out -`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringArrayVarP(&flagStatuses, "status", "s", nil, "status to include (repeatable; default all)")
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", report.ExportFileName, `output file, "-" for stdout`)
	rootCmd.AddCommand(exportCmd)
}

// cliSetup loads configuration for the one-shot commands, which log to
// stderr so stdout stays usable for data.
func cliSetup() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))
	return cfg, nil
}

// selection maps --status flags to a filter. No flag means every status.
func selection(cmd *cobra.Command, statuses []string) report.Selection {
	if !cmd.Flags().Changed("status") {
		return report.SelectAll()
	}
	return report.Selection{Statuses: statuses}
}

func runExport(cmd *cobra.Command, _ []string) error {
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
		return err
	}
	filtered := selection(cmd, flagStatuses).Apply(snap.Table)

	if flagOut == "-" {
		return report.WriteCSV(cmd.OutOrStdout(), filtered)
	}

	f, err := os.Create(flagOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", flagOut, err)
	}
	if err := report.WriteCSV(f, filtered); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", flagOut, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", flagOut, err)
	}

	slog.Info("export written", "path", flagOut, "rows", filtered.Len(), "source", snap.Source)
	return nil
}
