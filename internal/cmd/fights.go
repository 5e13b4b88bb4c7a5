package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fightpath/fightpath/internal/core/fflogs"
	"github.com/fightpath/fightpath/internal/observability"
	"github.com/fightpath/fightpath/internal/output"
)

var fightsCmd = &cobra.Command{
	Use:   "fights <report-code>",
	Short: "List the fights of a report",
	Long: `List every fight in a report with its enemies, outcome and duration.

Examples:
  fightpath fights aBcD1234
  fightpath fights aBcD1234 -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runFights,
}

func init() {
	rootCmd.AddCommand(fightsCmd)
	addOutputFlags(fightsCmd)
	fightsCmd.Flags().Bool("summary", false, "Print the report title, zone and owner first")
}

func runFights(cmd *cobra.Command, args []string) error {
	_, client, orchestrator, err := setupCLI()
	if err != nil {
		return err
	}

	code := strings.TrimSpace(args[0])
	if withSummary, _ := cmd.Flags().GetBool("summary"); withSummary {
		summary, err := client.Summary(cmd.Context(), code)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), summaryLine(summary))
	}

	report, err := orchestrator.Report(cmd.Context(), code)
	if err != nil {
		return err
	}
	observability.CLILogger.Debug("Loaded report",
		zap.String("report", report.Code),
		zap.Int("fights", len(report.Fights)),
		zap.Int("actors", len(report.Actors)))

	return writeOutput(cmd, func(f output.Formatter) (string, error) {
		return f.FormatReport(report)
	})
}

func summaryLine(s *fflogs.ReportSummary) string {
	line := s.Title
	if line == "" {
		line = s.Code
	}
	if s.Zone != nil && s.Zone.Name != "" {
		line += " - " + s.Zone.Name
	}
	if s.Owner != nil && s.Owner.Name != "" {
		line += " (uploaded by " + s.Owner.Name + ")"
	}
	return line
}
