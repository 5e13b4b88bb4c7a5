package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fightpath/fightpath/internal/output"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the remaining API point budget",
	Long: `Show the hourly point budget of the configured API client: the limit,
points spent, points remaining, and time until reset.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, _, err := setupCLI()
		if err != nil {
			return err
		}
		snapshot, err := client.RateLimit(cmd.Context())
		if err != nil {
			return err
		}
		return writeOutput(cmd, func(f output.Formatter) (string, error) {
			return f.FormatQuota(snapshot)
		})
	},
}

func init() {
	rootCmd.AddCommand(quotaCmd)
	addOutputFlags(quotaCmd)
}
