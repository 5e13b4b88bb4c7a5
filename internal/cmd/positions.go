package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fightpath/fightpath/internal/core/engine"
	"github.com/fightpath/fightpath/internal/output"
)

var positionsCmd = &cobra.Command{
	Use:   "positions <report-code> <fight-id>",
	Short: "Reconstruct player positions for a fight",
	Long: `Fetch every event of a fight, rebuild each actor's trajectory, and print
player positions.

By default positions are sampled across the whole fight at --rate frames per
second. --at prints a single instant (report milliseconds). --keyframes prints
the stored trajectories instead of samples.

Examples:
  fightpath positions aBcD1234 7
  fightpath positions aBcD1234 7 --at 125000 --normalize
  fightpath positions aBcD1234 7 --keyframes -f msgpack -o fight7.msgpack`,
	Args: cobra.ExactArgs(2),
	RunE: runPositions,
}

func init() {
	rootCmd.AddCommand(positionsCmd)
	addPositionsFlags(positionsCmd)
}

func addPositionsFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
	cmd.Flags().Float64("at", -1, "Report time in milliseconds for a single frame")
	cmd.Flags().Float64("rate", 0, "Frames per second when sampling (default from sampling.rate)")
	cmd.Flags().Bool("normalize", false, "Scale positions to the fight's bounding box")
	cmd.Flags().Bool("keyframes", false, "Print stored keyframes instead of sampled frames")
}

func runPositions(cmd *cobra.Command, args []string) error {
	fightID, err := strconv.ParseInt(strings.TrimSpace(args[1]), 10, 64)
	if err != nil {
		return usagef("fight id must be an integer: %q", args[1])
	}

	flags := cmd.Flags()
	at, _ := flags.GetFloat64("at")
	rate, _ := flags.GetFloat64("rate")
	normalize, _ := flags.GetBool("normalize")
	keyframes, _ := flags.GetBool("keyframes")
	if flags.Changed("rate") && !engine.ValidRate(rate) {
		return usagef("--rate must be a positive finite number")
	}
	if keyframes && flags.Changed("at") {
		return usagef("--keyframes and --at are mutually exclusive")
	}

	cfg, _, orchestrator, err := setupCLI()
	if err != nil {
		return err
	}
	if rate == 0 {
		rate = cfg.Sampling.Rate
	}

	data, err := orchestrator.LoadFight(cmd.Context(), args[0], fightID)
	if err != nil {
		return err
	}

	switch {
	case keyframes:
		return writeOutput(cmd, func(f output.Formatter) (string, error) {
			return f.FormatTrajectories(output.Dumps(data.Trajectories, data.Report.Actors))
		})
	case flags.Changed("at"):
		frame, err := data.At(at, normalize)
		if err != nil {
			return err
		}
		return writeOutput(cmd, func(f output.Formatter) (string, error) {
			return f.FormatFrames([]engine.Frame{frame})
		})
	default:
		return writeOutput(cmd, func(f output.Formatter) (string, error) {
			return f.FormatFrames(data.Frames(rate, normalize))
		})
	}
}
