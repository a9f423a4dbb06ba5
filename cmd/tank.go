package cmd

import (
	"github.com/KaramelBytes/milkbench-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	tankMode   string
	tankYears  []string
	tankHist   bool
	tankWindow windowFlags
)

var tankCmd = &cobra.Command{
	Use:   "tank",
	Short: "Benchmark a processor's bulk tank against its suppliers",
	Long: `Compares the monthly tank readings given with --tank against the suppliers
in --data. In group mode each supplier counts once per month; in samples mode
every sample counts. Without --years the newest established tank year is shown.
With --histogram the supplier distribution of a window is shown instead, with
the tank's aggregate for the same months as marker.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := pipeline.ParseMode(tankMode)
		if err != nil {
			return err
		}
		years, err := parseYears(tankYears)
		if err != nil {
			return err
		}
		w, err := tankWindow.window()
		if err != nil {
			return err
		}
		pc, err := buildContext(true)
		if err != nil {
			return err
		}
		if tankHist {
			rep, err := pc.TankDistribution(mode, w)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), rep, rep.Markdown)
		}
		rep, err := pc.TankBenchmark(mode, years)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), rep, rep.Markdown)
	},
}

func init() {
	rootCmd.AddCommand(tankCmd)
	tankCmd.Flags().StringVarP(&tankMode, "mode", "m", "group", "comparison: group (one value per supplier) | samples (every sample)")
	tankCmd.Flags().StringSliceVarP(&tankYears, "years", "y", nil, "lactation years to show, e.g. 2023-24")
	tankCmd.Flags().BoolVar(&tankHist, "histogram", false, "show the supplier distribution instead of monthly series")
	tankWindow.register(tankCmd)
}
