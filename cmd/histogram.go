package cmd

import (
	"github.com/spf13/cobra"
)

var histWindow windowFlags

var histogramCmd = &cobra.Command{
	Use:   "histogram [entity]",
	Short: "Distribution of the peer group's monthly values, with the farm marked",
	Long: `Pools every farm-month value of the window into a histogram. When a farm is
given its newest value in the window is marked and ranked against the same
values. Without window flags the trailing histogram_months are used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity := ""
		if len(args) > 0 {
			entity = args[0]
		} else {
			entity = effectiveConfig().DefaultEntity
		}
		w, err := histWindow.window()
		if err != nil {
			return err
		}
		pc, err := buildContext(false)
		if err != nil {
			return err
		}
		rep, err := pc.FarmDistribution(entity, w)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), rep, rep.Markdown)
	},
}

func init() {
	rootCmd.AddCommand(histogramCmd)
	histWindow.register(histogramCmd)
}
