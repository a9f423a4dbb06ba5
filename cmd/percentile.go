package cmd

import (
	"github.com/spf13/cobra"
)

var pctYears []string

var percentileCmd = &cobra.Command{
	Use:   "percentile [entity]",
	Short: "Monthly percentile of a farm within its peer group, per lactation year",
	Long: `Ranks the farm against every farm of the peer group in each month. 100 is
always the best position: for somatic cells and bacterial count a lower value
ranks higher. Months without data are shown as gaps.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := entityArg(args)
		if err != nil {
			return err
		}
		years, err := parseYears(pctYears)
		if err != nil {
			return err
		}
		pc, err := buildContext(false)
		if err != nil {
			return err
		}
		rep, err := pc.Percentiles(entity, years)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), rep, rep.Markdown)
	},
}

func init() {
	rootCmd.AddCommand(percentileCmd)
	percentileCmd.Flags().StringSliceVarP(&pctYears, "years", "y", nil, "lactation years to overlay, e.g. 2022,2023-24 (default: recent established years)")
}
