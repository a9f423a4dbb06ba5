package cmd

import (
	"github.com/spf13/cobra"
)

var (
	valYears []string
	valDaily bool
)

var valuesCmd = &cobra.Command{
	Use:   "values [entity]",
	Short: "Monthly values of a farm against the peer-group median, per lactation year",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := entityArg(args)
		if err != nil {
			return err
		}
		years, err := parseYears(valYears)
		if err != nil {
			return err
		}
		pc, err := buildContext(false)
		if err != nil {
			return err
		}
		rep, err := pc.Values(entity, years, valDaily)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), rep, rep.Markdown)
	},
}

func init() {
	rootCmd.AddCommand(valuesCmd)
	valuesCmd.Flags().StringSliceVarP(&valYears, "years", "y", nil, "lactation years to overlay, e.g. 2022,2023-24 (default: recent established years)")
	valuesCmd.Flags().BoolVar(&valDaily, "daily", false, "include the farm's dated samples")
}
