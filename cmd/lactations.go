package cmd

import (
	"github.com/spf13/cobra"
)

var lactationsCmd = &cobra.Command{
	Use:   "lactations [entity]",
	Short: "Show the lactation years available for a farm",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := entityArg(args)
		if err != nil {
			return err
		}
		pc, err := buildContext(false)
		if err != nil {
			return err
		}
		ch, err := pc.Lactations(entity)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), ch, ch.Markdown)
	},
}

func init() {
	rootCmd.AddCommand(lactationsCmd)
}
